package interpreter

import "github.com/auroralang/aurora/runtime"

// signalType tags the non-value outcomes a statement or expression
// evaluation can produce, propagated outward until something catches them
// (spec.md §4.4).
type signalType int

const (
	sigNone signalType = iota
	sigReturn
	sigBreak
	sigContinue
	sigThrow
)

type signal struct {
	typ   signalType
	value *runtime.Value
}

var noSignal = signal{typ: sigNone}

func throwString(msg string) signal {
	return signal{typ: sigThrow, value: runtime.NewString(msg)}
}

// Uncaught wraps a Throw signal that escaped every enclosing try/catch and
// reached the boundary of the interpreter (Eval/EvalProgram caller). Its
// Value is whatever the script threw — not necessarily a string.
type Uncaught struct {
	Value *runtime.Value
}

func (e *Uncaught) Error() string {
	return "uncaught exception: " + e.Value.Display()
}
