package builtins

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/auroralang/aurora/runtime"
)

// Stdout is where print() writes. It defaults to the process's standard
// output; the fixture runner in package testrunner swaps it out to
// capture a script's output for comparison against a golden file.
var Stdout io.Writer = os.Stdout

func registerCore(env *runtime.Environment) {
	declare(env, "print", biPrint)
	declare(env, "len", biLen)
	declare(env, "typeOf", biTypeOf)
	declare(env, "clock", biClock)
	declare(env, "range", biRange)
	declare(env, "keys", biKeys)
	declare(env, "values", biValues)
	declare(env, "push", biPush)
	declare(env, "pop", biPop)
	declare(env, "join", biJoin)
}

func biPrint(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Display()
	}
	fmt.Fprintln(Stdout, strings.Join(parts, " "))
	return runtime.Null, nil
}

func biLen(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("len expects 1 argument, got %d", len(args))
	}
	switch v := args[0]; v.Kind {
	case runtime.KString:
		return runtime.NewNumber(float64(len([]rune(v.Str)))), nil
	case runtime.KArray:
		return runtime.NewNumber(float64(len(v.Array.Elems))), nil
	case runtime.KRecord:
		return runtime.NewNumber(float64(len(v.Record.Order))), nil
	default:
		return nil, fmt.Errorf("len is not defined for %s", v.Kind)
	}
}

func biTypeOf(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("typeOf expects 1 argument, got %d", len(args))
	}
	return runtime.NewString(args[0].TypeName()), nil
}

func biClock(_ *runtime.Value, _ []*runtime.Value) (*runtime.Value, error) {
	return runtime.NewNumber(float64(time.Now().UnixNano()) / 1e9), nil
}

func biRange(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	var start, stop, step float64
	switch len(args) {
	case 1:
		start, stop, step = 0, args[0].Number, 1
	case 2:
		start, stop, step = args[0].Number, args[1].Number, 1
	case 3:
		start, stop, step = args[0].Number, args[1].Number, args[2].Number
	default:
		return nil, fmt.Errorf("range expects 1 to 3 arguments, got %d", len(args))
	}
	for _, a := range args {
		if a.Kind != runtime.KNumber {
			return nil, fmt.Errorf("range arguments must be numbers")
		}
	}
	if step == 0 {
		return nil, fmt.Errorf("range step must not be zero")
	}
	var elems []*runtime.Value
	if step > 0 {
		for n := start; n < stop; n += step {
			elems = append(elems, runtime.NewNumber(n))
		}
	} else {
		for n := start; n > stop; n += step {
			elems = append(elems, runtime.NewNumber(n))
		}
	}
	return runtime.NewArray(elems), nil
}

func biKeys(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	rec, err := requireRecord("keys", args)
	if err != nil {
		return nil, err
	}
	keys := rec.SortedKeys()
	elems := make([]*runtime.Value, len(keys))
	for i, k := range keys {
		elems[i] = runtime.NewString(k)
	}
	return runtime.NewArray(elems), nil
}

func biValues(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	rec, err := requireRecord("values", args)
	if err != nil {
		return nil, err
	}
	keys := rec.SortedKeys()
	elems := make([]*runtime.Value, len(keys))
	for i, k := range keys {
		v, _ := rec.Get(k)
		elems[i] = v
	}
	return runtime.NewArray(elems), nil
}

func requireRecord(name string, args []*runtime.Value) (*runtime.Record, error) {
	if len(args) != 1 || args[0].Kind != runtime.KRecord {
		return nil, fmt.Errorf("%s expects a single record argument", name)
	}
	return args[0].Record, nil
}

func biPush(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if len(args) != 2 || args[0].Kind != runtime.KArray {
		return nil, fmt.Errorf("push expects (array, value)")
	}
	args[0].Array.Elems = append(args[0].Array.Elems, args[1])
	return runtime.NewNumber(float64(len(args[0].Array.Elems))), nil
}

func biPop(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if len(args) != 1 || args[0].Kind != runtime.KArray {
		return nil, fmt.Errorf("pop expects (array)")
	}
	elems := args[0].Array.Elems
	if len(elems) == 0 {
		return runtime.Null, nil
	}
	last := elems[len(elems)-1]
	args[0].Array.Elems = elems[:len(elems)-1]
	return last, nil
}

func biJoin(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if len(args) != 2 || args[0].Kind != runtime.KArray || args[1].Kind != runtime.KString {
		return nil, fmt.Errorf("join expects (array, separator string)")
	}
	parts := make([]string, len(args[0].Array.Elems))
	for i, e := range args[0].Array.Elems {
		parts[i] = e.Display()
	}
	return runtime.NewString(strings.Join(parts, args[1].Str)), nil
}
