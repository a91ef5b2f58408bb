// Package interpreter tree-walks an AuroraLang *ast.Program, evaluating it
// against a runtime.Environment.
package interpreter

import (
	"fmt"

	"github.com/auroralang/aurora/ast"
	"github.com/auroralang/aurora/parser"
	"github.com/auroralang/aurora/runtime"
)

// ModuleLoader resolves an import/require specifier to a value, on behalf
// of whichever component owns module caching and file resolution. Kept as
// an interface here (rather than importing the module package directly) to
// avoid an import cycle: the module loader itself calls back into the
// interpreter to evaluate the modules it loads.
type ModuleLoader interface {
	Require(specifier, fromFile string) (*runtime.Value, error)
}

// Interpreter evaluates AuroraLang programs by walking their AST.
type Interpreter struct {
	global      *runtime.Environment
	loader      ModuleLoader
	currentFile string
}

// New creates an Interpreter with a fresh global environment. The `require`
// builtin is wired here rather than in package builtins because it needs
// access to the interpreter's module loader and current-file tracking.
func New() *Interpreter {
	interp := &Interpreter{global: runtime.NewEnvironment(nil)}
	interp.global.Declare("require", runtime.NewBuiltin("require", func(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if len(args) == 0 || args[0].Kind != runtime.KString {
			return nil, fmt.Errorf("require expects a string specifier")
		}
		val, sig := interp.doRequire(args[0].Str)
		if sig.typ != sigNone {
			return nil, fmt.Errorf("%s", sig.value.Display())
		}
		return val, nil
	}), true)
	return interp
}

// GlobalEnv returns the root environment builtins are registered into.
func (interp *Interpreter) GlobalEnv() *runtime.Environment {
	return interp.global
}

// SetModuleLoader wires the loader import/require statements defer to.
// Programs that never import a module can run without one.
func (interp *Interpreter) SetModuleLoader(loader ModuleLoader) {
	interp.loader = loader
}

// Eval lexes, parses, and evaluates source as a top-level program, running
// it in the global environment. If the source does not lex or parse, the
// first lex/parse error is returned as-is (its message reads "<message> at
// <file>:<line>:<col>").
func (interp *Interpreter) Eval(source, file string) (*runtime.Value, error) {
	p := parser.New(source, file)
	prog, errs := p.ParseProgram()
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return interp.EvalProgram(prog, interp.global, file)
}

// EvalProgram evaluates an already-parsed program in env, tagging any
// import/require inside it as resolved relative to file. It implements
// module.Evaluator.
func (interp *Interpreter) EvalProgram(prog *ast.Program, env *runtime.Environment, file string) (*runtime.Value, error) {
	prevFile := interp.currentFile
	interp.currentFile = file
	defer func() { interp.currentFile = prevFile }()

	result, sig := interp.execStatements(prog.Body, env)
	switch sig.typ {
	case sigThrow:
		return nil, &Uncaught{Value: sig.value}
	case sigBreak, sigContinue:
		return nil, &Uncaught{Value: runtime.NewString("break/continue outside a loop")}
	case sigReturn:
		return nil, &Uncaught{Value: runtime.NewString("return outside a function")}
	}
	if result == nil {
		result = runtime.Null
	}
	return result, nil
}

func (interp *Interpreter) execStatements(stmts []ast.Statement, env *runtime.Environment) (*runtime.Value, signal) {
	var result *runtime.Value = runtime.Null
	for _, stmt := range stmts {
		v, sig := interp.execStatement(stmt, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		if v != nil {
			result = v
		}
	}
	return result, noSignal
}

func (interp *Interpreter) execStatement(stmt ast.Statement, env *runtime.Environment) (*runtime.Value, signal) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return interp.execVarDecl(s, env)
	case *ast.FunctionDecl:
		fn := runtime.NewFunction(&runtime.Function{Name: s.Name, Params: s.Params, Body: s.Body, Env: env})
		if err := env.Declare(s.Name, fn, true); err != nil {
			return nil, throwString(err.Error())
		}
		return runtime.Null, noSignal
	case *ast.ClassDecl:
		cls := interp.buildClass(s, env)
		if err := env.Declare(s.Name, cls, true); err != nil {
			return nil, throwString(err.Error())
		}
		return runtime.Null, noSignal
	case *ast.Import:
		if _, sig := interp.doRequire(s.Path); sig.typ != sigNone {
			return nil, sig
		}
		return runtime.Null, noSignal
	case *ast.ImportNamed:
		val, sig := interp.doRequire(s.Path)
		if sig.typ != sigNone {
			return nil, sig
		}
		if err := env.Declare(s.Local, val, true); err != nil {
			return nil, throwString(err.Error())
		}
		return runtime.Null, noSignal
	case *ast.Block:
		return interp.execBlock(s, env)
	case *ast.If:
		return interp.execIf(s, env)
	case *ast.While:
		return interp.execWhile(s, env)
	case *ast.For:
		return interp.execFor(s, env)
	case *ast.Return:
		return interp.execReturn(s, env)
	case *ast.TryCatch:
		return interp.execTry(s, env)
	case *ast.Throw:
		val, sig := interp.evalExpression(s.Argument, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		return nil, signal{typ: sigThrow, value: val}
	case *ast.Break:
		return nil, signal{typ: sigBreak}
	case *ast.Continue:
		return nil, signal{typ: sigContinue}
	case *ast.ExprStmt:
		return interp.evalExpression(s.Expression, env)
	default:
		return nil, throwString(fmt.Sprintf("cannot execute statement of type %T", stmt))
	}
}

func (interp *Interpreter) doRequire(specifier string) (*runtime.Value, signal) {
	if interp.loader == nil {
		return nil, throwString("no module loader configured")
	}
	val, err := interp.loader.Require(specifier, interp.currentFile)
	if err != nil {
		return nil, throwString(err.Error())
	}
	return val, noSignal
}

func (interp *Interpreter) execVarDecl(s *ast.VarDecl, env *runtime.Environment) (*runtime.Value, signal) {
	val := runtime.Null
	if s.Init != nil {
		v, sig := interp.evalExpression(s.Init, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		val = v
	}
	if err := env.Declare(s.Name, val, s.Kind == "const"); err != nil {
		return nil, throwString(err.Error())
	}
	return runtime.Null, noSignal
}

// execBlock allocates a fresh child environment, per spec.md §4.4.
func (interp *Interpreter) execBlock(b *ast.Block, env *runtime.Environment) (*runtime.Value, signal) {
	child := runtime.NewEnvironment(env)
	return interp.execStatements(b.Body, child)
}

func (interp *Interpreter) execIf(s *ast.If, env *runtime.Environment) (*runtime.Value, signal) {
	test, sig := interp.evalExpression(s.Test, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	if test.Truthy() {
		return interp.execStatement(s.Consequent, env)
	}
	if s.Alternate != nil {
		return interp.execStatement(s.Alternate, env)
	}
	return runtime.Null, noSignal
}

func (interp *Interpreter) execWhile(s *ast.While, env *runtime.Environment) (*runtime.Value, signal) {
	for {
		test, sig := interp.evalExpression(s.Test, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		if !test.Truthy() {
			return runtime.Null, noSignal
		}
		_, sig = interp.execStatement(s.Body, env)
		switch sig.typ {
		case sigBreak:
			return runtime.Null, noSignal
		case sigContinue, sigNone:
			// fall through to next iteration
		default:
			return nil, sig
		}
	}
}

// execFor allocates one enclosing environment for init/test/update/body, per
// spec.md §4.4.
func (interp *Interpreter) execFor(s *ast.For, env *runtime.Environment) (*runtime.Value, signal) {
	loopEnv := runtime.NewEnvironment(env)
	switch init := s.Init.(type) {
	case *ast.VarDecl:
		if _, sig := interp.execVarDecl(init, loopEnv); sig.typ != sigNone {
			return nil, sig
		}
	case ast.Expression:
		if _, sig := interp.evalExpression(init, loopEnv); sig.typ != sigNone {
			return nil, sig
		}
	}

	for {
		if s.Test != nil {
			test, sig := interp.evalExpression(s.Test, loopEnv)
			if sig.typ != sigNone {
				return nil, sig
			}
			if !test.Truthy() {
				return runtime.Null, noSignal
			}
		}
		_, sig := interp.execStatement(s.Body, loopEnv)
		switch sig.typ {
		case sigBreak:
			return runtime.Null, noSignal
		case sigContinue, sigNone:
			// fall through to update
		default:
			return nil, sig
		}
		if s.Update != nil {
			if _, sig := interp.evalExpression(s.Update, loopEnv); sig.typ != sigNone {
				return nil, sig
			}
		}
	}
}

func (interp *Interpreter) execReturn(s *ast.Return, env *runtime.Environment) (*runtime.Value, signal) {
	val := runtime.Null
	if s.Argument != nil {
		v, sig := interp.evalExpression(s.Argument, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		val = v
	}
	return nil, signal{typ: sigReturn, value: val}
}

func (interp *Interpreter) execTry(s *ast.TryCatch, env *runtime.Environment) (*runtime.Value, signal) {
	result, sig := interp.execBlock(s.Try, env)
	if sig.typ != sigThrow {
		return result, sig
	}
	if !s.HasCatch {
		return nil, sig
	}
	catchEnv := runtime.NewEnvironment(env)
	if s.CatchParam != "" {
		catchEnv.Declare(s.CatchParam, sig.value, false)
	}
	return interp.execStatements(s.Catch.Body, catchEnv)
}

// ---------- Expressions ----------

func (interp *Interpreter) evalExpression(expr ast.Expression, env *runtime.Environment) (*runtime.Value, signal) {
	switch e := expr.(type) {
	case *ast.Literal:
		return interp.evalLiteral(e), noSignal
	case *ast.Identifier:
		v, err := env.Get(e.Name)
		if err != nil {
			return nil, throwString(err.Error())
		}
		return v, noSignal
	case *ast.This:
		v, err := env.Get("this")
		if err != nil {
			return nil, throwString("'this' is not bound in this scope")
		}
		return v, noSignal
	case *ast.Array:
		return interp.evalArray(e, env)
	case *ast.Object:
		return interp.evalObject(e, env)
	case *ast.FunctionExpr:
		return runtime.NewFunction(&runtime.Function{Name: e.Name, Params: e.Params, Body: e.Body, Env: env}), noSignal
	case *ast.Unary:
		return interp.evalUnary(e, env)
	case *ast.Binary:
		return interp.evalBinary(e, env)
	case *ast.Logical:
		return interp.evalLogical(e, env)
	case *ast.Assign:
		return interp.evalAssign(e, env)
	case *ast.Property:
		return interp.evalProperty(e, env)
	case *ast.Index:
		return interp.evalIndex(e, env)
	case *ast.Call:
		return interp.evalCall(e, env)
	case *ast.New:
		return interp.evalNew(e, env)
	default:
		return nil, throwString(fmt.Sprintf("cannot evaluate expression of type %T", expr))
	}
}

func (interp *Interpreter) evalLiteral(e *ast.Literal) *runtime.Value {
	switch e.Kind {
	case ast.LiteralNumber:
		return runtime.NewNumber(e.Num)
	case ast.LiteralString:
		return runtime.NewString(e.Str)
	case ast.LiteralBool:
		return runtime.NewBool(e.Bool)
	default:
		return runtime.Null
	}
}

func (interp *Interpreter) evalArray(e *ast.Array, env *runtime.Environment) (*runtime.Value, signal) {
	elems := make([]*runtime.Value, len(e.Elements))
	for i, el := range e.Elements {
		v, sig := interp.evalExpression(el, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		elems[i] = v
	}
	return runtime.NewArray(elems), noSignal
}

func (interp *Interpreter) evalObject(e *ast.Object, env *runtime.Environment) (*runtime.Value, signal) {
	rec := runtime.NewRecord()
	for _, prop := range e.Props {
		v, sig := interp.evalExpression(prop.Value, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		rec.Set(prop.Key, v)
	}
	return &runtime.Value{Kind: runtime.KRecord, Record: rec}, noSignal
}

func (interp *Interpreter) evalUnary(e *ast.Unary, env *runtime.Environment) (*runtime.Value, signal) {
	operand, sig := interp.evalExpression(e.Operand, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	switch e.Op {
	case "-":
		v, err := runtime.Negate(operand)
		if err != nil {
			return nil, throwString(err.Error())
		}
		return v, noSignal
	case "!":
		return runtime.NewBool(!operand.Truthy()), noSignal
	default:
		return nil, throwString(fmt.Sprintf("unknown unary operator %q", e.Op))
	}
}

func (interp *Interpreter) evalLogical(e *ast.Logical, env *runtime.Environment) (*runtime.Value, signal) {
	left, sig := interp.evalExpression(e.Left, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	if e.Op == "||" {
		if left.Truthy() {
			return left, noSignal
		}
		return interp.evalExpression(e.Right, env)
	}
	// "&&"
	if !left.Truthy() {
		return left, noSignal
	}
	return interp.evalExpression(e.Right, env)
}

func (interp *Interpreter) evalBinary(e *ast.Binary, env *runtime.Environment) (*runtime.Value, signal) {
	left, sig := interp.evalExpression(e.Left, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	right, sig := interp.evalExpression(e.Right, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	var result *runtime.Value
	var err error
	switch e.Op {
	case "+":
		result, err = runtime.Add(left, right)
	case "-":
		result, err = runtime.Sub(left, right)
	case "*":
		result, err = runtime.Mul(left, right)
	case "/":
		result, err = runtime.Div(left, right)
	case "%":
		result, err = runtime.Mod(left, right)
	case "**":
		result, err = runtime.Pow(left, right)
	case "==":
		return runtime.NewBool(runtime.Equal(left, right)), noSignal
	case "!=":
		return runtime.NewBool(!runtime.Equal(left, right)), noSignal
	case "<", "<=", ">", ">=":
		result, err = runtime.Compare(e.Op, left, right)
	default:
		return nil, throwString(fmt.Sprintf("unknown binary operator %q", e.Op))
	}
	if err != nil {
		return nil, throwString(err.Error())
	}
	return result, noSignal
}

func (interp *Interpreter) evalAssign(e *ast.Assign, env *runtime.Environment) (*runtime.Value, signal) {
	val, sig := interp.evalExpression(e.Value, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	switch target := e.Target.(type) {
	case *ast.Identifier:
		if err := env.Assign(target.Name, val); err != nil {
			return nil, throwString(err.Error())
		}
		return val, noSignal
	case *ast.Property:
		obj, sig := interp.evalExpression(target.Object, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		if obj.Kind != runtime.KRecord {
			return nil, throwString(fmt.Sprintf("cannot set property %q on %s", target.Name, obj.Kind))
		}
		obj.Record.Set(target.Name, val)
		return val, noSignal
	case *ast.Index:
		obj, sig := interp.evalExpression(target.Object, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		idx, sig := interp.evalExpression(target.Index, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		return interp.assignIndex(obj, idx, val)
	default:
		return nil, throwString("invalid assignment target")
	}
}

func (interp *Interpreter) assignIndex(obj, idx, val *runtime.Value) (*runtime.Value, signal) {
	switch obj.Kind {
	case runtime.KArray:
		if idx.Kind != runtime.KNumber {
			return nil, throwString("array index must be a number")
		}
		i := int(idx.Number)
		if i < 0 {
			return nil, throwString("array index out of bounds")
		}
		for i >= len(obj.Array.Elems) {
			obj.Array.Elems = append(obj.Array.Elems, runtime.Null)
		}
		obj.Array.Elems[i] = val
		return val, noSignal
	case runtime.KRecord:
		obj.Record.Set(idx.Display(), val)
		return val, noSignal
	default:
		return nil, throwString(fmt.Sprintf("cannot index into %s", obj.Kind))
	}
}

func (interp *Interpreter) evalProperty(e *ast.Property, env *runtime.Environment) (*runtime.Value, signal) {
	obj, sig := interp.evalExpression(e.Object, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	return interp.getProperty(obj, e.Name)
}

func (interp *Interpreter) getProperty(obj *runtime.Value, name string) (*runtime.Value, signal) {
	switch obj.Kind {
	case runtime.KRecord:
		if v, ok := obj.Record.Get(name); ok {
			return v, noSignal
		}
		return runtime.Null, noSignal
	case runtime.KArray:
		if name == "length" {
			return runtime.NewNumber(float64(len(obj.Array.Elems))), noSignal
		}
		return runtime.Null, noSignal
	case runtime.KString:
		if name == "length" {
			return runtime.NewNumber(float64(len([]rune(obj.Str)))), noSignal
		}
		return runtime.Null, noSignal
	default:
		return nil, throwString(fmt.Sprintf("cannot access property %q on %s", name, obj.Kind))
	}
}

func (interp *Interpreter) evalIndex(e *ast.Index, env *runtime.Environment) (*runtime.Value, signal) {
	obj, sig := interp.evalExpression(e.Object, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	idx, sig := interp.evalExpression(e.Index, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	switch obj.Kind {
	case runtime.KArray:
		if idx.Kind != runtime.KNumber {
			return nil, throwString("array index must be a number")
		}
		i := int(idx.Number)
		if i < 0 || i >= len(obj.Array.Elems) {
			return runtime.Null, noSignal
		}
		return obj.Array.Elems[i], noSignal
	case runtime.KRecord:
		return interp.getProperty(obj, idx.Display())
	case runtime.KString:
		if idx.Kind != runtime.KNumber {
			return nil, throwString("string index must be a number")
		}
		runes := []rune(obj.Str)
		i := int(idx.Number)
		if i < 0 || i >= len(runes) {
			return runtime.Null, noSignal
		}
		return runtime.NewString(string(runes[i])), noSignal
	default:
		return nil, throwString(fmt.Sprintf("cannot index into %s", obj.Kind))
	}
}

func (interp *Interpreter) evalCall(e *ast.Call, env *runtime.Environment) (*runtime.Value, signal) {
	var thisVal *runtime.Value
	var callee *runtime.Value

	if prop, ok := e.Callee.(*ast.Property); ok {
		obj, sig := interp.evalExpression(prop.Object, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		thisVal = obj
		c, sig := interp.getProperty(obj, prop.Name)
		if sig.typ != sigNone {
			return nil, sig
		}
		callee = c
	} else {
		c, sig := interp.evalExpression(e.Callee, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		callee = c
		thisVal = nil
	}

	args := make([]*runtime.Value, len(e.Args))
	for i, a := range e.Args {
		v, sig := interp.evalExpression(a, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		args[i] = v
	}

	return interp.invoke(callee, thisVal, args)
}

// invoke calls callee with the given (possibly unbound, i.e. nil) this and
// arguments. It is shared by Call expressions and constructor invocation.
func (interp *Interpreter) invoke(callee, thisVal *runtime.Value, args []*runtime.Value) (*runtime.Value, signal) {
	switch callee.Kind {
	case runtime.KFunction:
		return interp.callFunction(callee.Function, thisVal, args)
	case runtime.KBuiltin:
		result, err := callee.Builtin.Fn(thisVal, args)
		if err != nil {
			return nil, throwString(err.Error())
		}
		if result == nil {
			result = runtime.Null
		}
		return result, noSignal
	default:
		return nil, throwString(fmt.Sprintf("%s is not callable", callee.Kind))
	}
}

func (interp *Interpreter) callFunction(fn *runtime.Function, thisVal *runtime.Value, args []*runtime.Value) (*runtime.Value, signal) {
	callEnv := runtime.NewEnvironment(fn.Env)
	if thisVal != nil {
		callEnv.Declare("this", thisVal, true)
	}
	for i, param := range fn.Params {
		var v *runtime.Value = runtime.Null
		if i < len(args) {
			v = args[i]
		}
		callEnv.Declare(param, v, false)
	}
	_, sig := interp.execStatements(fn.Body.Body, callEnv)
	switch sig.typ {
	case sigReturn:
		return sig.value, noSignal
	case sigThrow:
		return nil, sig
	case sigBreak, sigContinue:
		return nil, throwString("break/continue outside a loop")
	default:
		return runtime.Null, noSignal
	}
}

func (interp *Interpreter) evalNew(e *ast.New, env *runtime.Environment) (*runtime.Value, signal) {
	calleeVal, sig := interp.evalExpression(e.Callee, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	if calleeVal.Kind != runtime.KClass {
		return nil, throwString(fmt.Sprintf("cannot construct a new instance of %s", calleeVal.Kind))
	}
	args := make([]*runtime.Value, len(e.Args))
	for i, a := range e.Args {
		v, sig := interp.evalExpression(a, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		args[i] = v
	}
	return interp.instantiate(calleeVal.Class, args)
}
