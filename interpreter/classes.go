package interpreter

import (
	"github.com/auroralang/aurora/ast"
	"github.com/auroralang/aurora/runtime"
)

// buildClass evaluates a class declaration into its runtime representation.
// The class body closes over env; methods do not close over the instance —
// `this` is bound per call from the shape of the call expression (see
// evalCall), matching how instance.method() resolves `this` for ordinary
// property-callee calls.
func (interp *Interpreter) buildClass(decl *ast.ClassDecl, env *runtime.Environment) *runtime.Value {
	methods := make(map[string]*ast.MethodDef, len(decl.Methods))
	for _, m := range decl.Methods {
		methods[m.Name] = m
	}
	return runtime.NewClassValue(&runtime.Class{Name: decl.Name, Methods: methods, Env: env})
}

// instantiate constructs a new instance record of cls: every declared
// method is installed as a callable field on the instance, then, if a
// `constructor` method exists, it runs with the instance bound as `this`
// (spec.md §4.4 New rule).
func (interp *Interpreter) instantiate(cls *runtime.Class, args []*runtime.Value) (*runtime.Value, signal) {
	rec := runtime.NewRecord()
	rec.Class = cls
	instance := &runtime.Value{Kind: runtime.KRecord, Record: rec}

	for name, method := range cls.Methods {
		fn := runtime.NewFunction(&runtime.Function{Name: name, Params: method.Params, Body: method.Body, Env: cls.Env})
		rec.Set(name, fn)
	}

	if ctor, ok := rec.Get("constructor"); ok {
		if _, sig := interp.invoke(ctor, instance, args); sig.typ != sigNone {
			return nil, sig
		}
	}
	return instance, noSignal
}
