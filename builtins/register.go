// Package builtins registers AuroraLang's fixed native function set into an
// interpreter's global environment (spec.md §4.6).
package builtins

import "github.com/auroralang/aurora/runtime"

// RegisterAll installs every builtin the language guarantees. `require` is
// registered separately by package interpreter, since it needs access to
// the interpreter's module loader.
func RegisterAll(env *runtime.Environment) {
	registerCore(env)
	registerOS(env)
	registerNet(env)
}

func declare(env *runtime.Environment, name string, fn runtime.BuiltinFunc) {
	env.Declare(name, runtime.NewBuiltin(name, fn), true)
}
