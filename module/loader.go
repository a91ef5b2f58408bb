// Package module implements AuroraLang's `require`/`import` resolution and
// process-wide module cache (spec.md §4.5).
package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/auroralang/aurora/ast"
	"github.com/auroralang/aurora/parser"
	"github.com/auroralang/aurora/runtime"
)

// Evaluator runs an already-parsed program in env. interpreter.Interpreter
// satisfies this interface; module does not import package interpreter to
// avoid a cycle (the interpreter, in turn, calls back into a Loader through
// its own small ModuleLoader interface).
type Evaluator interface {
	EvalProgram(prog *ast.Program, env *runtime.Environment, file string) (*runtime.Value, error)
}

// HostResolver resolves a specifier that is neither a relative nor an
// absolute path.
type HostResolver interface {
	Resolve(specifier string) (*runtime.Value, error)
}

// Loader owns the process-wide module cache, keyed by canonicalized
// absolute file path.
type Loader struct {
	eval  Evaluator
	root  *runtime.Environment
	cache map[string]*runtime.Value
	host  HostResolver
	roots []string
}

// NewLoader constructs a Loader. root is the environment new module scopes
// are parented to (ordinarily the interpreter's global environment, so
// modules see the same builtins as the entry script).
func NewLoader(eval Evaluator, root *runtime.Environment) *Loader {
	return &Loader{eval: eval, root: root, cache: make(map[string]*runtime.Value)}
}

// SetHostResolver wires the resolver used for specifiers that aren't file
// paths. Optional: a program that never requires a host module can omit it.
func (l *Loader) SetHostResolver(host HostResolver) {
	l.host = host
}

// SetRoots wires additional, absolute module search directories (aurora.yml's
// `roots:` list). A path specifier that doesn't resolve relative to the
// requiring file is then tried under each root in order.
func (l *Loader) SetRoots(roots []string) {
	l.roots = roots
}

// Require resolves specifier as seen from fromFile (the file currently
// executing; "" resolves relative to the working directory).
func (l *Loader) Require(specifier, fromFile string) (*runtime.Value, error) {
	if isPathSpecifier(specifier) {
		return l.requireFile(specifier, fromFile)
	}
	if l.host == nil {
		return nil, fmt.Errorf("no host resolver configured to load %q", specifier)
	}
	return l.host.Resolve(specifier)
}

// resolvePath finds the file specifier refers to: first relative to
// fromFile (or the working directory, for the entry script), then under
// each of the loader's search roots in order (aurora.yml's roots: list,
// spec.md §4.5's "additional module search directories"). If neither
// resolves to an existing file, it returns the primary (relative-to-file)
// candidate so the caller's subsequent read produces a natural
// file-not-found error.
func (l *Loader) resolvePath(specifier, fromFile string) (string, error) {
	primary := specifier
	if !filepath.IsAbs(primary) {
		base := "."
		if fromFile != "" {
			base = filepath.Dir(fromFile)
		}
		primary = filepath.Join(base, specifier)
	}
	if abs, err := filepath.Abs(primary); err == nil {
		if _, statErr := os.Stat(abs); statErr == nil {
			return abs, nil
		}
	}

	trimmed := strings.TrimPrefix(specifier, "./")
	for _, root := range l.roots {
		candidate := filepath.Join(root, trimmed)
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(abs); statErr == nil {
			return abs, nil
		}
	}

	return filepath.Abs(primary)
}

func isPathSpecifier(specifier string) bool {
	return strings.HasPrefix(specifier, "./") ||
		strings.HasPrefix(specifier, "../") ||
		strings.HasPrefix(specifier, "/")
}

func (l *Loader) requireFile(specifier, fromFile string) (*runtime.Value, error) {
	abs, err := l.resolvePath(specifier, fromFile)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", specifier, err)
	}

	if v, ok := l.cache[abs]; ok {
		return v, nil
	}

	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("require %q: %w", specifier, err)
	}
	prog, errs := parser.New(string(src), abs).ParseProgram()
	if len(errs) > 0 {
		return nil, fmt.Errorf("require %q: %d parse error(s), first: %v", specifier, len(errs), errs[0])
	}

	modEnv := runtime.NewEnvironment(l.root)
	exportsVal := runtime.NewRecordValue()
	moduleVal := runtime.NewRecordValue()
	moduleVal.Record.Set("exports", exportsVal)
	modEnv.Declare("exports", exportsVal, false)
	modEnv.Declare("module", moduleVal, false)

	// Cache the in-progress exports record before evaluating, so a cyclic
	// require observes whatever exports have been set so far rather than
	// recursing (spec.md §4.5, §9 Open Questions).
	l.cache[abs] = exportsVal

	if _, err := l.eval.EvalProgram(prog, modEnv, abs); err != nil {
		delete(l.cache, abs)
		return nil, err
	}

	final, _ := moduleVal.Record.Get("exports")
	l.cache[abs] = final
	return final, nil
}
