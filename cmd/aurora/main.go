// Command aurora is the AuroraLang CLI: it evaluates a script file, an
// inline -e expression, or (with no arguments) starts the REPL.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/auroralang/aurora/builtins"
	"github.com/auroralang/aurora/config"
	"github.com/auroralang/aurora/interpreter"
	"github.com/auroralang/aurora/module"
	"github.com/auroralang/aurora/parser"
	"github.com/auroralang/aurora/repl"
)

func main() {
	evalCode := flag.String("e", "", "evaluate inline AuroraLang source")
	dumpAST := flag.Bool("ast", false, "parse the given file and dump its AST as JSON, without evaluating it")
	manifestPath := flag.String("manifest", "aurora.yml", "path to the project manifest")
	flag.Parse()

	if *evalCode != "" {
		os.Exit(run(*evalCode, "<eval>"))
	}

	if flag.NArg() > 0 {
		filename := flag.Arg(0)
		src, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		if *dumpAST {
			os.Exit(dumpProgramAST(string(src), filename))
		}
		os.Exit(run(string(src), filename))
	}

	interp, err := buildInterpreter(*manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	repl.New(interp).Run()
}

func dumpProgramAST(source, file string) int {
	p := parser.New(source, file)
	prog, errs := p.ParseProgram()
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%v\n", e)
		}
		return 1
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(prog); err != nil {
		fmt.Fprintf(os.Stderr, "encode AST: %v\n", err)
		return 1
	}
	return 0
}

func run(source, file string) int {
	dir := "."
	if file != "<eval>" {
		dir = filepath.Dir(file)
	}
	interp, err := buildInterpreter(filepath.Join(dir, "aurora.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if _, err := interp.Eval(source, file); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return 0
}

// buildInterpreter wires an Interpreter, its module.Loader, and the
// builtin registry together, seeding the loader's git resolver, dependency
// aliases, and search roots from the project manifest when one is present.
// A missing manifest is not an error: manifestPath simply goes unused and
// the interpreter runs with no extra host modules or search roots.
func buildInterpreter(manifestPath string) (*interpreter.Interpreter, error) {
	interp := interpreter.New()
	loader := module.NewLoader(interp, interp.GlobalEnv())
	interp.SetModuleLoader(loader)
	builtins.RegisterAll(interp.GlobalEnv())

	m, err := config.Load(manifestPath)
	if err != nil {
		// No manifest: run with defaults rather than failing every
		// invocation of a manifest-less script. An unparseable or invalid
		// manifest is reported as an error.
		if errors.Is(err, os.ErrNotExist) {
			return interp, nil
		}
		return nil, err
	}

	manifestDir := filepath.Dir(m.Path)

	cacheDir := filepath.Join(manifestDir, ".aurora", "packages")
	git := module.NewGitResolver(loader, cacheDir, m.Entry)
	registry := module.NewRegistry(git)
	for name, dep := range m.Dependencies {
		if dep.Git == "" {
			// Path and registry-version dependencies aren't git-hosted;
			// path deps are reached instead through a relative require()
			// and roots:, and there is no registry resolver in this stack.
			continue
		}
		spec := "git+" + dep.Git
		if ref := dep.GitRef(); ref != "" {
			spec += "#" + ref
		}
		registry.RegisterAlias(name, spec)
	}
	loader.SetHostResolver(registry)

	roots := make([]string, 0, len(m.Roots))
	for _, root := range m.Roots {
		roots = append(roots, filepath.Join(manifestDir, root))
	}
	loader.SetRoots(roots)

	return interp, nil
}
