package builtins

import (
	"fmt"
	"os"
	"strings"

	"github.com/auroralang/aurora/runtime"
)

func registerOS(env *runtime.Environment) {
	declare(env, "readFile", biReadFile)
	declare(env, "writeFile", biWriteFile)
	declare(env, "fileExists", biFileExists)
	declare(env, "cwd", biCwd)
	declare(env, "homeDir", biHomeDir)
	declare(env, "env", biEnv)
}

func requireString(name string, args []*runtime.Value, i int) (string, error) {
	if i >= len(args) || args[i].Kind != runtime.KString {
		return "", fmt.Errorf("%s expects a string at argument %d", name, i+1)
	}
	return args[i].Str, nil
}

func biReadFile(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	path, err := requireString("readFile", args, 0)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("readFile: %w", err)
	}
	return runtime.NewString(string(data)), nil
}

func biWriteFile(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	path, err := requireString("writeFile", args, 0)
	if err != nil {
		return nil, err
	}
	content, err := requireString("writeFile", args, 1)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("writeFile: %w", err)
	}
	return runtime.Null, nil
}

func biFileExists(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	path, err := requireString("fileExists", args, 0)
	if err != nil {
		return nil, err
	}
	_, statErr := os.Stat(path)
	return runtime.NewBool(statErr == nil), nil
}

func biCwd(_ *runtime.Value, _ []*runtime.Value) (*runtime.Value, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cwd: %w", err)
	}
	return runtime.NewString(dir), nil
}

func biHomeDir(_ *runtime.Value, _ []*runtime.Value) (*runtime.Value, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("homeDir: %w", err)
	}
	return runtime.NewString(home), nil
}

func biEnv(_ *runtime.Value, _ []*runtime.Value) (*runtime.Value, error) {
	rec := runtime.NewRecord()
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		rec.Set(parts[0], runtime.NewString(parts[1]))
	}
	return &runtime.Value{Kind: runtime.KRecord, Record: rec}, nil
}
