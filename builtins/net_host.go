package builtins

import (
	"fmt"
	"io"
	"net/http"
	"os/exec"

	"github.com/auroralang/aurora/runtime"
)

func registerNet(env *runtime.Environment) {
	declare(env, "httpGet", biHTTPGet)
	declare(env, "exec", biExec)
}

func biHTTPGet(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	url, err := requireString("httpGet", args, 0)
	if err != nil {
		return nil, err
	}
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("httpGet: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpGet: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("httpGet: %s returned status %d", url, resp.StatusCode)
	}
	return runtime.NewString(string(body)), nil
}

// biExec spawns argv[0] with the remaining elements as arguments and
// returns its captured stdout. A non-zero exit or spawn failure raises a
// Throw carrying the error text (spec.md §4.6: "subprocess exec returning
// captured stdout").
func biExec(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if len(args) != 1 || args[0].Kind != runtime.KArray || len(args[0].Array.Elems) == 0 {
		return nil, fmt.Errorf("exec expects a non-empty array of strings [command, arg...]")
	}
	argv := make([]string, len(args[0].Array.Elems))
	for i, v := range args[0].Array.Elems {
		if v.Kind != runtime.KString {
			return nil, fmt.Errorf("exec: argument %d is not a string", i)
		}
		argv[i] = v.Str
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	return runtime.NewString(string(out)), nil
}
