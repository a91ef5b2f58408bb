package module

import (
	"fmt"
	"strings"

	"github.com/auroralang/aurora/runtime"
)

// Registry is the default HostResolver: named host modules registered
// ahead of time by the embedding program (analogous to Node's built-in
// modules), manifest-declared dependency aliases that stand in for a full
// `git+<url>[#ref]` specifier, and `git+` specifiers themselves delegated
// to a GitResolver.
type Registry struct {
	named   map[string]*runtime.Value
	aliases map[string]string
	git     *GitResolver
}

// NewRegistry creates an empty Registry. git may be nil if git-based
// resolution isn't wired for this interpreter.
func NewRegistry(git *GitResolver) *Registry {
	return &Registry{
		named:   make(map[string]*runtime.Value),
		aliases: make(map[string]string),
		git:     git,
	}
}

// RegisterModule makes name resolvable via require(name)/import.
func (r *Registry) RegisterModule(name string, val *runtime.Value) {
	r.named[name] = val
}

// RegisterAlias makes name resolve as if the importer had written
// gitSpecifier (a `git+<url>[#ref]` string) directly. This is how
// aurora.yml's `dependencies:` entries become importable by name.
func (r *Registry) RegisterAlias(name, gitSpecifier string) {
	r.aliases[name] = gitSpecifier
}

func (r *Registry) Resolve(specifier string) (*runtime.Value, error) {
	if v, ok := r.named[specifier]; ok {
		return v, nil
	}
	if alias, ok := r.aliases[specifier]; ok {
		return r.Resolve(alias)
	}
	if strings.HasPrefix(specifier, "git+") {
		if r.git == nil {
			return nil, fmt.Errorf("git module specifier %q but no git resolver is configured", specifier)
		}
		return r.git.Resolve(specifier)
	}
	return nil, fmt.Errorf("no host module named %q", specifier)
}
