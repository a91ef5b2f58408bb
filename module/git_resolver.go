package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/auroralang/aurora/runtime"
)

// GitResolver resolves `git+<url>[#ref]` specifiers by cloning the
// repository into a local cache directory (once) and requiring a fixed
// entry file inside it. This is the escape hatch spec.md §4.5 calls "the
// host's module resolver", extended here with a concrete git-backed
// implementation.
type GitResolver struct {
	loader   *Loader
	cacheDir string
	entry    string
}

// NewGitResolver builds a resolver that clones into cacheDir and, once
// cloned, requires entry (e.g. "index.aur") from the repository root.
func NewGitResolver(loader *Loader, cacheDir, entry string) *GitResolver {
	return &GitResolver{loader: loader, cacheDir: cacheDir, entry: entry}
}

func (g *GitResolver) Resolve(specifier string) (*runtime.Value, error) {
	spec := strings.TrimPrefix(specifier, "git+")
	url, ref := spec, ""
	if i := strings.LastIndex(spec, "#"); i >= 0 {
		url, ref = spec[:i], spec[i+1:]
	}

	dest := filepath.Join(g.cacheDir, cacheDirName(url, ref))
	if _, err := os.Stat(dest); os.IsNotExist(err) {
		if err := g.clone(url, ref, dest); err != nil {
			return nil, fmt.Errorf("git module %q: %w", specifier, err)
		}
	}

	entryPath := filepath.Join(dest, g.entry)
	return g.loader.requireFile(entryPath, "")
}

func (g *GitResolver) clone(url, ref, dest string) error {
	opts := &git.CloneOptions{URL: url}
	if ref == "" {
		_, err := git.PlainClone(dest, false, opts)
		return err
	}
	// Try ref as a branch first, then fall back to a tag.
	opts.ReferenceName = plumbing.NewBranchReferenceName(ref)
	if _, err := git.PlainClone(dest, false, opts); err == nil {
		return nil
	}
	os.RemoveAll(dest)
	opts.ReferenceName = plumbing.NewTagReferenceName(ref)
	_, err := git.PlainClone(dest, false, opts)
	return err
}

func cacheDirName(url, ref string) string {
	safe := strings.NewReplacer("/", "_", ":", "_", "@", "_").Replace(url)
	if ref != "" {
		safe += "@" + strings.NewReplacer("/", "_").Replace(ref)
	}
	return safe
}
