// Package config parses aurora.yml, the project manifest that seeds the
// module loader's search roots and git dependencies (spec.md §4.5's "host
// module resolver", expanded).
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is the parsed contents of aurora.yml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Entry        string
	Roots        []string
	Dependencies map[string]*DependencySpec
}

// DependencySpec describes one entry under `dependencies:`. Version is for
// registry-style dependencies (unused by AuroraLang today, kept for shape
// parity); Git/Rev/Tag/Branch select a git-hosted package, resolved by
// module.GitResolver. The ref (see GitRef) is cloned as a branch name, or
// failing that as a tag name; a Rev that is a commit hash is not checked
// out.
type DependencySpec struct {
	Version string
	Git     string
	Rev     string
	Tag     string
	Branch  string
	Path    string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load parses aurora.yml from path, returning a validated Manifest.
func Load(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	m := raw.toManifest(absPath)
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Default returns a manifest for a project without an aurora.yml: entry
// defaults to "main.aur" and there are no dependencies or extra roots.
func Default() *Manifest {
	return &Manifest{Entry: "main.aur", Dependencies: map[string]*DependencySpec{}}
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for depName, dep := range m.Dependencies {
		if dep == nil {
			continue
		}
		if dep.Path != "" && (dep.Version != "" || dep.Git != "") {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: path overrides cannot specify version or git source", depName))
		}
		if dep.Git != "" && dep.Version != "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: git dependencies cannot also specify version", depName))
		}
		if dep.Rev != "" && (dep.Tag != "" || dep.Branch != "") {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: rev cannot be combined with tag or branch", depName))
		}
		if dep.Git == "" && dep.Path == "" && dep.Version == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: must specify git, path, or version", depName))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// GitRef returns the ref portion of a dependency's git specifier, in
// priority order Rev, then Tag, then Branch, "" if none is set.
func (d *DependencySpec) GitRef() string {
	switch {
	case d.Rev != "":
		return d.Rev
	case d.Tag != "":
		return d.Tag
	case d.Branch != "":
		return d.Branch
	default:
		return ""
	}
}

type manifestFile struct {
	Name         string                     `yaml:"name"`
	Version      string                     `yaml:"version"`
	Entry        string                     `yaml:"entry"`
	Roots        []string                   `yaml:"roots"`
	Dependencies map[string]*DependencySpec `yaml:"dependencies"`
}

func (mf manifestFile) toManifest(path string) *Manifest {
	entry := strings.TrimSpace(mf.Entry)
	if entry == "" {
		entry = "main.aur"
	}
	deps := mf.Dependencies
	if deps == nil {
		deps = map[string]*DependencySpec{}
	}
	return &Manifest{
		Path:         path,
		Name:         strings.TrimSpace(mf.Name),
		Version:      strings.TrimSpace(mf.Version),
		Entry:        entry,
		Roots:        mf.Roots,
		Dependencies: deps,
	}
}

// UnmarshalYAML lets a dependency be written either as a bare version
// string (`foo: "^1.0"`) or as a mapping with git/rev/tag/branch/path keys.
func (d *DependencySpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*d = DependencySpec{Version: strings.TrimSpace(value.Value)}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Version string `yaml:"version"`
			Git     string `yaml:"git"`
			Rev     string `yaml:"rev"`
			Tag     string `yaml:"tag"`
			Branch  string `yaml:"branch"`
			Path    string `yaml:"path"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*d = DependencySpec{
			Version: strings.TrimSpace(raw.Version),
			Git:     strings.TrimSpace(raw.Git),
			Rev:     strings.TrimSpace(raw.Rev),
			Tag:     strings.TrimSpace(raw.Tag),
			Branch:  strings.TrimSpace(raw.Branch),
			Path:    strings.TrimSpace(raw.Path),
		}
		return nil
	default:
		return fmt.Errorf("manifest: expected string or mapping for dependency, found %s", value.ShortTag())
	}
}
