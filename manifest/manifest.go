// Package manifest maintains the project's package.json inside the project filesystem.
//
// The manifest is the single record of installed packages that the resolver
// and the types fetcher read. Keys other than main and dependencies are
// preserved across rewrites. An unreadable manifest is treated as empty.
package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vbuild-dev/vbuild/constant"
	"github.com/vbuild-dev/vbuild/log"
	"github.com/vbuild-dev/vbuild/specifier"
	"github.com/vbuild-dev/vbuild/typefetch"
	"github.com/vbuild-dev/vbuild/vfs"
)

// SharedVersion marks a dependency satisfied by the host's shared modules.
const SharedVersion = "shared"

// Document is the part of package.json vbuild understands.
type Document struct {
	Main         string            `json:"main" jsonschema:"description=Entry point of the build as an absolute project path."`
	Dependencies map[string]string `json:"dependencies" jsonschema:"description=Installed packages mapped to a version or to \"shared\" for host-provided modules."`
}

// VersionResolver finds the current version of a package.
type VersionResolver interface {
	ResolveVersion(ctx context.Context, name string) (string, error)
}

// InstallResult describes an install.
type InstallResult struct {
	Name            string
	Version         string
	PreviousVersion mo.Option[string]
}

func (r *InstallResult) String() string {
	if prev, ok := r.PreviousVersion.Get(); ok && prev != r.Version {
		return fmt.Sprintf("%s@%s (was %s)", r.Name, r.Version, prev)
	}
	return r.Name + "@" + r.Version
}

// Manifest is a package.json stored in a filesystem.
type Manifest struct {
	fs       *vfs.FS
	path     string
	versions VersionResolver
}

// Option configures a Manifest.
type Option func(*Manifest)

// WithVersionResolver resolves versions for installs that name none.
func WithVersionResolver(v VersionResolver) Option {
	return func(m *Manifest) {
		m.versions = v
	}
}

// Open binds the manifest at path in fs. The file need not exist yet.
func Open(fs *vfs.FS, path string, opts ...Option) *Manifest {
	if path == "" {
		path = constant.ManifestPath
	}
	m := &Manifest{fs: fs, path: path}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Path returns the manifest location.
func (m *Manifest) Path() string {
	return m.path
}

// Exists reports whether the manifest file is present.
func (m *Manifest) Exists() bool {
	return m.fs.Exists(m.path)
}

type state struct {
	raw map[string]json.RawMessage
	doc Document
}

func (m *Manifest) load() *state {
	s := &state{raw: make(map[string]json.RawMessage)}

	data, err := m.fs.ReadFile(m.path)
	if err != nil {
		if !errors.Is(err, vfs.ErrNotFound) {
			log.Warnf("reading %s: %v", m.path, err)
		}
		return s.normalize()
	}

	if err := json.Unmarshal(data, &s.raw); err != nil {
		log.Warnf("%s is not valid JSON, starting from an empty manifest: %v", m.path, err)
		return (&state{raw: make(map[string]json.RawMessage)}).normalize()
	}
	if s.raw == nil {
		s.raw = make(map[string]json.RawMessage)
	}

	if v, ok := s.raw["main"]; ok {
		if err := json.Unmarshal(v, &s.doc.Main); err != nil {
			log.Warnf("%s: ignoring invalid main: %v", m.path, err)
		}
	}
	if v, ok := s.raw["dependencies"]; ok {
		if err := json.Unmarshal(v, &s.doc.Dependencies); err != nil {
			log.Warnf("%s: ignoring invalid dependencies: %v", m.path, err)
		}
	}
	return s.normalize()
}

func (s *state) normalize() *state {
	if s.doc.Dependencies == nil {
		s.doc.Dependencies = make(map[string]string)
	}
	return s
}

func (m *Manifest) save(s *state) error {
	main, err := json.Marshal(s.doc.Main)
	if err != nil {
		return err
	}
	deps, err := json.Marshal(s.doc.Dependencies)
	if err != nil {
		return err
	}
	s.raw["main"] = main
	s.raw["dependencies"] = deps

	data, err := json.MarshalIndent(s.raw, "", "  ")
	if err != nil {
		return err
	}
	return m.fs.WriteFile(m.path, append(data, '\n'))
}

// Document returns the current main and dependencies.
func (m *Manifest) Document() Document {
	return m.load().doc
}

// Dependencies returns a copy of the installed packages.
func (m *Manifest) Dependencies() map[string]string {
	return lo.Assign(m.load().doc.Dependencies)
}

// Main returns the build entry, constant.EntryPath when unset.
func (m *Manifest) Main() string {
	if main := m.load().doc.Main; main != "" {
		return main
	}
	return constant.EntryPath
}

// SetMain records the build entry.
func (m *Manifest) SetMain(p string) error {
	s := m.load()
	s.doc.Main = p
	return m.save(s)
}

// Install records spec ("name" or "name@version"). Without a version the
// current one is resolved, falling back to "latest".
func (m *Manifest) Install(ctx context.Context, spec string) (*InstallResult, error) {
	name, version := specifier.ParseVersioned(strings.TrimSpace(spec))
	if err := validateName(name); err != nil {
		return nil, err
	}

	if version == "" {
		version = m.resolveVersion(ctx, name)
	}
	return m.set(name, version)
}

// InstallShared records name as provided by the host. A version in the
// specifier is dropped since the host decides it.
func (m *Manifest) InstallShared(spec string) (*InstallResult, error) {
	name, _ := specifier.ParseVersioned(strings.TrimSpace(spec))
	if err := validateName(name); err != nil {
		return nil, err
	}
	return m.set(name, SharedVersion)
}

func (m *Manifest) resolveVersion(ctx context.Context, name string) string {
	if m.versions == nil {
		return typefetch.LatestVersion
	}

	version, err := m.versions.ResolveVersion(ctx, name)
	if err != nil || version == "" {
		log.Warnf("could not resolve a version for %s, using %s: %v", name, typefetch.LatestVersion, err)
		return typefetch.LatestVersion
	}
	return version
}

func (m *Manifest) set(name, version string) (*InstallResult, error) {
	s := m.load()

	result := &InstallResult{Name: name, Version: version, PreviousVersion: mo.None[string]()}
	if prev, ok := s.doc.Dependencies[name]; ok {
		result.PreviousVersion = mo.Some(prev)
	}

	s.doc.Dependencies[name] = version
	if err := m.save(s); err != nil {
		return nil, fmt.Errorf("install %s: %w", name, err)
	}
	return result, nil
}

// Uninstall removes name and its installed type declarations. It reports
// whether anything was removed.
func (m *Manifest) Uninstall(name string) (bool, error) {
	s := m.load()

	_, listed := s.doc.Dependencies[name]
	if listed {
		delete(s.doc.Dependencies, name)
		if err := m.save(s); err != nil {
			return false, fmt.Errorf("uninstall %s: %w", name, err)
		}
	}

	dir := typefetch.PackageDir(name)
	installed := m.fs.Exists(dir)
	if installed {
		if err := m.fs.Remove(dir, vfs.RemoveOptions{Recursive: true, Force: true}); err != nil {
			return listed, fmt.Errorf("uninstall %s: %w", name, err)
		}
	}
	return listed || installed, nil
}

func validateName(name string) error {
	pkg := specifier.ParsePackage(name)
	switch {
	case name == "":
		return errors.New("empty package name")
	case specifier.Classify(name) != specifier.Bare:
		return fmt.Errorf("%q is not a package name", name)
	case pkg.Subpath != "":
		return fmt.Errorf("%q names a subpath, install %q instead", name, pkg.Name)
	case strings.HasPrefix(name, "@") && !strings.Contains(name, "/"):
		return fmt.Errorf("%q is missing the package part of its scope", name)
	}
	return nil
}
