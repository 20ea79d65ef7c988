// Package typecheck defines the type-checker collaborator and the project
// file view it reads from.
package typecheck

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vbuild-dev/vbuild/specifier"
	"github.com/vbuild-dev/vbuild/typefetch"
	"github.com/vbuild-dev/vbuild/vfs"
	"github.com/vbuild-dev/vbuild/vpath"
)

// FileProvider is the checker's read-only view of the project.
type FileProvider interface {
	Exists(p string) bool
	Read(p string) (string, error)
	List(dir string) ([]string, error)
}

// LibProvider supplies the standard library declarations, e.g. "lib.dom.d.ts".
type LibProvider interface {
	Lib(name string) (string, bool)
}

// Libs is a static LibProvider.
type Libs map[string]string

// Lib implements LibProvider.
func (l Libs) Lib(name string) (string, bool) {
	src, ok := l[name]
	return src, ok
}

// Diagnostic is one checker finding.
type Diagnostic struct {
	File    string
	Line    int
	Column  int
	Code    int
	Message string
}

func (d Diagnostic) String() string {
	if d.File == "" {
		return d.Message
	}
	return fmt.Sprintf("%s:%d:%d: TS%d: %s", d.File, d.Line, d.Column, d.Code, d.Message)
}

// Report is the outcome of a check.
type Report struct {
	Success     bool
	Diagnostics []Diagnostic
}

// Checker type-checks a program rooted at entry.
type Checker interface {
	Check(ctx context.Context, entry string, files FileProvider, libs LibProvider) (*Report, error)
}

// VFSProvider exposes a project filesystem, including the package types
// written under typefetch.ModulesDir.
type VFSProvider struct {
	FS *vfs.FS
}

// Exists implements FileProvider. Only files count.
func (v VFSProvider) Exists(p string) bool {
	info, err := v.FS.Stat(p)
	return err == nil && !info.IsDir()
}

// Read implements FileProvider.
func (v VFSProvider) Read(p string) (string, error) {
	return v.FS.ReadString(p)
}

// List implements FileProvider with absolute child paths.
func (v VFSProvider) List(dir string) ([]string, error) {
	names, err := v.FS.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for i, name := range names {
		names[i] = vpath.Join(dir, name)
	}
	return names, nil
}

// TypesEntry locates the declaration entry for a bare import: the "types"
// field of the package's package.json, then index.d.ts. Subpaths map to
// <subpath>.d.ts inside the package directory.
func TypesEntry(files FileProvider, spec string) (string, bool) {
	pkg := specifier.ParsePackage(spec)
	dir := typefetch.PackageDir(pkg.Name)

	if pkg.Subpath != "" {
		for _, candidate := range []string{
			vpath.Join(dir, pkg.Subpath+".d.ts"),
			vpath.Join(dir, pkg.Subpath, "index.d.ts"),
		} {
			if files.Exists(candidate) {
				return candidate, true
			}
		}
		return "", false
	}

	if src, err := files.Read(vpath.Join(dir, "package.json")); err == nil {
		var manifest struct {
			Types   string `json:"types"`
			Typings string `json:"typings"`
		}
		if json.Unmarshal([]byte(src), &manifest) == nil {
			for _, entry := range []string{manifest.Types, manifest.Typings} {
				if entry == "" {
					continue
				}
				if p := vpath.Join(dir, vpath.Normalize(entry)); files.Exists(p) {
					return p, true
				}
			}
		}
	}

	if p := vpath.Join(dir, "index.d.ts"); files.Exists(p) {
		return p, true
	}
	return "", false
}
