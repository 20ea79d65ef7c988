// Package resolver turns import specifiers into locations the bundler can load.
//
// Path specifiers resolve against the in-memory filesystem. Bare specifiers
// resolve to host-shared modules or to CDN URLs of installed packages; an
// unknown bare name is handed back untouched so the failure surfaces at load
// time with the bundler's own diagnostics. Like the filesystem it reads, a
// Resolver is not safe for concurrent use while the filesystem is mutated.
package resolver

import (
	"net/url"
	"strings"

	"github.com/samber/lo"
	"github.com/vbuild-dev/vbuild/shared"
	"github.com/vbuild-dev/vbuild/specifier"
	"github.com/vbuild-dev/vbuild/vfs"
	"github.com/vbuild-dev/vbuild/vpath"
)

// DefaultCDN is used when Options.CDNBaseURL is empty.
const DefaultCDN = "https://esm.sh"

// SharedVersion is the manifest version marking a package served by the host.
const SharedVersion = "shared"

// Extensions lists the recognized module extensions in probe order.
var Extensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".json", ".css"}

// Kind says where a resolved module lives.
type Kind int

const (
	// KindVFS is a file in the project filesystem.
	KindVFS Kind = iota
	// KindExternal is left for the runtime to load.
	KindExternal
	// KindShared is provided by the host through the shared registry.
	KindShared
	// KindRemote is fetched now and bundled.
	KindRemote
)

func (k Kind) String() string {
	switch k {
	case KindVFS:
		return "vfs"
	case KindExternal:
		return "external"
	case KindShared:
		return "shared"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Result is a resolved module.
type Result struct {
	Kind Kind
	Path string
}

// Context describes the import being resolved.
type Context struct {
	// ResolveDir is the directory relative specifiers resolve against.
	ResolveDir string
	// Importer is the URL of the importing module when it was fetched remotely.
	Importer string
	// IsEntryPoint marks the build entry.
	IsEntryPoint bool
}

// PackageSource lists installed packages as name to version.
type PackageSource interface {
	Dependencies() map[string]string
}

// Packages is a static PackageSource.
type Packages map[string]string

// Dependencies implements PackageSource.
func (p Packages) Dependencies() map[string]string {
	return p
}

// Options configures a Resolver.
type Options struct {
	Packages            PackageSource
	Shared              *shared.Registry
	CDNBaseURL          string
	AllowRemoteBundling bool
	// EntryPath is returned for entry point resolutions. When empty the
	// entry specifier itself is normalized.
	EntryPath string
}

// Resolver resolves specifiers against a filesystem.
type Resolver struct {
	fs   *vfs.FS
	opts Options
}

// New creates a resolver over fs.
func New(fs *vfs.FS, opts Options) *Resolver {
	if opts.CDNBaseURL == "" {
		opts.CDNBaseURL = DefaultCDN
	}
	opts.CDNBaseURL = strings.TrimRight(opts.CDNBaseURL, "/")
	if opts.Packages == nil {
		opts.Packages = Packages{}
	}
	return &Resolver{fs: fs, opts: opts}
}

// Resolve resolves spec in ctx.
func (r *Resolver) Resolve(spec string, ctx Context) (Result, error) {
	if ctx.IsEntryPoint {
		if r.opts.EntryPath != "" {
			return Result{Kind: KindVFS, Path: vpath.Normalize(r.opts.EntryPath)}, nil
		}
		return Result{Kind: KindVFS, Path: vpath.Resolve(dirOrRoot(ctx.ResolveDir), spec)}, nil
	}

	kind := specifier.Classify(spec)
	if ctx.Importer != "" && (kind == specifier.Relative || kind == specifier.Absolute) {
		if abs, ok := resolveURL(ctx.Importer, spec); ok {
			return r.url(abs), nil
		}
	}

	switch kind {
	case specifier.URL:
		return r.url(spec), nil
	case specifier.Bare:
		return r.bare(spec), nil
	default:
		return r.path(spec, dirOrRoot(ctx.ResolveDir))
	}
}

func (r *Resolver) url(u string) Result {
	if r.opts.AllowRemoteBundling {
		return Result{Kind: KindRemote, Path: u}
	}
	return Result{Kind: KindExternal, Path: u}
}

func (r *Resolver) bare(spec string) Result {
	if r.opts.Shared != nil && r.opts.Shared.Match(spec) {
		return Result{Kind: KindShared, Path: spec}
	}

	pkg := specifier.ParsePackage(spec)
	version, ok := r.opts.Packages.Dependencies()[pkg.Name]
	if !ok || version == SharedVersion {
		return Result{Kind: KindExternal, Path: spec}
	}

	target := r.opts.CDNBaseURL + "/" + pkg.Name + "@" + version
	if pkg.Subpath != "" {
		target += "/" + pkg.Subpath
	}
	return Result{Kind: KindExternal, Path: target}
}

func (r *Resolver) path(spec, dir string) (Result, error) {
	target := vpath.Resolve(dir, spec)

	for _, candidate := range Candidates(target) {
		if info, err := r.fs.Stat(candidate); err == nil && !info.IsDir() {
			return Result{Kind: KindVFS, Path: candidate}, nil
		}
	}

	return Result{}, &NotResolvedError{
		Specifier:  spec,
		ResolveDir: dir,
		Suggestion: r.suggest(target),
	}
}

// Candidates lists the paths probed for target, in order.
func Candidates(target string) []string {
	if HasKnownExtension(target) {
		return []string{target}
	}

	index := vpath.Join(target, "index")
	return append(
		lo.Map(Extensions, func(ext string, _ int) string { return target + ext }),
		lo.Map(Extensions, func(ext string, _ int) string { return index + ext })...,
	)
}

// HasKnownExtension reports whether p ends in a recognized module extension.
func HasKnownExtension(p string) bool {
	return lo.Contains(Extensions, vpath.Ext(p))
}

func (r *Resolver) suggest(target string) string {
	dir := vpath.Dir(target)
	entries, err := r.fs.ReadDirEntries(dir)
	if err != nil {
		return ""
	}

	names := lo.FilterMap(entries, func(e vfs.DirEntry, _ int) (string, bool) {
		return e.Name, e.Kind != vfs.KindDir && HasKnownExtension(e.Name)
	})
	if name := suggest(vpath.Base(target), names); name != "" {
		return vpath.Join(dir, name)
	}
	return ""
}

func resolveURL(base, ref string) (string, bool) {
	b, err := url.Parse(base)
	if err != nil || b.Scheme == "" {
		return "", false
	}
	rel, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	return b.ResolveReference(rel).String(), true
}

func dirOrRoot(dir string) string {
	if dir == "" {
		return vpath.Root
	}
	return dir
}
