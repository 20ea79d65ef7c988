package typefetch

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/vbuild-dev/vbuild/log"
	"github.com/vbuild-dev/vbuild/specifier"
	"golang.org/x/sync/errgroup"
)

// DefaultSubpaths lists subpath entry points fetched along with a package.
var DefaultSubpaths = map[string][]string{
	"react":     {"jsx-runtime", "jsx-dev-runtime"},
	"react-dom": {"client", "server"},
	"preact":    {"hooks", "jsx-runtime"},
}

// Options configures a Fetcher.
type Options struct {
	// TryTypesPackages retries against @types/<name> when a package ships no types.
	TryTypesPackages bool
	// Subpaths overrides DefaultSubpaths when non-nil.
	Subpaths map[string][]string
}

// Fetcher resolves and caches package declarations.
type Fetcher struct {
	cdn   CDN
	cache Cache
	opts  Options
}

// New creates a fetcher. A nil cache means a fresh MemoryCache.
func New(cdn CDN, cache Cache, opts Options) *Fetcher {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if opts.Subpaths == nil {
		opts.Subpaths = DefaultSubpaths
	}
	return &Fetcher{cdn: cdn, cache: cache, opts: opts}
}

// Resolve returns the declarations of spec at version ("" for latest), or
// nil when none are available. Cached results, including the absence of
// types, are returned without touching the network. Failures are logged
// and reported as nil; only cancellation of ctx is returned as an error,
// and nothing is cached in that case.
func (f *Fetcher) Resolve(ctx context.Context, spec, version string) (*Types, error) {
	pkg := specifier.ParsePackage(spec)
	key := CacheKey(pkg, version)

	if cached, ok := f.cache.Get(key).Get(); ok {
		log.Debugf("types for %s served from cache", key)
		return cached, nil
	}

	types, err := f.resolve(ctx, pkg, version)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warnf("types for %s unavailable: %v", key, err)
		return nil, nil
	}

	if err := f.cache.Set(key, types); err != nil {
		log.Warnf("caching types for %s: %v", key, err)
	}
	return types, nil
}

func (f *Fetcher) resolve(ctx context.Context, pkg specifier.Package, version string) (*Types, error) {
	subpaths := f.opts.Subpaths[pkg.Name]

	types, err := f.fetch(ctx, pkg, version, subpaths)
	if err != nil || types != nil {
		return types, err
	}

	if !f.opts.TryTypesPackages || strings.HasPrefix(pkg.Name, "@types/") {
		return nil, nil
	}

	alt := specifier.Package{Name: specifier.TypesPackageName(pkg.Name), Subpath: pkg.Subpath}
	log.Debugf("no bundled types for %s, trying %s", pkg, alt)

	types, err = f.fetch(ctx, alt, version, subpaths)
	if err != nil || types == nil {
		return nil, err
	}
	types.PackageName = pkg.Name
	types.FromTypesPackage = true
	return types, nil
}

func (f *Fetcher) fetch(ctx context.Context, pkg specifier.Package, version string, subpaths []string) (*Types, error) {
	probe, err := f.cdn.Probe(ctx, pkg, version)
	if err != nil {
		return nil, err
	}
	if probe.TypesURL == "" {
		return nil, nil
	}

	root, err := url.Parse(probe.TypesURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	t := &tree{
		cdn:     f.cdn,
		root:    root,
		visited: make(map[string]bool),
		files:   make(map[string]string),
	}
	if err := t.collect(ctx, probe.TypesURL); err != nil {
		return nil, err
	}

	if pkg.Subpath == "" && len(subpaths) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		for _, sub := range subpaths {
			g.Go(func() error {
				return t.collectSubpath(gctx, specifier.Package{Name: pkg.Name, Subpath: sub}, probe.Version)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	resolved := probe.Version
	if resolved == "" {
		resolved = lo.Ternary(version == "", LatestVersion, version)
	}

	return &Types{
		PackageName: pkg.Name,
		Version:     resolved,
		Entry:       relativeTo(root, probe.TypesURL),
		Files:       t.files,
	}, nil
}

var referencePath = regexp.MustCompile(`(?m)^\s*///\s*<reference\s+path\s*=\s*["']([^"']+)["']`)

// ReferencePaths lists the targets of triple-slash path references in src.
// Type references are not included.
func ReferencePaths(src string) []string {
	return lo.Map(referencePath.FindAllStringSubmatch(src, -1), func(m []string, _ int) string {
		return m[1]
	})
}

// tree gathers the files reachable from one or more root declarations.
type tree struct {
	cdn     CDN
	root    *url.URL
	mu      sync.Mutex
	visited map[string]bool
	files   map[string]string
}

func (t *tree) collect(ctx context.Context, target string) error {
	t.mu.Lock()
	if t.visited[target] {
		t.mu.Unlock()
		return nil
	}
	t.visited[target] = true
	t.mu.Unlock()

	body, err := t.cdn.Fetch(ctx, target)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.files[relativeTo(t.root, target)] = body
	t.mu.Unlock()

	base, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	for _, ref := range ReferencePaths(body) {
		next, err := base.Parse(ref)
		if err != nil {
			return fmt.Errorf("%w: reference %q: %v", ErrParseFailed, ref, err)
		}
		if err := t.collect(ctx, next.String()); err != nil {
			return err
		}
	}
	return nil
}

// collectSubpath adds a subpath entry point. Its failures are logged and
// skipped so the main declarations still arrive.
func (t *tree) collectSubpath(ctx context.Context, pkg specifier.Package, version string) error {
	probe, err := t.cdn.Probe(ctx, pkg, version)
	if err == nil && probe.TypesURL != "" {
		err = t.collect(ctx, probe.TypesURL)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warnf("types for %s: %v", pkg, err)
	}
	return nil
}
