// Package project wires the filesystem, manifest, resolver, types fetcher
// and bundler of one in-memory project.
package project

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/vbuild-dev/vbuild/bundler"
	"github.com/vbuild-dev/vbuild/log"
	"github.com/vbuild-dev/vbuild/manifest"
	"github.com/vbuild-dev/vbuild/resolver"
	"github.com/vbuild-dev/vbuild/shared"
	"github.com/vbuild-dev/vbuild/typecheck"
	"github.com/vbuild-dev/vbuild/typefetch"
	"github.com/vbuild-dev/vbuild/vfs"
)

// BundlerChoice selects the bundler implementation.
type BundlerChoice int

const (
	// BundlerService builds with the esbuild-backed bundler.Service.
	BundlerService BundlerChoice = iota
	// BundlerCustom builds with Options.CustomBundler.
	BundlerCustom
)

// Options configures a Project.
type Options struct {
	ManifestPath        string
	CDNBaseURL          string
	AllowRemoteBundling bool
	TryTypesPackages    bool

	// Shared defaults to a fresh registry.
	Shared *shared.Registry
	// CDN defaults to typefetch.HTTPCDN at CDNBaseURL.
	CDN typefetch.CDN
	// TypesCache defaults to a typefetch.MemoryCache.
	TypesCache typefetch.Cache
	// RemoteFetcher loads remote modules when AllowRemoteBundling is set.
	RemoteFetcher resolver.Fetcher

	Bundler       BundlerChoice
	CustomBundler bundler.Bundler
	Build         bundler.Options
}

// Project is one in-memory project.
type Project struct {
	FS       *vfs.FS
	Manifest *manifest.Manifest
	Resolver *resolver.Resolver
	Loader   *resolver.Loader
	Types    *typefetch.Fetcher
	Shared   *shared.Registry

	bundler bundler.Bundler
	service *bundler.Service
}

// New assembles a project over fs.
func New(fs *vfs.FS, opts Options) (*Project, error) {
	if opts.CDNBaseURL == "" {
		opts.CDNBaseURL = resolver.DefaultCDN
	}
	if opts.Shared == nil {
		opts.Shared = shared.NewRegistry()
	}

	cdn := opts.CDN
	if cdn == nil {
		cdn = typefetch.NewHTTPCDN(opts.CDNBaseURL)
	}

	p := &Project{
		FS:     fs,
		Shared: opts.Shared,
		Types: typefetch.New(cdn, opts.TypesCache, typefetch.Options{
			TryTypesPackages: opts.TryTypesPackages,
		}),
	}

	var manifestOpts []manifest.Option
	if versions, ok := cdn.(manifest.VersionResolver); ok {
		manifestOpts = append(manifestOpts, manifest.WithVersionResolver(versions))
	}
	p.Manifest = manifest.Open(fs, opts.ManifestPath, manifestOpts...)

	p.Resolver = resolver.New(fs, resolver.Options{
		Packages:            p.Manifest,
		Shared:              opts.Shared,
		CDNBaseURL:          opts.CDNBaseURL,
		AllowRemoteBundling: opts.AllowRemoteBundling,
	})
	p.Loader = resolver.NewLoader(fs, opts.Shared, opts.RemoteFetcher)

	switch opts.Bundler {
	case BundlerService:
		p.service = bundler.NewService(p.Resolver, p.Loader, opts.Build)
		p.bundler = p.service
	case BundlerCustom:
		if opts.CustomBundler == nil {
			return nil, errors.New("project: custom bundler selected but none given")
		}
		p.bundler = opts.CustomBundler
	default:
		return nil, fmt.Errorf("project: unknown bundler choice %d", opts.Bundler)
	}

	return p, nil
}

// Close releases the bundler service, if any.
func (p *Project) Close() {
	if p.service != nil {
		p.service.Dispose()
	}
}

// Build bundles the manifest's main entry.
func (p *Project) Build(ctx context.Context) (*bundler.Result, error) {
	if p.service != nil {
		if err := p.service.Init(); err != nil {
			return nil, err
		}
	}

	entry := p.Manifest.Main()
	log.Infof("building %s", entry)
	return p.bundler.Bundle(ctx, bundler.Request{Entry: entry})
}

// TypesReport lists the outcome of PrepareTypes per package.
type TypesReport struct {
	Installed []*typefetch.Types
	Missing   []string
}

// PrepareTypes fetches declarations for every dependency and writes them
// into the package-types area. Packages without types are listed as missing.
func (p *Project) PrepareTypes(ctx context.Context) (*TypesReport, error) {
	deps := p.Manifest.Dependencies()
	names := lo.Keys(deps)
	sort.Strings(names)

	report := &TypesReport{}
	for _, name := range names {
		version := deps[name]
		if version == manifest.SharedVersion || version == typefetch.LatestVersion {
			version = ""
		}

		types, err := p.Types.Resolve(ctx, name, version)
		if err != nil {
			return report, err
		}
		if types == nil {
			report.Missing = append(report.Missing, name)
			continue
		}

		if err := typefetch.WriteToFS(p.FS, types); err != nil {
			return report, fmt.Errorf("write types of %s: %w", name, err)
		}
		report.Installed = append(report.Installed, types)
	}
	return report, nil
}

// Typecheck prepares types and runs checker over the main entry.
func (p *Project) Typecheck(ctx context.Context, checker typecheck.Checker, libs typecheck.LibProvider) (*typecheck.Report, error) {
	if _, err := p.PrepareTypes(ctx); err != nil {
		return nil, err
	}
	if libs == nil {
		libs = typecheck.Libs{}
	}
	return checker.Check(ctx, p.Manifest.Main(), typecheck.VFSProvider{FS: p.FS}, libs)
}
