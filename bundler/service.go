package bundler

import (
	"context"
	"errors"
	"sync"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/samber/lo"
	"github.com/vbuild-dev/vbuild/log"
	"github.com/vbuild-dev/vbuild/resolver"
	"github.com/vbuild-dev/vbuild/vpath"
)

// ErrNotInitialized is returned by a Service used before Init or after Dispose.
var ErrNotInitialized = errors.New("bundler: service is not initialized")

const (
	namespaceVFS    = "vfs"
	namespaceShared = "shared"
	namespaceRemote = "remote"
)

// Format is the output module format.
type Format string

const (
	FormatESM  Format = "esm"
	FormatIIFE Format = "iife"
	FormatCJS  Format = "cjs"
)

// Options configures a Service.
type Options struct {
	Format Format
	Minify bool
	// Defines replaces global identifiers, e.g. "process.env.NODE_ENV".
	Defines map[string]string
}

// Service bundles with esbuild. It owns one esbuild context per entry,
// created lazily and released by Dispose.
type Service struct {
	resolver *resolver.Resolver
	loader   *resolver.Loader
	opts     Options

	mu      sync.Mutex
	ready   bool
	entry   string
	build   api.BuildContext
	current context.Context
}

// NewService creates a service over r and l. Call Init before Bundle.
func NewService(r *resolver.Resolver, l *resolver.Loader, opts Options) *Service {
	if opts.Format == "" {
		opts.Format = FormatESM
	}
	return &Service{resolver: r, loader: l, opts: opts}
}

// Init makes the service usable. It is idempotent.
func (s *Service) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
	return nil
}

// Dispose releases the esbuild context. The service can be re-initialized.
func (s *Service) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release()
	s.ready = false
}

func (s *Service) release() {
	if s.build != nil {
		s.build.Dispose()
		s.build = nil
		s.entry = ""
	}
}

// Bundle implements Bundler. Builds are serialized.
func (s *Service) Bundle(ctx context.Context, req Request) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, ErrNotInitialized
	}

	if s.build == nil || s.entry != req.Entry {
		s.release()
		build, cerr := api.Context(s.buildOptions(req.Entry))
		if cerr != nil {
			return &Result{Errors: convert(cerr.Errors)}, nil
		}
		s.build, s.entry = build, req.Entry
	}

	s.current = ctx
	defer func() { s.current = nil }()

	done := make(chan api.BuildResult, 1)
	go func() { done <- s.build.Rebuild() }()

	var out api.BuildResult
	select {
	case out = <-done:
	case <-ctx.Done():
		s.build.Cancel()
		<-done
		return nil, ctx.Err()
	}

	result := &Result{Errors: convert(out.Errors), Warnings: convert(out.Warnings)}
	if !result.Failed() && len(out.OutputFiles) > 0 {
		result.Code = string(out.OutputFiles[0].Contents)
	}
	log.Debugf("bundled %s: %d error(s), %d warning(s)", req.Entry, len(result.Errors), len(result.Warnings))
	return result, nil
}

func (s *Service) buildOptions(entry string) api.BuildOptions {
	format := map[Format]api.Format{
		FormatESM:  api.FormatESModule,
		FormatIIFE: api.FormatIIFE,
		FormatCJS:  api.FormatCommonJS,
	}[s.opts.Format]

	return api.BuildOptions{
		EntryPoints:       []string{entry},
		Bundle:            true,
		Write:             false,
		Format:            format,
		Target:            api.ESNext,
		MinifyWhitespace:  s.opts.Minify,
		MinifyIdentifiers: s.opts.Minify,
		MinifySyntax:      s.opts.Minify,
		Define:            s.opts.Defines,
		LogLevel:          api.LogLevelSilent,
		Plugins:           []api.Plugin{s.plugin()},
	}
}

func (s *Service) plugin() api.Plugin {
	return api.Plugin{
		Name: "vbuild",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: ".*"}, s.onResolve)
			for _, ns := range []string{namespaceVFS, namespaceShared, namespaceRemote} {
				build.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: ns}, s.onLoad)
			}
		},
	}
}

func (s *Service) onResolve(args api.OnResolveArgs) (api.OnResolveResult, error) {
	ctx := resolver.Context{
		ResolveDir:   args.ResolveDir,
		IsEntryPoint: args.Kind == api.ResolveEntryPoint,
	}
	switch {
	case ctx.IsEntryPoint:
		ctx.ResolveDir = vpath.Root
	case args.Namespace == namespaceRemote:
		ctx.Importer = args.Importer
		ctx.ResolveDir = ""
	}

	res, err := s.resolver.Resolve(args.Path, ctx)
	if err != nil {
		return api.OnResolveResult{}, err
	}

	switch res.Kind {
	case resolver.KindExternal:
		return api.OnResolveResult{Path: res.Path, External: true}, nil
	case resolver.KindShared:
		return api.OnResolveResult{Path: res.Path, Namespace: namespaceShared}, nil
	case resolver.KindRemote:
		return api.OnResolveResult{Path: res.Path, Namespace: namespaceRemote}, nil
	default:
		return api.OnResolveResult{Path: res.Path, Namespace: namespaceVFS}, nil
	}
}

func (s *Service) onLoad(args api.OnLoadArgs) (api.OnLoadResult, error) {
	kind := map[string]resolver.Kind{
		namespaceVFS:    resolver.KindVFS,
		namespaceShared: resolver.KindShared,
		namespaceRemote: resolver.KindRemote,
	}[args.Namespace]

	ctx := s.current
	if ctx == nil {
		ctx = context.Background()
	}

	m, err := s.loader.Load(ctx, resolver.Result{Kind: kind, Path: args.Path})
	if err != nil {
		return api.OnLoadResult{}, err
	}

	return api.OnLoadResult{
		Contents:   &m.Contents,
		ResolveDir: m.ResolveDir,
		Loader:     loaderFor(m.Syntax),
	}, nil
}

func loaderFor(syntax resolver.Syntax) api.Loader {
	switch syntax {
	case resolver.SyntaxTS:
		return api.LoaderTS
	case resolver.SyntaxTSX:
		return api.LoaderTSX
	case resolver.SyntaxJSX:
		return api.LoaderJSX
	case resolver.SyntaxJSON:
		return api.LoaderJSON
	default:
		return api.LoaderJS
	}
}

func convert(messages []api.Message) []Message {
	return lo.Map(messages, func(m api.Message, _ int) Message {
		msg := Message{Text: m.Text}
		if m.Location != nil {
			msg.File = m.Location.File
			msg.Line = m.Location.Line
			msg.Column = m.Location.Column
		}
		return msg
	})
}
