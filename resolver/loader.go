package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/vbuild-dev/vbuild/shared"
	"github.com/vbuild-dev/vbuild/vfs"
	"github.com/vbuild-dev/vbuild/vpath"
	"golang.org/x/sync/singleflight"
)

// Syntax tells the bundler how to parse loaded contents.
type Syntax string

const (
	SyntaxTS   Syntax = "ts"
	SyntaxTSX  Syntax = "tsx"
	SyntaxJS   Syntax = "js"
	SyntaxJSX  Syntax = "jsx"
	SyntaxJSON Syntax = "json"
)

// SyntaxOf picks the syntax for a path or URL by extension. Stylesheets are
// loaded as scripts and so are JS.
func SyntaxOf(p string) Syntax {
	switch path.Ext(p) {
	case ".ts", ".mts", ".cts":
		return SyntaxTS
	case ".tsx":
		return SyntaxTSX
	case ".jsx":
		return SyntaxJSX
	case ".json":
		return SyntaxJSON
	default:
		return SyntaxJS
	}
}

// Module is loaded source ready for the bundler.
type Module struct {
	Contents string
	Syntax   Syntax
	// ResolveDir is where imports inside the module resolve from. It is
	// empty for remote and shared modules.
	ResolveDir string
}

// Loader reads resolved modules. Load may be called from several
// goroutines; each remote URL is fetched at most once.
type Loader struct {
	fs      *vfs.FS
	shared  *shared.Registry
	fetcher Fetcher

	mu       sync.Mutex
	visited  map[string]*Module
	inflight singleflight.Group
}

// NewLoader creates a loader. A nil registry or fetcher disables the matching result kinds.
func NewLoader(fs *vfs.FS, registry *shared.Registry, fetcher Fetcher) *Loader {
	return &Loader{
		fs:      fs,
		shared:  registry,
		fetcher: fetcher,
		visited: make(map[string]*Module),
	}
}

// Load returns the source for res.
func (l *Loader) Load(ctx context.Context, res Result) (*Module, error) {
	switch res.Kind {
	case KindVFS:
		return l.loadFile(res.Path)
	case KindShared:
		if l.shared == nil {
			return nil, fmt.Errorf("load %s: no shared registry", res.Path)
		}
		src, err := l.shared.ModuleSource(res.Path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", res.Path, err)
		}
		return &Module{Contents: src, Syntax: SyntaxJS}, nil
	case KindRemote:
		return l.loadRemote(ctx, res.Path)
	default:
		return nil, fmt.Errorf("load %s: %s modules are not loaded", res.Path, res.Kind)
	}
}

// Visited lists the remote URLs loaded so far, sorted.
func (l *Loader) Visited() []string {
	l.mu.Lock()
	urls := make([]string, 0, len(l.visited))
	for u := range l.visited {
		urls = append(urls, u)
	}
	l.mu.Unlock()

	sort.Strings(urls)
	return urls
}

func (l *Loader) lookup(u string) (*Module, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.visited[u]
	return m, ok
}

func (l *Loader) loadFile(p string) (*Module, error) {
	text, err := l.fs.ReadString(p)
	if err != nil {
		return nil, err
	}

	m := &Module{Contents: text, Syntax: SyntaxOf(p), ResolveDir: vpath.Dir(p)}
	if vpath.Ext(p) == ".css" {
		m.Contents, err = StyleScript(p, text)
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (l *Loader) loadRemote(ctx context.Context, u string) (*Module, error) {
	if m, ok := l.lookup(u); ok {
		return m, nil
	}
	if l.fetcher == nil {
		return nil, fmt.Errorf("load %s: remote loading is disabled", u)
	}

	v, err, _ := l.inflight.Do(u, func() (any, error) {
		if m, ok := l.lookup(u); ok {
			return m, nil
		}
		return l.fetchRemote(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Module), nil
}

func (l *Loader) fetchRemote(ctx context.Context, u string) (*Module, error) {
	body, err := l.fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", u, err)
	}

	m := &Module{Contents: string(body), Syntax: SyntaxOf(urlPath(u))}
	if path.Ext(urlPath(u)) == ".css" {
		m.Contents, err = StyleScript(u, m.Contents)
		if err != nil {
			return nil, err
		}
		m.Syntax = SyntaxJS
	}

	l.mu.Lock()
	l.visited[u] = m
	l.mu.Unlock()
	return m, nil
}

func urlPath(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	return parsed.Path
}

const styleTemplate = `const css = {{ js .CSS }};
if (typeof document !== "undefined") {
  const style = document.createElement("style");
  style.setAttribute("data-source", {{ js .Source }});
  style.textContent = css;
  document.head.appendChild(style);
}
export default css;
`

var styleScript = template.Must(template.New("style").Funcs(template.FuncMap{
	"js": func(s string) (string, error) {
		b, err := json.Marshal(s)
		return string(b), err
	},
}).Parse(styleTemplate))

// StyleScript wraps a stylesheet into a script that appends it to the
// document head as a <style> element.
func StyleScript(source, css string) (string, error) {
	var b strings.Builder
	if err := styleScript.Execute(&b, struct{ Source, CSS string }{source, css}); err != nil {
		return "", fmt.Errorf("wrap %s: %w", source, err)
	}
	return b.String(), nil
}
