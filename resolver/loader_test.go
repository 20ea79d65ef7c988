package resolver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vbuild-dev/vbuild/filesystem"
	"github.com/vbuild-dev/vbuild/internal/cache"
	"github.com/vbuild-dev/vbuild/shared"
	"github.com/vbuild-dev/vbuild/vfs"
	"golang.org/x/sync/errgroup"
)

func init() {
	filesystem.SetMemMapFs()
}

type stubFetcher struct {
	calls int
	body  string
	err   error
}

func (s *stubFetcher) Fetch(context.Context, string) ([]byte, error) {
	s.calls++
	return []byte(s.body), s.err
}

type countingFetcher struct {
	calls int32
}

func (c *countingFetcher) Fetch(context.Context, string) ([]byte, error) {
	atomic.AddInt32(&c.calls, 1)
	time.Sleep(10 * time.Millisecond)
	return []byte("export default 2"), nil
}

func TestLoaderConcurrency(t *testing.T) {
	Convey("Concurrent loads of one URL share a single fetch", t, func() {
		fetcher := &countingFetcher{}
		l := NewLoader(vfs.New(), shared.NewRegistryWithKey("__test"), fetcher)
		u := "https://cdn.example/b.js"

		var g errgroup.Group
		for i := 0; i < 16; i++ {
			g.Go(func() error {
				m, err := l.Load(context.Background(), Result{Kind: KindRemote, Path: u})
				if err == nil && m.Contents != "export default 2" {
					err = errors.New("unexpected contents " + m.Contents)
				}
				return err
			})
			g.Go(func() error {
				l.Visited()
				return nil
			})
		}
		So(g.Wait(), ShouldBeNil)
		So(atomic.LoadInt32(&fetcher.calls), ShouldEqual, 1)
		So(l.Visited(), ShouldResemble, []string{u})
	})
}

func TestLoader(t *testing.T) {
	Convey("Given a loader", t, func() {
		fs := newFS(map[string]string{
			"/src/index.tsx": "export const x = 1",
			"/src/app.css":   "body { color: red }",
		})
		registry := shared.NewRegistryWithKey("__test")
		registry.Register("react", "useState")
		fetcher := &stubFetcher{body: "export default 1"}
		l := NewLoader(fs, registry, fetcher)
		ctx := context.Background()

		Convey("Files load with their syntax and directory", func() {
			m, err := l.Load(ctx, Result{Kind: KindVFS, Path: "/src/index.tsx"})
			So(err, ShouldBeNil)
			So(m.Contents, ShouldEqual, "export const x = 1")
			So(m.Syntax, ShouldEqual, SyntaxTSX)
			So(m.ResolveDir, ShouldEqual, "/src")
		})

		Convey("Stylesheets become style-injecting scripts", func() {
			m, err := l.Load(ctx, Result{Kind: KindVFS, Path: "/src/app.css"})
			So(err, ShouldBeNil)
			So(m.Syntax, ShouldEqual, SyntaxJS)
			So(m.Contents, ShouldContainSubstring, `document.createElement("style")`)
			So(m.Contents, ShouldContainSubstring, `"body { color: red }"`)
		})

		Convey("Missing files fail with the filesystem error", func() {
			_, err := l.Load(ctx, Result{Kind: KindVFS, Path: "/nope.ts"})
			So(errors.Is(err, vfs.ErrNotFound), ShouldBeTrue)
		})

		Convey("Shared modules are generated", func() {
			m, err := l.Load(ctx, Result{Kind: KindShared, Path: "react"})
			So(err, ShouldBeNil)
			So(m.Contents, ShouldContainSubstring, `globalThis["__test"]`)
			So(m.Contents, ShouldContainSubstring, "export const useState")
		})

		Convey("Remote modules are fetched once", func() {
			u := "https://cdn.example/a.js"
			_, err := l.Load(ctx, Result{Kind: KindRemote, Path: u})
			So(err, ShouldBeNil)
			m, err := l.Load(ctx, Result{Kind: KindRemote, Path: u})
			So(err, ShouldBeNil)
			So(m.Contents, ShouldEqual, "export default 1")
			So(fetcher.calls, ShouldEqual, 1)
			So(l.Visited(), ShouldResemble, []string{u})
		})

		Convey("Externals are never loaded", func() {
			_, err := l.Load(ctx, Result{Kind: KindExternal, Path: "react"})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestHTTPFetcher(t *testing.T) {
	Convey("Given a module server", t, func() {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			if r.URL.Path == "/missing.js" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte("export default 2"))
		}))
		defer server.Close()

		f := &HTTPFetcher{Client: server.Client(), Cache: cache.New("/cache/remote-test-"+time.Now().Format("150405.000000000"), time.Hour)}

		Convey("Bodies are cached after the first fetch", func() {
			body, err := f.Fetch(context.Background(), server.URL+"/a.js")
			So(err, ShouldBeNil)
			So(string(body), ShouldEqual, "export default 2")

			body, err = f.Fetch(context.Background(), server.URL+"/a.js")
			So(err, ShouldBeNil)
			So(string(body), ShouldEqual, "export default 2")
			So(atomic.LoadInt32(&hits), ShouldEqual, 1)
		})

		Convey("Non-200 responses fail", func() {
			_, err := f.Fetch(context.Background(), server.URL+"/missing.js")
			So(err, ShouldNotBeNil)
		})
	})
}
