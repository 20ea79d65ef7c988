package typefetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vbuild-dev/vbuild/specifier"
)

type fakeCDN struct {
	mu   sync.Mutex
	hits map[string]int
}

func (f *fakeCDN) count(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits[r.Method+" "+r.URL.Path]++
}

func (f *fakeCDN) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, v := range f.hits {
		n += v
	}
	return n
}

func (f *fakeCDN) hit(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

func (f *fakeCDN) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.count(r)

	types := func(url, id string) {
		w.Header().Set("X-TypeScript-Types", url)
		if id != "" {
			w.Header().Set("X-Esm-Id", id)
		}
	}

	switch r.URL.Path {
	case "/typed", "/typed@1.2.3":
		types("/v1/typed@1.2.3/index.d.ts", "v1/typed@1.2.3/es2022/typed.mjs")
	case "/v1/typed@1.2.3/index.d.ts":
		_, _ = w.Write([]byte("/// <reference path=\"./globals.d.ts\" />\n/// <reference types=\"node\" />\nexport declare const x: number;\n"))
	case "/v1/typed@1.2.3/globals.d.ts":
		_, _ = w.Write([]byte("/// <reference path=\"./index.d.ts\" />\ndeclare var g: string;\n"))
	case "/untyped":
	case "/@types/untyped":
		types("/v1/@types/untyped@2.0.0/index.d.ts", "")
	case "/v1/@types/untyped@2.0.0/index.d.ts":
		_, _ = w.Write([]byte("export {};"))
	case "/react":
		types("/v1/@types/react@18.2.0/index.d.ts", "v1/react@18.2.0/es2022/react.mjs")
	case "/react@18.2.0/jsx-runtime":
		types("/v1/@types/react@18.2.0/jsx-runtime.d.ts", "")
	case "/v1/@types/react@18.2.0/index.d.ts":
		_, _ = w.Write([]byte("export = React;"))
	case "/v1/@types/react@18.2.0/jsx-runtime.d.ts":
		_, _ = w.Write([]byte("export namespace JSX {}"))
	case "/demo-pkg":
	case "/broken":
		w.WriteHeader(http.StatusInternalServerError)
	case "/dangling":
		types("/v1/dangling@1.0.0/index.d.ts", "")
	case "/v1/dangling@1.0.0/index.d.ts":
		_, _ = w.Write([]byte("/// <reference path=\"./gone.d.ts\" />\n"))
	default:
		http.NotFound(w, r)
	}
}

func newTestFetcher(opts Options) (*Fetcher, *fakeCDN, func()) {
	fake := &fakeCDN{hits: make(map[string]int)}
	server := httptest.NewServer(fake)
	cdn := &HTTPCDN{BaseURL: server.URL, Client: server.Client()}
	return New(cdn, NewMemoryCache(), opts), fake, server.Close
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	Convey("Given a CDN", t, func() {
		f, fake, stop := newTestFetcher(Options{TryTypesPackages: true, Subpaths: map[string][]string{
			"react": {"jsx-runtime", "jsx-dev-runtime"},
		}})
		defer stop()

		Convey("Bundled types are fetched with their path references", func() {
			types, err := f.Resolve(ctx, "typed", "")
			So(err, ShouldBeNil)
			So(types, ShouldNotBeNil)
			So(types.PackageName, ShouldEqual, "typed")
			So(types.Version, ShouldEqual, "1.2.3")
			So(types.Entry, ShouldEqual, "index.d.ts")
			So(types.FromTypesPackage, ShouldBeFalse)
			So(types.Files, ShouldContainKey, "index.d.ts")
			So(types.Files, ShouldContainKey, "globals.d.ts")
			So(len(types.Files), ShouldEqual, 2)
		})

		Convey("Reference cycles are fetched once", func() {
			_, err := f.Resolve(ctx, "typed", "")
			So(err, ShouldBeNil)
			So(fake.hit("GET /v1/typed@1.2.3/index.d.ts"), ShouldEqual, 1)
			So(fake.hit("GET /v1/typed@1.2.3/globals.d.ts"), ShouldEqual, 1)
		})

		Convey("A cached result does not touch the network", func() {
			_, _ = f.Resolve(ctx, "typed", "")
			before := fake.total()
			types, err := f.Resolve(ctx, "typed", "")
			So(err, ShouldBeNil)
			So(types, ShouldNotBeNil)
			So(fake.total(), ShouldEqual, before)
		})

		Convey("@types packages fill in and keep the requested name", func() {
			types, err := f.Resolve(ctx, "untyped", "")
			So(err, ShouldBeNil)
			So(types, ShouldNotBeNil)
			So(types.PackageName, ShouldEqual, "untyped")
			So(types.FromTypesPackage, ShouldBeTrue)
			So(types.Version, ShouldEqual, "2.0.0")
		})

		Convey("Without any types the result is nil and cached", func() {
			types, err := f.Resolve(ctx, "demo-pkg", "")
			So(err, ShouldBeNil)
			So(types, ShouldBeNil)
			So(fake.hit("HEAD /@types/demo-pkg"), ShouldEqual, 1)

			before := fake.total()
			types, err = f.Resolve(ctx, "demo-pkg", "")
			So(err, ShouldBeNil)
			So(types, ShouldBeNil)
			So(fake.total(), ShouldEqual, before)
		})

		Convey("Known subpaths are merged", func() {
			types, err := f.Resolve(ctx, "react", "")
			So(err, ShouldBeNil)
			So(types.Files, ShouldContainKey, "index.d.ts")
			So(types.Files, ShouldContainKey, "jsx-runtime.d.ts")
			So(fake.hit("HEAD /react@18.2.0/jsx-dev-runtime"), ShouldEqual, 1)
		})

		Convey("Server failures degrade to nil and are not cached", func() {
			types, err := f.Resolve(ctx, "broken", "")
			So(err, ShouldBeNil)
			So(types, ShouldBeNil)

			_, _ = f.Resolve(ctx, "broken", "")
			So(fake.hit("HEAD /broken"), ShouldEqual, 2)
		})

		Convey("A missing referenced file fails the whole package", func() {
			types, err := f.Resolve(ctx, "dangling", "")
			So(err, ShouldBeNil)
			So(types, ShouldBeNil)
		})

		Convey("Cancellation is reported and nothing is cached", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			types, err := f.Resolve(cancelled, "typed", "")
			So(types, ShouldBeNil)
			So(err, ShouldEqual, context.Canceled)
			So(f.cache.Get(CacheKey(specifier.Package{Name: "typed"}, "")).IsPresent(), ShouldBeFalse)
		})
	})

	Convey("Without the @types fallback only the package itself is probed", t, func() {
		f, fake, stop := newTestFetcher(Options{})
		defer stop()

		types, err := f.Resolve(ctx, "demo-pkg", "")
		So(err, ShouldBeNil)
		So(types, ShouldBeNil)
		So(fake.hit("HEAD /@types/demo-pkg"), ShouldEqual, 0)
	})
}

func TestHelpers(t *testing.T) {
	Convey("Cache keys include subpath and version", t, func() {
		So(CacheKey(specifier.Package{Name: "a", Subpath: "b"}, "1.0.0"), ShouldEqual, "a/b@1.0.0")
		So(CacheKey(specifier.Package{Name: "@s/a"}, ""), ShouldEqual, "@s/a@latest")
	})

	Convey("Only path references are followed", t, func() {
		src := "/// <reference path=\"a.d.ts\" />\n  ///<reference path='./b.d.ts'/>\n/// <reference types=\"node\" />\n// /// <reference path=\"c.d.ts\" />"
		So(ReferencePaths(src), ShouldResemble, []string{"a.d.ts", "./b.d.ts"})
	})

	Convey("Versions are read from the segment after name@", t, func() {
		So(versionOf("react", "v1/react@18.2.0/es2022/react.mjs"), ShouldEqual, "18.2.0")
		So(versionOf("react", "react@18.2.0"), ShouldEqual, "18.2.0")
		So(versionOf("react", "/v1/preact@10.0.0/index.d.ts"), ShouldBeEmpty)
		So(versionOf("react", "/v1/preact@10.0.0/x.mjs", "/react@17.0.2"), ShouldEqual, "17.0.2")
		So(versionOf("react", "/preact@10.0.0/react@16.0.0/x"), ShouldEqual, "16.0.0")
		So(versionOf("@types/untyped", "", "/@types/untyped", "/v1/@types/untyped@2.0.0/index.d.ts"), ShouldEqual, "2.0.0")
		So(versionOf("a", "/a@/x"), ShouldBeEmpty)
	})

	Convey("Package URLs omit latest", t, func() {
		cdn := NewHTTPCDN("https://cdn.example/")
		So(cdn.PackageURL(specifier.Package{Name: "a"}, LatestVersion), ShouldEqual, "https://cdn.example/a")
		So(cdn.PackageURL(specifier.Package{Name: "@s/a", Subpath: "x"}, "2"), ShouldEqual, "https://cdn.example/@s/a@2/x")
	})
}

func TestResolveVersion(t *testing.T) {
	Convey("The CDN reports the resolved version", t, func() {
		fake := &fakeCDN{hits: make(map[string]int)}
		server := httptest.NewServer(fake)
		defer server.Close()
		cdn := &HTTPCDN{BaseURL: server.URL, Client: server.Client()}

		v, err := cdn.ResolveVersion(context.Background(), "typed")
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "1.2.3")

		_, err = cdn.ResolveVersion(context.Background(), "nope")
		So(err, ShouldNotBeNil)
	})
}
