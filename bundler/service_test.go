package bundler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vbuild-dev/vbuild/resolver"
	"github.com/vbuild-dev/vbuild/shared"
	"github.com/vbuild-dev/vbuild/vfs"
)

func newService(files map[string]string, opts Options) *Service {
	fs := vfs.New()
	for p, c := range files {
		if err := fs.WriteString(p, c); err != nil {
			panic(err)
		}
	}

	registry := shared.NewRegistryWithKey("__vbuild_shared_test")
	registry.Register("react", "useState")

	r := resolver.New(fs, resolver.Options{
		Packages: resolver.Packages{"lodash": "4.17.21"},
		Shared:   registry,
	})
	return NewService(r, resolver.NewLoader(fs, registry, nil), opts)
}

type slowFetcher struct {
	mu    sync.Mutex
	calls map[string]int
}

func (f *slowFetcher) Fetch(_ context.Context, u string) ([]byte, error) {
	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	f.calls[u]++
	f.mu.Unlock()

	if strings.HasSuffix(u, "/common.js") {
		return []byte(`export const common = "shared by all";`), nil
	}
	return []byte(`import { common } from "https://cdn.test/common.js"; export default common + " ` + u + `";`), nil
}

func TestServiceRemoteModules(t *testing.T) {
	Convey("Many remote modules load concurrently", t, func() {
		const count = 40

		var lines []string
		var names []string
		for i := 0; i < count; i++ {
			lines = append(lines, fmt.Sprintf(`import m%d from "https://cdn.test/m%d.js";`, i, i))
			names = append(names, fmt.Sprintf("m%d", i))
		}
		lines = append(lines, "console.log("+strings.Join(names, ", ")+");")

		fs := vfs.New()
		So(fs.WriteString("/main.js", strings.Join(lines, "\n")), ShouldBeNil)

		fetcher := &slowFetcher{calls: make(map[string]int)}
		loader := resolver.NewLoader(fs, shared.NewRegistryWithKey("__vbuild_shared_test"), fetcher)
		s := NewService(resolver.New(fs, resolver.Options{AllowRemoteBundling: true}), loader, Options{})
		So(s.Init(), ShouldBeNil)
		defer s.Dispose()

		res, err := s.Bundle(context.Background(), Request{Entry: "/main.js"})
		So(err, ShouldBeNil)
		So(res.Err(), ShouldBeNil)
		So(res.Code, ShouldContainSubstring, "shared by all")
		So(res.Code, ShouldContainSubstring, "https://cdn.test/m39.js")

		So(loader.Visited(), ShouldHaveLength, count+1)
		fetcher.mu.Lock()
		defer fetcher.mu.Unlock()
		So(fetcher.calls, ShouldHaveLength, count+1)
		for u, n := range fetcher.calls {
			So(n, ShouldEqual, 1)
			So(u, ShouldStartWith, "https://cdn.test/")
		}
	})
}

func TestService(t *testing.T) {
	ctx := context.Background()

	Convey("Given a project", t, func() {
		s := newService(map[string]string{
			"/src/index.ts": strings.Join([]string{
				`import { greet } from "./util";`,
				`import { useState } from "react";`,
				`import debounce from "lodash/debounce";`,
				`import "./app.css";`,
				`console.log(greet(), useState, debounce);`,
			}, "\n"),
			"/src/util.ts": `export function greet(): string { return "hello from util"; }`,
			"/src/app.css": `body { margin: 0 }`,
			"/src/bad.ts":  `import "./missing";`,
		}, Options{})

		Convey("It refuses to build before Init", func() {
			_, err := s.Bundle(ctx, Request{Entry: "/src/index.ts"})
			So(err, ShouldEqual, ErrNotInitialized)
		})

		Convey("Once initialized", func() {
			So(s.Init(), ShouldBeNil)
			defer s.Dispose()

			Convey("Local, shared and external modules are wired", func() {
				res, err := s.Bundle(ctx, Request{Entry: "/src/index.ts"})
				So(err, ShouldBeNil)
				So(res.Err(), ShouldBeNil)
				So(res.Code, ShouldContainSubstring, "hello from util")
				So(res.Code, ShouldContainSubstring, "__vbuild_shared_test")
				So(res.Code, ShouldContainSubstring, "https://esm.sh/lodash@4.17.21/debounce")
				So(res.Code, ShouldContainSubstring, "margin: 0")
			})

			Convey("Relative entries start at the root", func() {
				res, err := s.Bundle(ctx, Request{Entry: "src/index.ts"})
				So(err, ShouldBeNil)
				So(res.Failed(), ShouldBeFalse)
			})

			Convey("Unresolved imports are reported as diagnostics", func() {
				res, err := s.Bundle(ctx, Request{Entry: "/src/bad.ts"})
				So(err, ShouldBeNil)
				So(res.Failed(), ShouldBeTrue)
				So(res.Code, ShouldBeEmpty)
				So(res.Err().Error(), ShouldContainSubstring, "missing")
			})

			Convey("Dispose stops the service", func() {
				s.Dispose()
				_, err := s.Bundle(ctx, Request{Entry: "/src/index.ts"})
				So(err, ShouldEqual, ErrNotInitialized)
			})
		})
	})

	Convey("Minified IIFE output", t, func() {
		s := newService(map[string]string{
			"/main.js": `const message = "iife"; console.log(message);`,
		}, Options{Format: FormatIIFE, Minify: true})
		So(s.Init(), ShouldBeNil)
		defer s.Dispose()

		res, err := s.Bundle(ctx, Request{Entry: "/main.js"})
		So(err, ShouldBeNil)
		So(res.Failed(), ShouldBeFalse)
		So(res.Code, ShouldStartWith, "(()=>{")
	})
}
