package typecheck

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vbuild-dev/vbuild/typefetch"
	"github.com/vbuild-dev/vbuild/vfs"
)

func TestVFSProvider(t *testing.T) {
	Convey("Given a project with installed types", t, func() {
		fs := vfs.New()
		So(fs.WriteString("/src/index.ts", "export {}"), ShouldBeNil)
		So(typefetch.WriteToFS(fs, &typefetch.Types{
			PackageName: "react",
			Version:     "18.2.0",
			Entry:       "index.d.ts",
			Files: map[string]string{
				"index.d.ts":       "export = React;",
				"jsx-runtime.d.ts": "export {};",
			},
		}), ShouldBeNil)
		p := VFSProvider{FS: fs}

		Convey("Files exist, directories do not", func() {
			So(p.Exists("/src/index.ts"), ShouldBeTrue)
			So(p.Exists("/src"), ShouldBeFalse)
		})

		Convey("Listing returns absolute paths", func() {
			list, err := p.List("/src")
			So(err, ShouldBeNil)
			So(list, ShouldResemble, []string{"/src/index.ts"})
		})

		Convey("Package entries come from package.json", func() {
			entry, ok := TypesEntry(p, "react")
			So(ok, ShouldBeTrue)
			So(entry, ShouldEqual, "/node_modules/react/index.d.ts")
		})

		Convey("Subpaths map to their declaration files", func() {
			entry, ok := TypesEntry(p, "react/jsx-runtime")
			So(ok, ShouldBeTrue)
			So(entry, ShouldEqual, "/node_modules/react/jsx-runtime.d.ts")

			_, ok = TypesEntry(p, "react/missing")
			So(ok, ShouldBeFalse)
		})

		Convey("Unknown packages have no entry", func() {
			_, ok := TypesEntry(p, "vue")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Static libs", t, func() {
		libs := Libs{"lib.es5.d.ts": "interface Array<T> {}"}
		_, ok := libs.Lib("lib.es5.d.ts")
		So(ok, ShouldBeTrue)
		_, ok = libs.Lib("lib.dom.d.ts")
		So(ok, ShouldBeFalse)
	})
}
