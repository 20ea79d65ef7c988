package project

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vbuild-dev/vbuild/constant"
	"github.com/vbuild-dev/vbuild/manifest"
	"github.com/vbuild-dev/vbuild/vfs"
)

func TestScaffold(t *testing.T) {
	Convey("Given an empty filesystem", t, func() {
		fs := vfs.New()
		So(Scaffold(fs, "", `my "app"`, false), ShouldBeNil)

		Convey("The manifest names the entry", func() {
			m := manifest.Open(fs, "")
			So(m.Exists(), ShouldBeTrue)
			So(m.Main(), ShouldEqual, constant.EntryPath)
			So(m.Dependencies(), ShouldBeEmpty)

			src, err := fs.ReadString(constant.ManifestPath)
			So(err, ShouldBeNil)
			So(src, ShouldContainSubstring, `"my \"app\""`)
		})

		Convey("The entry is written", func() {
			src, err := fs.ReadString(constant.EntryPath)
			So(err, ShouldBeNil)
			So(src, ShouldEqual, constant.EntryTemplate)
		})

		Convey("Existing files survive without force", func() {
			So(fs.WriteString(constant.EntryPath, "edited"), ShouldBeNil)
			So(Scaffold(fs, "", "other", false), ShouldBeNil)
			src, _ := fs.ReadString(constant.EntryPath)
			So(src, ShouldEqual, "edited")
		})

		Convey("Force overwrites them", func() {
			So(fs.WriteString(constant.EntryPath, "edited"), ShouldBeNil)
			So(Scaffold(fs, "", "other", true), ShouldBeNil)
			src, _ := fs.ReadString(constant.EntryPath)
			So(src, ShouldEqual, constant.EntryTemplate)
		})
	})
}
