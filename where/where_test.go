package where

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vbuild-dev/vbuild/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Cache()", func() {
			path := Cache()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Remote() lives inside Cache()", func() {
			So(filepath.Dir(Remote()), ShouldEqual, Cache())
		})

		Convey("Types() is a file inside Cache()", func() {
			So(filepath.Dir(Types()), ShouldEqual, Cache())
		})

		Convey("Project() honours the override", func() {
			lo.Must0(os.Setenv(EnvProjectPath, "/tmp/p.json"))
			defer os.Unsetenv(EnvProjectPath)
			So(Project(), ShouldEqual, "/tmp/p.json")
		})
	})
}
