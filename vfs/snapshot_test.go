package vfs

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestSnapshotStringContent(t *testing.T) {
	Convey("Strings that are not UTF-8 survive a JSON snapshot", t, func() {
		f := New()
		So(f.WriteString("/raw.bin", "\xff\xfe"), ShouldBeNil)
		So(f.WriteString("/ok.txt", "héllo"), ShouldBeNil)
		So(f.IsBinary("/raw.bin"), ShouldBeTrue)
		So(f.IsBinary("/ok.txt"), ShouldBeFalse)

		raw, err := json.Marshal(f.Snapshot())
		So(err, ShouldBeNil)
		var decoded map[string]string
		So(json.Unmarshal(raw, &decoded), ShouldBeNil)

		g, err := FromSnapshot(decoded)
		So(err, ShouldBeNil)
		got, err := g.ReadFile("/raw.bin")
		So(err, ShouldBeNil)
		So(got, ShouldResemble, []byte{0xff, 0xfe})
		So(g.IsBinary("/raw.bin"), ShouldBeTrue)

		text, err := g.ReadString("/ok.txt")
		So(err, ShouldBeNil)
		So(text, ShouldEqual, "héllo")
	})
}

func TestSnapshot(t *testing.T) {
	Convey("Given a filesystem built from many writes", t, func() {
		f := New()
		written := map[string][]byte{}
		for i := 0; i < 20; i++ {
			p := fmt.Sprintf("/src/m%d/file%d.ts", i%4, i)
			written[p] = []byte(fmt.Sprintf("export const v = %d;", i))
			So(f.WriteFile(p, written[p]), ShouldBeNil)
		}
		written["/assets/logo.bin"] = []byte{0xde, 0xad, 0xbe, 0xef, 0x00}
		So(f.WriteFile("/assets/logo.bin", written["/assets/logo.bin"]), ShouldBeNil)

		snap := f.Snapshot()

		Convey("Binary files carry the data URL prefix", func() {
			So(strings.HasPrefix(snap["/assets/logo.bin"], BinaryPrefix), ShouldBeTrue)
		})

		Convey("Directories are not exported", func() {
			_, ok := snap["/src"]
			So(ok, ShouldBeFalse)
		})

		Convey("A JSON round trip reconstructs an equivalent tree", func() {
			raw, err := json.Marshal(snap)
			So(err, ShouldBeNil)

			var decoded map[string]string
			So(json.Unmarshal(raw, &decoded), ShouldBeNil)

			g, err := FromSnapshot(decoded)
			So(err, ShouldBeNil)

			for p, want := range written {
				got, err := g.ReadFile(p)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, want)
			}
			for _, dir := range []string{"/", "/src", "/src/m0", "/assets"} {
				a, _ := f.ReadDir(dir)
				b, _ := g.ReadDir(dir)
				So(b, ShouldResemble, a)
			}
			So(g.Size(), ShouldEqual, f.Size())
			So(g.IsBinary("/assets/logo.bin"), ShouldBeTrue)
		})

		Convey("Corrupt binary content is reported", func() {
			_, err := FromSnapshot(map[string]string{"/x": BinaryPrefix + "!!!"})
			So(err, ShouldNotBeNil)
		})

		Convey("Reconstruction honours the cap", func() {
			_, err := FromSnapshot(snap, WithMaxSize(10))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestHostMirror(t *testing.T) {
	Convey("Given a host directory", t, func() {
		host := afero.NewMemMapFs()
		So(afero.WriteFile(host, "/proj/src/index.ts", []byte("export {}"), 0o644), ShouldBeNil)
		So(afero.WriteFile(host, "/proj/node_modules/x/index.js", []byte("x"), 0o644), ShouldBeNil)
		So(afero.WriteFile(host, "/proj/package.json", []byte("{}"), 0o600), ShouldBeNil)

		Convey("Import copies files and prunes skipped directories", func() {
			f := New()
			err := f.Import(host, "/proj", func(name string) bool { return name == "node_modules" })
			So(err, ShouldBeNil)

			got, _ := f.ReadString("/src/index.ts")
			So(got, ShouldEqual, "export {}")
			So(f.Exists("/node_modules"), ShouldBeFalse)

			info, _ := f.Stat("/package.json")
			So(info.Perm().String(), ShouldEqual, "-rw-------")
		})

		Convey("Export writes the tree back out", func() {
			f := New()
			So(f.WriteString("/src/a.ts", "a"), ShouldBeNil)
			So(f.Mkdir("/empty", false), ShouldBeNil)

			out := afero.NewMemMapFs()
			So(f.Export(out, "/out"), ShouldBeNil)

			data, err := afero.ReadFile(out, "/out/src/a.ts")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "a")

			isDir, _ := afero.IsDir(out, "/out/empty")
			So(isDir, ShouldBeTrue)
		})
	})
}
