package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestJSON(t *testing.T) {
	Convey("Given an in-memory backend", t, func() {
		SetMemMapFs()

		Convey("WriteJSON then ReadJSON round-trips", func() {
			in := map[string]string{"/a.ts": "export {}"}
			So(WriteJSON("/state/snap.json", in), ShouldBeNil)

			var out map[string]string
			So(ReadJSON("/state/snap.json", &out), ShouldBeNil)
			So(out, ShouldResemble, in)

			exists, _ := API().Exists("/state/snap.json.tmp")
			So(exists, ShouldBeFalse)
		})

		Convey("ReadJSON reports decode errors", func() {
			So(API().WriteFile("/bad.json", []byte("{"), 0o644), ShouldBeNil)
			var out map[string]string
			So(ReadJSON("/bad.json", &out), ShouldNotBeNil)
		})
	})
}
