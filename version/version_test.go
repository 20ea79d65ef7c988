package version

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vbuild-dev/vbuild/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCompare(t *testing.T) {
	Convey("Versions compare numerically", t, func() {
		for _, tc := range []struct {
			a, b string
			want int
		}{
			{"1.0.0", "1.0.0", 0},
			{"v1.2.0", "1.1.9", 1},
			{"0.9.10", "0.10.0", -1},
			{"2.0.0", "10.0.0", -1},
			{"1.4.0-rc.1", "1.4.0", 0},
		} {
			got, err := Compare(tc.a, tc.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, tc.want)
		}
	})

	Convey("Malformed versions fail", t, func() {
		_, err := Compare("latest", "1.0.0")
		So(err, ShouldNotBeNil)
		_, err = Compare("1.0", "1.0.0")
		So(err, ShouldNotBeNil)
	})
}

func TestLatest(t *testing.T) {
	Convey("Given a release API", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"tag_name":"v9.8.7"}`))
		}))
		defer server.Close()

		prev := releasesURL
		releasesURL = server.URL
		defer func() { releasesURL = prev }()

		Convey("The tag is returned without its prefix", func() {
			v, err := Latest()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "9.8.7")
		})
	})
}
