package log

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vbuild-dev/vbuild/key"
)

func TestLog(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)
		So(Setup(), ShouldBeNil)

		Convey("Nothing is written", func() {
			var buf bytes.Buffer
			configure(&buf)
			enabled = false
			Warnf("dropped %d", 1)
			So(buf.Len(), ShouldEqual, 0)
		})
	})

	Convey("Given an explicit output", t, func() {
		viper.Set(key.LogsLevel, "debug")
		var buf bytes.Buffer
		SetOutput(&buf)

		Convey("Messages at or above the level are written", func() {
			Debugf("types for %s", "react")
			So(buf.String(), ShouldContainSubstring, "types for react")
		})

		Reset(func() {
			enabled = false
			viper.Set(key.LogsLevel, "info")
		})
	})
}
