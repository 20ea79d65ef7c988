package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vbuild-dev/vbuild/filesystem"
	"github.com/vbuild-dev/vbuild/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("resolver.cdn_url")
			So(result, ShouldEqual, "resolver_cdn_url")
		})
	})
}

func TestTypedGetters(t *testing.T) {
	Convey("Given a configured store", t, func() {
		_ = Setup()

		Convey("MaxSize parses human byte sizes", func() {
			viper.Set(key.VFSMaxSize, "2MB")
			n, err := MaxSize()
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2_000_000)
		})

		Convey("MaxSize treats 0 as unlimited", func() {
			viper.Set(key.VFSMaxSize, "0")
			n, err := MaxSize()
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 0)
		})

		Convey("MaxSize rejects garbage", func() {
			viper.Set(key.VFSMaxSize, "lots")
			_, err := MaxSize()
			So(err, ShouldNotBeNil)
		})

		Convey("Durations fall back when invalid", func() {
			viper.Set(key.NetworkTimeout, "soon")
			So(Timeout(), ShouldEqual, time.Minute)
			viper.Set(key.TypesCacheTTL, "1h")
			So(CacheTTL(), ShouldEqual, time.Hour)
		})

		Reset(func() {
			for name, field := range Default {
				viper.Set(name, field.Value)
			}
		})
	})
}

func TestFields(t *testing.T) {
	Convey("Given the registered fields", t, func() {
		Convey("Every key is exposed through the environment", func() {
			So(len(EnvExposed), ShouldEqual, len(Default))
			field := Default[key.ResolverCDNURL]
			So(field.Env(), ShouldEqual, "VBUILD_RESOLVER_CDN_URL")
		})

		Convey("Types follow the default values", func() {
			minify, maxSize := Default[key.BuildMinify], Default[key.VFSMaxSize]
			So(minify.Type(), ShouldEqual, "bool")
			So(maxSize.Type(), ShouldEqual, "string")
		})

		Convey("Pretty output names the key", func() {
			field := Default[key.BuildFormat]
			So(field.Pretty(), ShouldContainSubstring, key.BuildFormat)
		})

		Convey("Registering a key twice panics", func() {
			So(func() { register(key.BuildFormat, "iife") }, ShouldPanic)
		})
	})
}
