package shared

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMatch(t *testing.T) {
	Convey("Given a registry with react-dom", t, func() {
		r := NewRegistryWithKey("__test")
		r.Register("react-dom", "render")

		Convey("The exact id matches", func() {
			So(r.Match("react-dom"), ShouldBeTrue)
		})

		Convey("A subpath does not match a plain registration", func() {
			So(r.Match("react-dom/client"), ShouldBeFalse)
		})

		Convey("Registering the subpath makes it match", func() {
			r.Register("react-dom/client", "createRoot")
			So(r.Match("react-dom/client"), ShouldBeTrue)
		})

		Convey("Unregister removes the match", func() {
			So(r.Unregister("react-dom"), ShouldBeTrue)
			So(r.Match("react-dom"), ShouldBeFalse)
			So(r.Unregister("react-dom"), ShouldBeFalse)
		})
	})

	Convey("Given a wildcard registration", t, func() {
		r := NewRegistryWithKey("__test")
		r.Register("@mui/icons"+Wildcard)

		Convey("One extra segment matches", func() {
			So(r.Match("@mui/icons/Add"), ShouldBeTrue)
		})

		Convey("The bare package and deeper paths do not", func() {
			So(r.Match("@mui/icons"), ShouldBeFalse)
			So(r.Match("@mui/icons/Add/x"), ShouldBeFalse)
			So(r.Match("@mui/icons/"), ShouldBeFalse)
		})
	})
}

func TestExports(t *testing.T) {
	Convey("Export names are filtered and sorted", t, func() {
		r := NewRegistryWithKey("__test")
		m := r.Register("lib", "useState", "default", "class", "1bad", "with-dash", "$ok", "useState")
		So(m.Exports, ShouldResemble, []string{"$ok", "useState"})
	})

	Convey("Exports are discovered from map keys", t, func() {
		r := NewRegistryWithKey("__test")
		m := r.RegisterValue("lib", map[string]any{"a": 1, "b": 2, "for": 3})
		So(m.Exports, ShouldResemble, []string{"a", "b"})
	})

	Convey("Exports are discovered from struct fields", t, func() {
		type api struct {
			Render  func()
			Version string `json:"version"`
			Skip    int    `json:"-"`
			hidden  bool
		}
		r := NewRegistryWithKey("__test")
		m := r.RegisterValue("lib", &api{})
		So(m.Exports, ShouldResemble, []string{"Render", "version"})
	})

	Convey("Unsupported values register with no named exports", t, func() {
		r := NewRegistryWithKey("__test")
		So(r.RegisterValue("lib", 42).Exports, ShouldBeEmpty)
		So(r.Match("lib"), ShouldBeTrue)
	})
}

func TestModuleSource(t *testing.T) {
	Convey("Given a registered module", t, func() {
		r := NewRegistryWithKey("__vbuild_shared_test")
		r.Register("react", "useState", "useEffect")

		src, err := r.ModuleSource("react")
		So(err, ShouldBeNil)

		Convey("It reads the registry under the instance key", func() {
			So(src, ShouldContainSubstring, `globalThis["__vbuild_shared_test"]`)
		})

		Convey("It fails loudly when the registry is absent", func() {
			So(src, ShouldContainSubstring, "throw new Error")
			So(src, ShouldContainSubstring, "is not installed on globalThis")
		})

		Convey("It exports the default and every named export", func() {
			So(src, ShouldContainSubstring, "export default mod;")
			So(src, ShouldContainSubstring, `export const useEffect = mod["useEffect"];`)
			So(src, ShouldContainSubstring, `export const useState = mod["useState"];`)
			So(strings.Index(src, "useEffect"), ShouldBeLessThan, strings.Index(src, "useState ="))
		})
	})

	Convey("Unregistered modules have no source", t, func() {
		r := NewRegistryWithKey("__test")
		_, err := r.ModuleSource("vue")
		So(err, ShouldNotBeNil)
	})

	Convey("Distinct registries have distinct keys", t, func() {
		So(NewRegistry().Key(), ShouldNotEqual, NewRegistry().Key())
		So(NewRegistry().Key(), ShouldStartWith, "__vbuild_shared_")
	})
}
