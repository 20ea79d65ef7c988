// Package specifier classifies import specifiers and splits package names.
package specifier

import "strings"

// Kind is the shape of an import specifier.
type Kind int

const (
	Bare Kind = iota
	Relative
	Absolute
	URL
)

func (k Kind) String() string {
	switch k {
	case Relative:
		return "relative"
	case Absolute:
		return "absolute"
	case URL:
		return "url"
	default:
		return "bare"
	}
}

// Classify decides how a specifier is resolved.
func Classify(s string) Kind {
	switch {
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		return URL
	case strings.HasPrefix(s, "."):
		return Relative
	case strings.HasPrefix(s, "/"):
		return Absolute
	default:
		return Bare
	}
}

// IsPath reports whether s addresses the project filesystem directly.
func IsPath(s string) bool {
	k := Classify(s)
	return k == Relative || k == Absolute
}

// Package is a bare specifier split into package name and subpath.
type Package struct {
	Name    string
	Subpath string
}

// String reassembles the specifier.
func (p Package) String() string {
	if p.Subpath == "" {
		return p.Name
	}
	return p.Name + "/" + p.Subpath
}

// ParsePackage splits a bare specifier. Scoped names keep their first two
// segments: "@scope/name/sub" -> {"@scope/name", "sub"}.
func ParsePackage(s string) Package {
	parts := strings.Split(s, "/")
	n := 1
	if strings.HasPrefix(s, "@") && len(parts) > 1 {
		n = 2
	}
	if len(parts) <= n {
		return Package{Name: s}
	}
	return Package{
		Name:    strings.Join(parts[:n], "/"),
		Subpath: strings.Join(parts[n:], "/"),
	}
}

// ParseVersioned splits "name[@version]", aware of the leading "@" of scoped
// names. The version is empty when absent.
func ParseVersioned(s string) (name, version string) {
	at := strings.LastIndexByte(s, '@')
	if at <= 0 {
		return s, ""
	}
	return s[:at], s[at+1:]
}

// TypesPackageName returns the DefinitelyTyped package for name:
// "lodash" -> "@types/lodash", "@scope/name" -> "@types/scope__name".
func TypesPackageName(name string) string {
	if strings.HasPrefix(name, "@") {
		name = strings.Replace(name[1:], "/", "__", 1)
	}
	return "@types/" + name
}
