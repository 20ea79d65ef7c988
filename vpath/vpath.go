// Package vpath canonicalizes POSIX-style paths for the in-memory project filesystem.
//
// A canonical path is absolute, uses "/" as separator, has no trailing slash
// (except the root itself) and contains no "." or ".." segments. All
// functions here are pure and never fail.
package vpath

import (
	"strings"

	"github.com/vbuild-dev/vbuild/util"
)

// Root is the canonical root path.
const Root = "/"

// Normalize turns an arbitrary string into a canonical absolute path.
// Popping past the root with ".." is a no-op.
func Normalize(p string) string {
	var out util.Stack[string]
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			out.Pop()
		default:
			out.Push(seg)
		}
	}

	if out.Len() == 0 {
		return Root
	}
	return "/" + strings.Join(out.Items(), "/")
}

// Resolve joins p onto base. An absolute p overrides base entirely.
func Resolve(base, p string) string {
	if strings.HasPrefix(p, "/") {
		return Normalize(p)
	}
	return Normalize(base + "/" + p)
}

// Join normalizes the concatenation of elems.
func Join(elems ...string) string {
	return Normalize(strings.Join(elems, "/"))
}

// Dir returns the canonical parent of p. The parent of the root is the root.
func Dir(p string) string {
	p = Normalize(p)
	i := strings.LastIndexByte(p, '/')
	if i <= 0 {
		return Root
	}
	return p[:i]
}

// Base returns the last segment of p, or "/" for the root.
func Base(p string) string {
	p = Normalize(p)
	if p == Root {
		return Root
	}
	return p[strings.LastIndexByte(p, '/')+1:]
}

// Ext returns the extension of the last segment including the dot, or "".
func Ext(p string) string {
	base := Base(p)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return ""
	}
	return base[i:]
}

// Split returns the segments of the canonical form of p.
func Split(p string) []string {
	p = Normalize(p)
	if p == Root {
		return nil
	}
	return strings.Split(p[1:], "/")
}

// IsRoot reports whether p normalizes to the root.
func IsRoot(p string) bool {
	return Normalize(p) == Root
}

// Within reports whether the canonical path p equals dir or lies below it.
// Both arguments must already be canonical.
func Within(p, dir string) bool {
	if dir == Root {
		return true
	}
	return p == dir || strings.HasPrefix(p, dir+"/")
}

// ChildOf reports whether p is a direct child of dir. Both must be canonical.
func ChildOf(p, dir string) bool {
	prefix := dir + "/"
	if dir == Root {
		prefix = Root
	}
	if p == Root || !strings.HasPrefix(p, prefix) {
		return false
	}
	return !strings.Contains(p[len(prefix):], "/")
}
