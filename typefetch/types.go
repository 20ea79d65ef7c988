// Package typefetch downloads TypeScript declarations for installed packages.
//
// Types are best effort: any network or parse failure degrades to "no types"
// with a logged warning and never fails the caller's build.
package typefetch

import (
	"errors"

	"github.com/vbuild-dev/vbuild/specifier"
)

var (
	// ErrFetchFailed is a failed or rejected CDN request.
	ErrFetchFailed = errors.New("types fetch failed")
	// ErrParseFailed is a CDN response that could not be interpreted.
	ErrParseFailed = errors.New("types response could not be parsed")
)

// LatestVersion stands in for an unspecified version.
const LatestVersion = "latest"

// Types is the declaration tree of one package.
type Types struct {
	// PackageName is the name the caller asked for, even when the files came
	// from the @types package.
	PackageName string `json:"packageName"`
	Version     string `json:"version"`
	// Entry is the path of the root declaration file within Files.
	Entry string `json:"entry"`
	// Files maps paths relative to the package root to their contents.
	Files            map[string]string `json:"files"`
	FromTypesPackage bool              `json:"fromTypesPackage"`
}

// CacheKey identifies a lookup: name[/subpath]@version, "latest" when unversioned.
func CacheKey(pkg specifier.Package, version string) string {
	if version == "" {
		version = LatestVersion
	}
	return pkg.String() + "@" + version
}
