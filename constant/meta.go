// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// App is the canonical application identifier used for filesystem paths and CLI branding.
	App = "vbuild"

	// Version is the current application semantic version string.
	Version = "0.3.1"

	// UserAgent is the HTTP User-Agent string sent to package CDNs.
	UserAgent = App + "/" + Version

	// EsbuildVersion is the esbuild release the bundler is built against. Keep in sync with go.mod.
	EsbuildVersion = "0.25.10"

	// Repository is the home of the project.
	Repository = "https://github.com/vbuild-dev/vbuild"

	// ReleasesAPI reports the latest published release.
	ReleasesAPI = "https://api.github.com/repos/vbuild-dev/vbuild/releases/latest"
)

// Build metadata, overridden at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
