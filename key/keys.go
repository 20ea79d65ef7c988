// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Virtual filesystem.
const (
	VFSMaxSize = "vfs.max_size"
)

// Module resolution.
const (
	ResolverCDNURL              = "resolver.cdn_url"
	ResolverAllowRemoteBundling = "resolver.allow_remote_bundling"
)

// Type definitions.
const (
	TypesTryTypesPackages = "types.try_types_packages"
	TypesCacheTTL         = "types.cache_ttl"
	TypesCacheDisk        = "types.cache_disk"
)

// Network.
const (
	NetworkFingerprint = "network.fingerprint"
	NetworkTimeout     = "network.timeout"
)

// Manifest.
const (
	ManifestPath = "manifest.path"
)

// Bundling.
const (
	BuildFormat = "build.format"
	BuildMinify = "build.minify"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern CLI rendering and checks.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
	IconsVariant    = "icons.variant"
)
