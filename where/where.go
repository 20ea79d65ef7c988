// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/vbuild-dev/vbuild/constant"
	"github.com/vbuild-dev/vbuild/filesystem"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "VBUILD_CONFIG_PATH"

// EnvProjectPath overrides the location of the persisted project snapshot.
const EnvProjectPath = "VBUILD_PROJECT"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// The path can be overridden via the VBUILD_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs resolves the directory used for application logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Types resolves the disk cache file for fetched type definitions.
func Types() string {
	return filepath.Join(Cache(), "types.json")
}

// Remote resolves the directory caching remote modules pulled during bundling.
func Remote() string {
	return ensureDir(filepath.Join(Cache(), "remote"))
}

// Project resolves the snapshot file the CLI keeps the project filesystem in between invocations.
func Project() string {
	if custom, ok := os.LookupEnv(EnvProjectPath); ok {
		return custom
	}
	return filepath.Join(".", "."+constant.App+".json")
}

// Temp resolves a volatile directory for transient application artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.App))
}
