// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"github.com/vbuild-dev/vbuild/constant"
	"github.com/vbuild-dev/vbuild/filesystem"
	"github.com/vbuild-dev/vbuild/key"
	"github.com/vbuild-dev/vbuild/where"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup initializes the global configuration state, including defaults, environment bindings, and localized file resolution.
func Setup() error {
	viper.SetConfigName(constant.App)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.App)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}

// MaxSize returns the configured byte budget of the project filesystem.
func MaxSize() (int64, error) {
	raw := strings.TrimSpace(viper.GetString(key.VFSMaxSize))
	if raw == "" || raw == "0" {
		return 0, nil
	}

	n, err := humanize.ParseBytes(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key.VFSMaxSize, err)
	}
	return int64(n), nil
}

// CacheTTL returns the lifetime of disk-cached type definitions.
func CacheTTL() time.Duration {
	return durationOr(key.TypesCacheTTL, 7*24*time.Hour)
}

// Timeout returns the per-request CDN timeout.
func Timeout() time.Duration {
	return durationOr(key.NetworkTimeout, time.Minute)
}

func durationOr(k string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(viper.GetString(k))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
