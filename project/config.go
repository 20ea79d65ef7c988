package project

import (
	"github.com/spf13/viper"
	"github.com/vbuild-dev/vbuild/bundler"
	"github.com/vbuild-dev/vbuild/config"
	"github.com/vbuild-dev/vbuild/internal/cache"
	"github.com/vbuild-dev/vbuild/key"
	"github.com/vbuild-dev/vbuild/network"
	"github.com/vbuild-dev/vbuild/resolver"
	"github.com/vbuild-dev/vbuild/typefetch"
	"github.com/vbuild-dev/vbuild/vfs"
	"github.com/vbuild-dev/vbuild/where"
)

// OptionsFromConfig builds Options from the loaded configuration.
func OptionsFromConfig() Options {
	cdnURL := viper.GetString(key.ResolverCDNURL)

	cdn := typefetch.NewHTTPCDN(cdnURL)
	cdn.Client = network.Client

	opts := Options{
		ManifestPath:        viper.GetString(key.ManifestPath),
		CDNBaseURL:          cdnURL,
		AllowRemoteBundling: viper.GetBool(key.ResolverAllowRemoteBundling),
		TryTypesPackages:    viper.GetBool(key.TypesTryTypesPackages),
		CDN:                 cdn,
		RemoteFetcher: &resolver.HTTPFetcher{
			Client: network.Client,
			Cache:  cache.New(where.Remote(), config.CacheTTL()),
		},
		Build: bundler.Options{
			Format: bundler.Format(viper.GetString(key.BuildFormat)),
			Minify: viper.GetBool(key.BuildMinify),
		},
	}

	if viper.GetBool(key.TypesCacheDisk) {
		opts.TypesCache = typefetch.NewDiskCache(where.Types(), config.CacheTTL())
	}
	return opts
}

// FSOptionsFromConfig returns the filesystem options of the configuration.
func FSOptionsFromConfig() ([]vfs.Option, error) {
	maxSize, err := config.MaxSize()
	if err != nil {
		return nil, err
	}
	return []vfs.Option{vfs.WithMaxSize(maxSize)}, nil
}
