package main

import (
	"github.com/samber/lo"
	"github.com/vbuild-dev/vbuild/cmd"
	"github.com/vbuild-dev/vbuild/config"
	"github.com/vbuild-dev/vbuild/internal/cache"
	"github.com/vbuild-dev/vbuild/log"
	"github.com/vbuild-dev/vbuild/network"
	"github.com/vbuild-dev/vbuild/where"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())
	network.Configure(config.Timeout())

	go cache.New(where.Remote(), config.CacheTTL()).CollectGarbage()

	cmd.Execute()
}
