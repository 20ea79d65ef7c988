package version

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/vbuild-dev/vbuild/color"
	"github.com/vbuild-dev/vbuild/constant"
	"github.com/vbuild-dev/vbuild/icon"
	"github.com/vbuild-dev/vbuild/key"
	"github.com/vbuild-dev/vbuild/style"
	"github.com/vbuild-dev/vbuild/util"
)

// Notify prints a notice when a newer release than the running one exists.
// Failures are silent.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(icon.Get(icon.Progress) + " Looking for updates...")
	latest, err := Latest()
	erase()
	if err != nil {
		return
	}

	if newer, err := Compare(latest, constant.Version); err != nil || newer <= 0 {
		return
	}

	fmt.Printf("\n%s %s %s is out %s\n%s\n\n",
		style.Fg(color.Green)("▇▇▇"),
		constant.App,
		style.Bold(latest),
		style.Faint("(you have "+constant.Version+")"),
		style.Faint(constant.Repository+"/releases/tag/v"+latest),
	)
}
