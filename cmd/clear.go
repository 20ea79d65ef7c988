package cmd

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vbuild-dev/vbuild/icon"
	"github.com/vbuild-dev/vbuild/util"
)

func init() {
	rootCmd.AddCommand(clearCmd)
	addLocationFlags(clearCmd, func(l location) string { return "Remove the " + l.name })
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached and persisted vbuild files",
	Run: func(cmd *cobra.Command, args []string) {
		selected := lo.Filter(locations, func(l location, _ int) bool {
			return lo.Must(cmd.Flags().GetBool(l.flag))
		})
		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, l := range selected {
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), l.name))
			err := util.Delete(l.path())
			erase()
			if err != nil && !os.IsNotExist(err) {
				handleErr(err)
			}
			success("%s cleared", util.Capitalize(l.name))
		}
	},
}
