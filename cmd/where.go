package cmd

import (
	"os"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/vbuild-dev/vbuild/color"
	"github.com/vbuild-dev/vbuild/style"
	"github.com/vbuild-dev/vbuild/where"
)

// location is a host path vbuild reads or writes. Locations with a flag
// letter are shown by where; all of them can be cleared.
type location struct {
	name  string
	flag  string
	short mo.Option[string]
	path  func() string
}

var locations = []location{
	{"config directory", "config", mo.Some("c"), where.Config},
	{"project snapshot", "project", mo.Some("p"), where.Project},
	{"logs", "logs", mo.Some("l"), where.Logs},
	{"cache directory", "cache", mo.None[string](), where.Cache},
	{"types cache", "types", mo.Some("t"), where.Types},
	{"remote modules", "remote", mo.Some("r"), where.Remote},
	{"temp directory", "temp", mo.None[string](), where.Temp},
}

func addLocationFlags(cmd *cobra.Command, help func(location) string) {
	for _, l := range locations {
		if short, ok := l.short.Get(); ok {
			cmd.Flags().BoolP(l.flag, short, false, help(l))
		} else {
			cmd.Flags().Bool(l.flag, false, help(l))
		}
	}
}

func init() {
	rootCmd.AddCommand(whereCmd)
	addLocationFlags(whereCmd, func(l location) string { return "Print the " + l.name + " path" })
	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string { return l.flag })...)
	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where vbuild keeps its files",
	Run: func(cmd *cobra.Command, args []string) {
		for _, l := range locations {
			if lo.Must(cmd.Flags().GetBool(l.flag)) {
				cmd.Println(l.path())
				return
			}
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		for i, l := range locations {
			if i > 0 {
				cmd.Println()
			}
			cmd.Printf("%s %s\n", header(l.name), style.Fg(color.Yellow)("--"+l.flag))
			cmd.Println(l.path())
		}
	},
}
