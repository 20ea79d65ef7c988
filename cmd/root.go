// Package cmd implements the vbuild command-line interface.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vbuild-dev/vbuild/color"
	"github.com/vbuild-dev/vbuild/constant"
	"github.com/vbuild-dev/vbuild/icon"
	"github.com/vbuild-dev/vbuild/key"
	"github.com/vbuild-dev/vbuild/log"
	"github.com/vbuild-dev/vbuild/style"
	"github.com/vbuild-dev/vbuild/util"
	"github.com/vbuild-dev/vbuild/version"
	"github.com/vbuild-dev/vbuild/where"
)

const tagline = "Build TypeScript projects that live entirely in memory"

var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: tagline,
	Long:  constant.Logo + "\n" + style.New().Italic(true).Foreground(color.HiBlue).Render("    "+tagline),
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("version")) {
			versionCmd.Run(versionCmd, args)
			return
		}
		handleErr(cmd.Help())
	},
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the version")

	flags := rootCmd.PersistentFlags()
	flags.StringP("project", "P", "", "Project snapshot file (default "+where.Project()+")")
	flags.StringP("icons", "I", "", "Icon variant (emoji, nerd, plain, squares)")
	lo.Must0(viper.BindPFlag(key.IconsVariant, flags.Lookup("icons")))
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveNoFileComp
	}))

	help := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		help(cmd, args)
		version.Notify()
	})

	// Leftovers of interrupted runs.
	go func() { _ = util.Delete(where.Temp()) }()
}

// Execute runs the CLI.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// handleErr logs err, prints it and exits.
func handleErr(err error) {
	if err == nil {
		return
	}
	log.Error(err)
	msg := strings.TrimSpace(util.Wrap(err.Error(), 100))
	_, _ = fmt.Fprintln(os.Stderr, style.Fg(color.Red)(icon.Get(icon.Fail)), msg)
	os.Exit(1)
}

func success(format string, args ...any) {
	fmt.Println(style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, args...))
}

func warn(format string, args ...any) {
	fmt.Println(style.Fg(color.Yellow)(icon.Get(icon.Warn)), fmt.Sprintf(format, args...))
}
