package cmd

import (
	"os"
	"runtime"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vbuild-dev/vbuild/color"
	"github.com/vbuild-dev/vbuild/constant"
	"github.com/vbuild-dev/vbuild/style"
	"github.com/vbuild-dev/vbuild/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Only print the version number")
}

var versionTemplate = lo.Must(template.New("version").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"bold":    style.Bold,
	"magenta": style.Fg(color.Purple),
}).Parse(`{{ magenta "▇▇▇" }} {{ magenta .App }}

  {{ faint "Version" }}     {{ bold .Version }}
  {{ faint "Revision" }}    {{ bold .Revision }}
  {{ faint "Built" }}       {{ bold .BuiltAt }} by {{ bold .BuiltBy }}
  {{ faint "Platform" }}    {{ bold .Platform }}
  {{ faint "esbuild" }}     {{ bold .Esbuild }}
  {{ faint "Source" }}      {{ .Repository }}
`))

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}
		defer version.Notify()

		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), map[string]string{
			"App":        constant.App,
			"Version":    constant.Version,
			"Revision":   constant.Revision,
			"BuiltAt":    strings.TrimSpace(constant.BuiltAt),
			"BuiltBy":    constant.BuiltBy,
			"Platform":   runtime.GOOS + "/" + runtime.GOARCH,
			"Esbuild":    constant.EsbuildVersion,
			"Repository": constant.Repository,
		}))
	},
}
