package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vbuild-dev/vbuild/color"
	"github.com/vbuild-dev/vbuild/icon"
	"github.com/vbuild-dev/vbuild/manifest"
	"github.com/vbuild-dev/vbuild/style"
	"github.com/vbuild-dev/vbuild/util"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(installCmd)
	installCmd.Flags().BoolP("shared", "s", false, "Mark the packages as provided by the host page")
	installCmd.Flags().BoolP("types", "t", false, "Fetch type declarations after installing")
}

var installCmd = &cobra.Command{
	Use:     "install <package[@version]>...",
	Short:   "Add packages to the manifest",
	Aliases: []string{"add", "i"},
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := openProject(cmd)
		defer p.Close()

		shared := lo.Must(cmd.Flags().GetBool("shared"))
		for _, spec := range args {
			var (
				result *manifest.InstallResult
				err    error
			)
			if shared {
				result, err = p.Manifest.InstallShared(spec)
			} else {
				erase := util.PrintErasable(fmt.Sprintf("%s Resolving %s...", icon.Get(icon.Progress), spec))
				result, err = p.Manifest.Install(context.Background(), spec)
				erase()
			}
			handleErr(err)
			success("installed %s", style.Fg(color.Purple)(result.String()))
		}

		if lo.Must(cmd.Flags().GetBool("types")) {
			prepareTypes(p)
		}
		saveProject(cmd, p)
	},
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}

var uninstallCmd = &cobra.Command{
	Use:     "uninstall <package>...",
	Short:   "Remove packages and their type declarations",
	Aliases: []string{"remove", "un"},
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := openProject(cmd)
		defer p.Close()

		for _, name := range args {
			removed, err := p.Manifest.Uninstall(name)
			handleErr(err)
			if removed {
				success("uninstalled %s", style.Fg(color.Purple)(name))
			} else {
				warn("%s is not installed", name)
			}
		}
		saveProject(cmd, p)
	},
}

func init() {
	rootCmd.AddCommand(manifestCmd)
	manifestCmd.AddCommand(manifestSchemaCmd, manifestShowCmd)
}

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect the package manifest",
}

var manifestSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the manifest",
	Run: func(cmd *cobra.Command, args []string) {
		data, err := json.MarshalIndent(manifest.Schema(), "", "  ")
		handleErr(err)
		fmt.Println(string(data))
	},
}

var manifestShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the main entry and dependencies",
	Run: func(cmd *cobra.Command, args []string) {
		p := openProject(cmd)
		defer p.Close()

		fmt.Printf("%s %s\n", style.Faint("main"), style.Bold(p.Manifest.Main()))
		deps := p.Manifest.Dependencies()
		names := lo.Keys(deps)
		slices.Sort(names)
		for _, name := range names {
			version := deps[name]
			pkgIcon := icon.Get(icon.Package)
			if version == manifest.SharedVersion {
				pkgIcon = icon.Get(icon.Shared)
			}
			fmt.Printf("%s %s %s\n", pkgIcon, name, style.Fg(color.Yellow)(version))
		}
	},
}
