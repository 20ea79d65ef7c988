package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vbuild-dev/vbuild/color"
	"github.com/vbuild-dev/vbuild/filesystem"
	"github.com/vbuild-dev/vbuild/icon"
	"github.com/vbuild-dev/vbuild/key"
	"github.com/vbuild-dev/vbuild/project"
	"github.com/vbuild-dev/vbuild/resolver"
	"github.com/vbuild-dev/vbuild/style"
	"github.com/vbuild-dev/vbuild/util"
	"github.com/vbuild-dev/vbuild/vpath"
)

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("out", "o", "", "Write the bundle to this host file instead of stdout")
	buildCmd.Flags().StringP("format", "f", "", "Output format (esm, iife, cjs)")
	buildCmd.Flags().BoolP("minify", "m", false, "Minify the bundle")
	buildCmd.Flags().Bool("remote", false, "Bundle remote URL imports instead of leaving them external")

	lo.Must0(viper.BindPFlag(key.BuildFormat, buildCmd.Flags().Lookup("format")))
	lo.Must0(viper.BindPFlag(key.BuildMinify, buildCmd.Flags().Lookup("minify")))
	lo.Must0(viper.BindPFlag(key.ResolverAllowRemoteBundling, buildCmd.Flags().Lookup("remote")))
	lo.Must0(buildCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"esm", "iife", "cjs"}, cobra.ShellCompDirectiveNoFileComp
	}))
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Bundle the project's main entry",
	Run: func(cmd *cobra.Command, args []string) {
		p := openProject(cmd)
		defer p.Close()

		out := lo.Must(cmd.Flags().GetString("out"))
		started := time.Now()

		var erase func()
		if out != "" {
			erase = util.PrintErasable(fmt.Sprintf("%s Building %s...", icon.Get(icon.Build), p.Manifest.Main()))
		}
		result, err := p.Build(context.Background())
		if erase != nil {
			erase()
		}
		handleErr(err)

		for _, w := range result.Warnings {
			warn("%s", w.String())
		}
		handleErr(result.Err())

		if out == "" {
			fmt.Print(result.Code)
			return
		}

		handleErr(filesystem.API().WriteFile(out, []byte(result.Code), os.ModePerm))
		success(
			"built %s %s in %s",
			style.Bold(out),
			style.Faint(humanize.Bytes(uint64(len(result.Code)))),
			time.Since(started).Round(time.Millisecond),
		)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringP("from", "f", vpath.Root, "Directory the import is resolved from")
	resolveCmd.Flags().StringP("importer", "i", "", "URL of the importing remote module")
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <specifier>...",
	Short: "Show where imports resolve to",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := openProject(cmd)
		defer p.Close()

		ctx := resolver.Context{
			ResolveDir: lo.Must(cmd.Flags().GetString("from")),
			Importer:   lo.Must(cmd.Flags().GetString("importer")),
		}
		for _, spec := range args {
			result, err := p.Resolver.Resolve(spec, ctx)
			handleErr(err)
			printResolution(spec, result)
		}
	},
}

func printResolution(spec string, r resolver.Result) {
	kind := r.Kind.String()
	switch r.Kind {
	case resolver.KindVFS:
		kind = style.Fg(color.Green)(kind)
	case resolver.KindShared:
		kind = style.Fg(color.Purple)(kind)
	case resolver.KindRemote:
		kind = style.Fg(color.Cyan)(kind)
	default:
		kind = style.Fg(color.Yellow)(kind)
	}
	fmt.Printf("%s %s %s\n", style.Bold(spec), kind, r.Path)
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Fetch type declarations of every dependency",
	Run: func(cmd *cobra.Command, args []string) {
		p := openProject(cmd)
		defer p.Close()

		prepareTypes(p)
		saveProject(cmd, p)
	},
}

func prepareTypes(p *project.Project) {
	erase := util.PrintErasable(fmt.Sprintf("%s Fetching types...", icon.Get(icon.Types)))
	report, err := p.PrepareTypes(context.Background())
	erase()
	handleErr(err)

	for _, t := range report.Installed {
		size := lo.SumBy(lo.Values(t.Files), func(s string) int { return len(s) })
		name := t.PackageName
		if t.FromTypesPackage {
			name += style.Faint(" (@types)")
		}
		success(
			"%s %s %s",
			name,
			style.Fg(color.Yellow)(t.Version),
			style.Faint(fmt.Sprintf("%s in %s", humanize.Bytes(uint64(size)), util.Quantify(len(t.Files), "file", "files"))),
		)
	}
	for _, name := range report.Missing {
		warn("no types for %s", name)
	}
}
