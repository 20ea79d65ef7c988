package cmd

import (
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vbuild-dev/vbuild/filesystem"
	"github.com/vbuild-dev/vbuild/project"
	"github.com/vbuild-dev/vbuild/style"
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolP("force", "f", false, "Overwrite the existing manifest and entry")
	initCmd.Flags().StringP("from", "d", "", "Import a host directory instead of scaffolding")
}

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a new in-memory project",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := openProject(cmd)
		defer p.Close()

		if from := lo.Must(cmd.Flags().GetString("from")); from != "" {
			handleErr(p.FS.Import(filesystem.API().Fs, from, func(name string) bool {
				return name == "node_modules" || strings.HasPrefix(name, ".")
			}))
			saveProject(cmd, p)
			success("imported %s", style.Bold(from))
			return
		}

		name := filepath.Base(lo.Must(filepath.Abs(".")))
		if len(args) > 0 {
			name = args[0]
		}

		handleErr(project.Scaffold(p.FS, p.Manifest.Path(), name, lo.Must(cmd.Flags().GetBool("force"))))
		saveProject(cmd, p)
		success("initialized %s in %s", style.Bold(name), projectPath(cmd))
	},
}
