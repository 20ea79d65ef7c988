package cmd

import (
	"encoding/json"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vbuild-dev/vbuild/filesystem"
	"github.com/vbuild-dev/vbuild/style"
	"github.com/vbuild-dev/vbuild/util"
)

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotShowCmd, snapshotExportCmd, snapshotImportCmd)

	snapshotImportCmd.Flags().StringSliceP("skip", "s", []string{"node_modules", ".git"}, "Names to skip while importing")
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Move the project between memory and disk",
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the project snapshot as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		p := openProject(cmd)
		defer p.Close()

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(p.FS.Snapshot()))
	},
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Write the project tree into a host directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := openProject(cmd)
		defer p.Close()

		handleErr(p.FS.Export(filesystem.API().Fs, args[0]))
		success("exported %s to %s", style.Faint(humanize.Bytes(uint64(p.FS.Size()))), style.Bold(args[0]))
	},
}

var snapshotImportCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Read a host directory into the project tree",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := openProject(cmd)
		defer p.Close()

		skip := lo.Must(cmd.Flags().GetStringSlice("skip"))
		before := len(p.FS.Snapshot())
		handleErr(p.FS.Import(filesystem.API().Fs, args[0], func(name string) bool {
			return lo.Contains(skip, name)
		}))
		saveProject(cmd, p)

		added := util.Max(len(p.FS.Snapshot())-before, 0)
		success("imported %s from %s", util.Quantify(added, "new file", "new files"), style.Bold(args[0]))
	},
}
