package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vbuild-dev/vbuild/color"
	"github.com/vbuild-dev/vbuild/icon"
	"github.com/vbuild-dev/vbuild/style"
	"github.com/vbuild-dev/vbuild/vfs"
	"github.com/vbuild-dev/vbuild/vpath"
)

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringP("content", "c", "", "Content to write instead of reading stdin")
	writeCmd.Flags().BoolP("append", "a", false, "Append instead of overwriting")
}

var writeCmd = &cobra.Command{
	Use:   "write <path>",
	Short: "Write a project file from stdin or --content",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := openProject(cmd)
		defer p.Close()

		var data []byte
		if cmd.Flags().Changed("content") {
			data = []byte(lo.Must(cmd.Flags().GetString("content")))
		} else {
			var err error
			data, err = io.ReadAll(os.Stdin)
			handleErr(err)
		}

		if lo.Must(cmd.Flags().GetBool("append")) {
			handleErr(p.FS.AppendFile(args[0], data))
		} else {
			handleErr(p.FS.WriteFile(args[0], data))
		}

		saveProject(cmd, p)
		success("wrote %s %s", style.Bold(vpath.Normalize(args[0])), style.Faint(humanize.Bytes(uint64(len(data)))))
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}

var catCmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Print a project file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := openProject(cmd)
		defer p.Close()

		data, err := p.FS.ReadFile(args[0])
		handleErr(err)
		_, err = os.Stdout.Write(data)
		handleErr(err)
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
	lsCmd.Flags().BoolP("recursive", "r", false, "List the whole subtree")
	lsCmd.Flags().StringP("find", "f", "", "Fuzzy-filter paths of the subtree")
}

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List project entries",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := openProject(cmd)
		defer p.Close()

		root := vpath.Root
		if len(args) > 0 {
			root = args[0]
		}

		find := lo.Must(cmd.Flags().GetString("find"))
		if find != "" || lo.Must(cmd.Flags().GetBool("recursive")) {
			handleErr(p.FS.Walk(root, func(path string, info *vfs.Info) error {
				if find != "" && !fuzzy.MatchFold(find, path) {
					return nil
				}
				printEntry(path, info)
				return nil
			}))
			return
		}

		entries, err := p.FS.ReadDirEntries(root)
		handleErr(err)
		for _, e := range entries {
			info, err := p.FS.Lstat(vpath.Join(root, e.Name))
			handleErr(err)
			printEntry(e.Name, info)
		}
	},
}

func printEntry(name string, info *vfs.Info) {
	switch info.Kind() {
	case vfs.KindDir:
		fmt.Printf("%s %s\n", icon.Get(icon.Folder), style.Fg(color.Blue)(name+"/"))
	case vfs.KindSymlink:
		fmt.Printf("%s %s\n", icon.Get(icon.Link), style.Fg(color.Cyan)(name))
	default:
		fmt.Printf("%s %s %s\n", icon.Get(icon.File), name, style.Faint(humanize.Bytes(uint64(info.Size()))))
	}
}

func init() {
	rootCmd.AddCommand(rmCmd)
	rmCmd.Flags().BoolP("recursive", "r", false, "Remove directories and their contents")
	rmCmd.Flags().BoolP("force", "f", false, "Ignore missing paths")
}

var rmCmd = &cobra.Command{
	Use:   "rm <path>...",
	Short: "Remove project entries",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := openProject(cmd)
		defer p.Close()

		opts := vfs.RemoveOptions{
			Recursive: lo.Must(cmd.Flags().GetBool("recursive")),
			Force:     lo.Must(cmd.Flags().GetBool("force")),
		}
		for _, path := range args {
			handleErr(p.FS.Remove(path, opts))
		}

		saveProject(cmd, p)
		success("removed %s", listed(args))
	},
}

func init() {
	rootCmd.AddCommand(mkdirCmd)
	mkdirCmd.Flags().BoolP("parents", "p", false, "Create missing parents and accept existing directories")
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>...",
	Short: "Create project directories",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := openProject(cmd)
		defer p.Close()

		recursive := lo.Must(cmd.Flags().GetBool("parents"))
		for _, path := range args {
			handleErr(p.FS.Mkdir(path, recursive))
		}

		saveProject(cmd, p)
		success("created %s", listed(args))
	},
}

func init() {
	rootCmd.AddCommand(mvCmd, cpCmd, lnCmd)
	cpCmd.Flags().BoolP("recursive", "r", false, "Copy directories")
	lnCmd.Flags().BoolP("symbolic", "s", false, "Create a symbolic link")
}

var mvCmd = &cobra.Command{
	Use:   "mv <src> <dst>",
	Short: "Move a project entry",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		p := openProject(cmd)
		defer p.Close()

		handleErr(p.FS.Rename(args[0], args[1]))
		saveProject(cmd, p)
		success("moved %s to %s", args[0], args[1])
	},
}

var cpCmd = &cobra.Command{
	Use:   "cp <src> <dst>",
	Short: "Copy a project entry",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		p := openProject(cmd)
		defer p.Close()

		handleErr(p.FS.Copy(args[0], args[1], lo.Must(cmd.Flags().GetBool("recursive"))))
		saveProject(cmd, p)
		success("copied %s to %s", args[0], args[1])
	},
}

var lnCmd = &cobra.Command{
	Use:   "ln <target> <link>",
	Short: "Link a project entry",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		p := openProject(cmd)
		defer p.Close()

		if lo.Must(cmd.Flags().GetBool("symbolic")) {
			handleErr(p.FS.Symlink(args[0], args[1]))
		} else {
			handleErr(p.FS.Link(args[0], args[1]))
		}
		saveProject(cmd, p)
		success("linked %s to %s", args[1], args[0])
	},
}

func listed(items []string) string {
	return style.Bold(fmt.Sprint(items))
}
