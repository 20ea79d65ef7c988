package vfs

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/vbuild-dev/vbuild/vpath"
)

// Export mirrors the tree into dir on a host filesystem. Symlinks are
// recreated when the host supports them and skipped otherwise.
func (f *FS) Export(host afero.Fs, dir string) error {
	return f.Walk(vpath.Root, func(p string, info *Info) error {
		dest := filepath.Join(dir, filepath.FromSlash(p))

		switch info.Kind() {
		case KindDir:
			return host.MkdirAll(dest, os.ModePerm)
		case KindSymlink:
			linker, ok := host.(afero.Linker)
			if !ok {
				return nil
			}
			target, err := f.Readlink(p)
			if err != nil {
				return err
			}
			_ = host.Remove(dest)
			return linker.SymlinkIfPossible(target, dest)
		default:
			data, err := f.ReadFile(p)
			if err != nil {
				return err
			}
			return afero.WriteFile(host, dest, data, info.Perm())
		}
	})
}

// Import copies the host directory dir into the tree, rooted at "/".
// skip, when non-nil, prunes host directories by base name (for example
// node_modules or .git).
func (f *FS) Import(host afero.Fs, dir string, skip func(name string) bool) error {
	return afero.Walk(host, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		p := vpath.Normalize(filepath.ToSlash(rel))

		if info.IsDir() {
			if p != vpath.Root && skip != nil && skip(info.Name()) {
				return filepath.SkipDir
			}
			return f.Mkdir(p, true)
		}

		if info.Mode()&fs.ModeSymlink != 0 {
			reader, ok := host.(afero.LinkReader)
			if !ok {
				return nil
			}
			target, err := reader.ReadlinkIfPossible(path)
			if err != nil {
				return err
			}
			return f.Symlink(filepath.ToSlash(target), p)
		}

		data, err := afero.ReadFile(host, path)
		if err != nil {
			return err
		}
		if err := f.WriteFile(p, data); err != nil {
			return err
		}
		return f.Chmod(p, info.Mode())
	})
}
