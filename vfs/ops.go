package vfs

import (
	"errors"
	"io/fs"

	"github.com/vbuild-dev/vbuild/vpath"
)

// RemoveOptions controls Remove.
type RemoveOptions struct {
	// Recursive allows removing a non-empty directory with its subtree.
	Recursive bool
	// Force makes removing an absent path a no-op.
	Force bool
}

// Remove deletes the entry at p. A final symlink is removed itself, not its target.
func (f *FS) Remove(p string, opts RemoveOptions) error {
	if vpath.IsRoot(p) {
		return wrap("remove", p, ErrInvalid)
	}

	abs, err := f.lookup(p, false, false)
	if err != nil {
		if opts.Force && errors.Is(err, ErrNotFound) {
			return nil
		}
		return wrap("remove", p, err)
	}

	keys := f.subtree(abs)
	if len(keys) > 1 && !opts.Recursive {
		return wrap("remove", p, ErrNotEmpty)
	}
	for _, k := range keys {
		f.drop(k)
	}
	return nil
}

// Copy duplicates src to dst. Copying a directory requires recursive and
// copies the whole subtree; symlinks inside it are copied as links.
// Destination entries get fresh modification times.
func (f *FS) Copy(src, dst string, recursive bool) error {
	from, err := f.lookup(src, true, false)
	if err != nil {
		return wrap("copy", src, err)
	}
	to, err := f.lookup(dst, true, true)
	if err != nil {
		return wrap("copy", dst, err)
	}

	if f.entries[from].kind == KindDir {
		if !recursive {
			return wrap("copy", src, ErrIsDir)
		}
		if vpath.Within(to, from) {
			return wrap("copy", dst, ErrInvalid)
		}
	}

	now := f.now()
	plan := make(map[string]*entry)
	var order []string
	for _, k := range f.subtree(from) {
		target := to + k[len(from):]
		if k == from {
			target = to
		}
		e := f.entries[k].clone()
		e.modTime = now
		if existing, ok := f.entries[target]; ok {
			if existing.kind == KindDir && e.kind != KindDir {
				return wrap("copy", target, ErrIsDir)
			}
			if existing.kind != KindDir && e.kind == KindDir {
				return wrap("copy", target, ErrNotDir)
			}
		}
		plan[target] = e
		order = append(order, target)
	}

	return f.apply("copy", dst, to, order, plan, nil)
}

// Rename moves src and its whole subtree to dst, keeping modification times.
// An existing file at dst is replaced; an existing directory must be empty.
func (f *FS) Rename(src, dst string) error {
	if vpath.IsRoot(src) || vpath.IsRoot(dst) {
		return wrap("rename", src, ErrInvalid)
	}

	from, err := f.lookup(src, false, false)
	if err != nil {
		return wrap("rename", src, err)
	}
	to, err := f.lookup(dst, false, true)
	if err != nil {
		return wrap("rename", dst, err)
	}
	if from == to {
		return nil
	}
	if vpath.Within(to, from) {
		return wrap("rename", dst, ErrInvalid)
	}

	moving := f.entries[from]
	var replaced []string
	if existing, ok := f.entries[to]; ok {
		switch {
		case existing.kind == KindDir && moving.kind != KindDir:
			return wrap("rename", dst, ErrIsDir)
		case existing.kind != KindDir && moving.kind == KindDir:
			return wrap("rename", dst, ErrNotDir)
		}
		replaced = f.subtree(to)
		if len(replaced) > 1 {
			return wrap("rename", dst, ErrNotEmpty)
		}
	}

	moved := f.subtree(from)
	plan := make(map[string]*entry, len(moved))
	order := make([]string, 0, len(moved))
	for _, k := range moved {
		target := to + k[len(from):]
		plan[target] = f.entries[k]
		order = append(order, target)
	}

	return f.apply("rename", dst, to, order, plan, append(replaced, moved...))
}

// apply commits a multi-entry change as a unit: removals, then the planned
// entries under root, creating root's missing ancestors. The budget is
// checked against the net change before anything is touched.
func (f *FS) apply(op, p, root string, order []string, plan map[string]*entry, removed []string) error {
	dirs, err := f.missingAncestors(root)
	if err != nil {
		return wrap(op, p, err)
	}

	gone := make(map[string]bool, len(removed))
	delta := f.keysCost(dirs)
	for _, k := range removed {
		gone[k] = true
		delta -= utf16Len(k) + f.entries[k].size()
	}
	for _, k := range order {
		delta += plan[k].size()
		if old, ok := f.entries[k]; ok && !gone[k] {
			delta -= old.size()
		} else {
			delta += utf16Len(k)
		}
	}
	if !f.fits(delta) {
		return wrap(op, p, ErrQuotaExceeded)
	}

	for _, k := range removed {
		f.drop(k)
	}
	f.insertDirs(dirs)
	for _, k := range order {
		if old, ok := f.entries[k]; ok && old.kind == KindDir && plan[k].kind == KindDir {
			// Merging into an existing directory keeps it.
			continue
		}
		f.put(k, plan[k])
	}
	return nil
}

// Symlink creates link pointing at target. The target is stored verbatim
// and need not exist.
func (f *FS) Symlink(target, link string) error {
	abs, err := f.lookup(link, false, true)
	if err != nil {
		return wrap("symlink", link, err)
	}
	if _, ok := f.entries[abs]; ok {
		return wrap("symlink", link, ErrExist)
	}

	e := &entry{kind: KindSymlink, target: target, mode: SymlinkMode, modTime: f.now()}
	return f.apply("symlink", link, abs, []string{abs}, map[string]*entry{abs: e}, nil)
}

// Readlink returns the stored target of the symlink at p.
func (f *FS) Readlink(p string) (string, error) {
	abs, err := f.lookup(p, false, false)
	if err != nil {
		return "", wrap("readlink", p, err)
	}

	e := f.entries[abs]
	if e.kind != KindSymlink {
		return "", wrap("readlink", p, ErrInvalid)
	}
	return e.target, nil
}

// Realpath resolves every symlink along p and returns the canonical path
// of the entry it designates.
func (f *FS) Realpath(p string) (string, error) {
	abs, err := f.lookup(p, true, false)
	if err != nil {
		return "", wrap("realpath", p, err)
	}
	return abs, nil
}

// Link creates newPath holding a copy of the current content of existing.
// The two paths do not share storage: later writes to either diverge.
func (f *FS) Link(existing, newPath string) error {
	from, err := f.lookup(existing, true, false)
	if err != nil {
		return wrap("link", existing, err)
	}
	if f.entries[from].kind == KindDir {
		return wrap("link", existing, ErrIsDir)
	}

	to, err := f.lookup(newPath, false, true)
	if err != nil {
		return wrap("link", newPath, err)
	}
	if _, ok := f.entries[to]; ok {
		return wrap("link", newPath, ErrExist)
	}

	e := f.entries[from].clone()
	return f.apply("link", newPath, to, []string{to}, map[string]*entry{to: e}, nil)
}

// Chmod stores new permission bits for the entry at p. They are not enforced.
func (f *FS) Chmod(p string, mode fs.FileMode) error {
	abs, err := f.lookup(p, true, false)
	if err != nil {
		return wrap("chmod", p, err)
	}
	f.entries[abs].mode = mode.Perm()
	return nil
}

// WalkFunc is called for every entry visited by Walk. Returning fs.SkipDir
// from a directory skips its subtree.
type WalkFunc func(p string, info *Info) error

// Walk visits root and everything below it in sorted pre-order. Symlinks
// are reported, not followed.
func (f *FS) Walk(root string, fn WalkFunc) error {
	abs, err := f.lookup(root, true, false)
	if err != nil {
		return wrap("walk", root, err)
	}

	var skip string
	for _, k := range f.subtree(abs) {
		if skip != "" && vpath.Within(k, skip) {
			continue
		}
		skip = ""

		e := f.entries[k]
		if err := fn(k, newInfo(k, e)); err != nil {
			if errors.Is(err, fs.SkipDir) && e.kind == KindDir {
				skip = k
				continue
			}
			return err
		}
	}
	return nil
}
