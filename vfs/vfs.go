// Package vfs implements the in-memory project filesystem.
//
// The tree is a flat map from canonical path (see package vpath) to entry.
// Every non-root entry has a parent directory in the map; ancestors are
// created explicitly by the write operations that need them. The root
// directory always exists and cannot be removed.
//
// All operations are synchronous and the FS does no locking of its own:
// callers must not mutate one FS from two goroutines at once.
//
// The FS tracks an approximate size (UTF-16 length of every key plus the
// content of every entry) against an optional cap. An operation that would
// exceed the cap fails with ErrQuotaExceeded before anything is mutated.
package vfs

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/vbuild-dev/vbuild/vpath"
	"golang.org/x/exp/slices"
)

// MaxSymlinkDepth bounds how many symlinks a single lookup may traverse.
const MaxSymlinkDepth = 10

// FS is an in-memory filesystem.
type FS struct {
	entries map[string]*entry
	size    int64
	maxSize int64
	now     func() time.Time
}

// Option configures a new FS.
type Option func(*FS)

// WithMaxSize caps the byte budget. Zero or a negative value disables the cap.
func WithMaxSize(n int64) Option {
	return func(f *FS) {
		f.maxSize = n
	}
}

// WithClock overrides the time source used for modification times.
func WithClock(now func() time.Time) Option {
	return func(f *FS) {
		f.now = now
	}
}

// New returns an empty filesystem holding only the root directory.
func New(opts ...Option) *FS {
	f := &FS{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.entries[vpath.Root] = &entry{kind: KindDir, mode: DefaultDirMode, modTime: f.now()}
	f.size = utf16Len(vpath.Root)
	return f
}

// Size returns the current byte budget usage.
func (f *FS) Size() int64 { return f.size }

// MaxSize returns the configured cap, zero when unlimited.
func (f *FS) MaxSize() int64 { return f.maxSize }

func (f *FS) fits(delta int64) bool {
	return f.maxSize <= 0 || f.size+delta <= f.maxSize
}

// lookup walks p component by component. Symlinks in intermediate positions
// are always followed; the final component is followed only when
// followLast is set. With allowMissing, the walk stops at the first absent
// component and returns the literal remainder appended to the resolved
// prefix, so callers can create it.
func (f *FS) lookup(p string, followLast, allowMissing bool) (string, error) {
	pending := vpath.Split(p)
	cur := vpath.Root
	links := 0

	for len(pending) > 0 {
		seg := pending[0]
		pending = pending[1:]
		next := vpath.Join(cur, seg)

		e, ok := f.entries[next]
		if !ok {
			if !allowMissing {
				return "", ErrNotFound
			}
			return vpath.Join(append([]string{next}, pending...)...), nil
		}

		last := len(pending) == 0
		if e.kind == KindSymlink && (!last || followLast) {
			links++
			if links > MaxSymlinkDepth {
				return "", ErrTooManyLinks
			}
			pending = append(vpath.Split(vpath.Resolve(cur, e.target)), pending...)
			cur = vpath.Root
			continue
		}

		if !last && e.kind != KindDir {
			return "", ErrNotDir
		}
		cur = next
	}

	return cur, nil
}

// missingAncestors returns the absent ancestors of p, outermost first.
func (f *FS) missingAncestors(p string) ([]string, error) {
	var missing []string
	for dir := vpath.Dir(p); ; dir = vpath.Dir(dir) {
		if e, ok := f.entries[dir]; ok {
			if e.kind != KindDir {
				return nil, ErrNotDir
			}
			break
		}
		missing = append(missing, dir)
	}
	slices.Reverse(missing)
	return missing, nil
}

func (f *FS) keysCost(keys []string) int64 {
	return lo.SumBy(keys, utf16Len)
}

func (f *FS) insertDirs(dirs []string) {
	for _, dir := range dirs {
		f.entries[dir] = &entry{kind: KindDir, mode: DefaultDirMode, modTime: f.now()}
		f.size += utf16Len(dir)
	}
}

func (f *FS) put(p string, e *entry) {
	if old, ok := f.entries[p]; ok {
		f.size -= old.size()
	} else {
		f.size += utf16Len(p)
	}
	f.entries[p] = e
	f.size += e.size()
}

func (f *FS) drop(p string) {
	if old, ok := f.entries[p]; ok {
		f.size -= utf16Len(p) + old.size()
		delete(f.entries, p)
	}
}

// subtree returns p and every key below it, sorted so parents precede children.
func (f *FS) subtree(p string) []string {
	keys := lo.Filter(lo.Keys(f.entries), func(k string, _ int) bool {
		return vpath.Within(k, p)
	})
	sortPaths(keys)
	return keys
}

// sortPaths orders paths segment-wise so a directory is immediately
// followed by its descendants.
func sortPaths(paths []string) {
	sort.Slice(paths, func(i, j int) bool {
		return pathKey(paths[i]) < pathKey(paths[j])
	})
}

func pathKey(p string) string {
	return strings.ReplaceAll(p, "/", "\x00")
}

// Exists reports whether p names an entry, following symlinks.
func (f *FS) Exists(p string) bool {
	_, err := f.Stat(p)
	return err == nil
}

// Stat describes the entry at p, following symlinks.
func (f *FS) Stat(p string) (*Info, error) {
	abs, err := f.lookup(p, true, false)
	if err != nil {
		return nil, wrap("stat", p, err)
	}
	return newInfo(abs, f.entries[abs]), nil
}

// Lstat describes the entry at p without following a final symlink.
func (f *FS) Lstat(p string) (*Info, error) {
	abs, err := f.lookup(p, false, false)
	if err != nil {
		return nil, wrap("lstat", p, err)
	}
	return newInfo(abs, f.entries[abs]), nil
}

// ReadFile returns a copy of the content of the file at p.
func (f *FS) ReadFile(p string) ([]byte, error) {
	abs, err := f.lookup(p, true, false)
	if err != nil {
		return nil, wrap("read", p, err)
	}

	e := f.entries[abs]
	if e.kind == KindDir {
		return nil, wrap("read", p, ErrIsDir)
	}
	return append([]byte(nil), e.data...), nil
}

// ReadString returns the content of the file at p as text.
func (f *FS) ReadString(p string) (string, error) {
	data, err := f.ReadFile(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// IsBinary reports whether the file at p holds binary content.
func (f *FS) IsBinary(p string) bool {
	abs, err := f.lookup(p, true, false)
	if err != nil {
		return false
	}
	return f.entries[abs].binary
}

// WriteFile stores data at p, creating missing ancestor directories.
// Content that is not valid UTF-8 is kept as binary.
func (f *FS) WriteFile(p string, data []byte) error {
	return f.write("write", p, data, !isText(data))
}

// WriteString stores s at p. Like WriteFile, invalid UTF-8 is kept as binary.
func (f *FS) WriteString(p, s string) error {
	data := []byte(s)
	return f.write("write", p, data, !isText(data))
}

// AppendFile appends data to the file at p, creating it if absent.
func (f *FS) AppendFile(p string, data []byte) error {
	existing, err := f.ReadFile(p)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	merged := append(existing, data...)
	return f.write("append", p, merged, !isText(merged))
}

func (f *FS) write(op, p string, data []byte, binary bool) error {
	abs, err := f.lookup(p, true, true)
	if err != nil {
		return wrap(op, p, err)
	}

	mode := DefaultFileMode
	if old, ok := f.entries[abs]; ok {
		if old.kind == KindDir {
			return wrap(op, p, ErrIsDir)
		}
		mode = old.mode
	}

	dirs, err := f.missingAncestors(abs)
	if err != nil {
		return wrap(op, p, err)
	}

	next := &entry{
		kind:    KindFile,
		data:    append([]byte(nil), data...),
		binary:  binary,
		mode:    mode,
		modTime: f.now(),
	}

	delta := f.keysCost(dirs) + next.size()
	if old, ok := f.entries[abs]; ok {
		delta -= old.size()
	} else {
		delta += utf16Len(abs)
	}
	if !f.fits(delta) {
		return wrap(op, p, ErrQuotaExceeded)
	}

	f.insertDirs(dirs)
	f.put(abs, next)
	return nil
}

// Mkdir creates the directory p. Without recursive it fails when p exists
// or its parent is missing; with recursive it creates every missing
// ancestor, succeeds on an existing directory and fails on an existing file.
func (f *FS) Mkdir(p string, recursive bool) error {
	abs, err := f.lookup(p, true, true)
	if err != nil {
		return wrap("mkdir", p, err)
	}

	if e, ok := f.entries[abs]; ok {
		switch {
		case !recursive:
			return wrap("mkdir", p, ErrExist)
		case e.kind != KindDir:
			return wrap("mkdir", p, ErrNotDir)
		}
		return nil
	}

	dirs, err := f.missingAncestors(abs)
	if err != nil {
		return wrap("mkdir", p, err)
	}
	if len(dirs) > 0 && !recursive {
		return wrap("mkdir", p, ErrNotFound)
	}

	dirs = append(dirs, abs)
	if !f.fits(f.keysCost(dirs)) {
		return wrap("mkdir", p, ErrQuotaExceeded)
	}
	f.insertDirs(dirs)
	return nil
}

// ReadDir returns the sorted names of the direct children of directory p.
func (f *FS) ReadDir(p string) ([]string, error) {
	entries, err := f.ReadDirEntries(p)
	if err != nil {
		return nil, err
	}
	return lo.Map(entries, func(e DirEntry, _ int) string { return e.Name }), nil
}

// ReadDirEntries is ReadDir with the kind of every child.
func (f *FS) ReadDirEntries(p string) ([]DirEntry, error) {
	abs, err := f.lookup(p, true, false)
	if err != nil {
		return nil, wrap("readdir", p, err)
	}
	if f.entries[abs].kind != KindDir {
		return nil, wrap("readdir", p, ErrNotDir)
	}

	var out []DirEntry
	for k, e := range f.entries {
		if vpath.ChildOf(k, abs) {
			out = append(out, DirEntry{Name: vpath.Base(k), Kind: e.kind})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
