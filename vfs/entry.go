package vfs

import (
	"io/fs"
	"time"

	"github.com/vbuild-dev/vbuild/vpath"
)

// Kind discriminates the three entry variants.
type Kind uint8

const (
	KindFile Kind = iota
	KindDir
	KindSymlink
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// Default permission bits for new entries.
const (
	DefaultFileMode fs.FileMode = 0o644
	DefaultDirMode  fs.FileMode = 0o755
	SymlinkMode     fs.FileMode = 0o777
)

// entry is one node of the tree. Data is only meaningful for files and
// Target only for symlinks. Mode holds permission bits only.
type entry struct {
	kind    Kind
	data    []byte
	binary  bool
	target  string
	mode    fs.FileMode
	modTime time.Time
}

// size is the entry's contribution to the byte budget, excluding its key.
func (e *entry) size() int64 {
	switch e.kind {
	case KindFile:
		if e.binary {
			return int64(len(e.data))
		}
		return utf16Len(string(e.data))
	case KindSymlink:
		return utf16Len(e.target)
	default:
		return 0
	}
}

func (e *entry) clone() *entry {
	c := *e
	if e.data != nil {
		c.data = append([]byte(nil), e.data...)
	}
	return &c
}

// utf16Len counts UTF-16 code units, the unit the budget is expressed in.
func utf16Len(s string) int64 {
	var n int64
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// Info describes an entry. It implements fs.FileInfo.
type Info struct {
	path    string
	kind    Kind
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func newInfo(path string, e *entry) *Info {
	info := &Info{path: path, kind: e.kind, mode: e.mode, modTime: e.modTime}
	switch e.kind {
	case KindFile:
		info.size = int64(len(e.data))
	case KindSymlink:
		info.size = int64(len(e.target))
	}
	return info
}

// Path returns the canonical path the entry was found at.
func (i *Info) Path() string { return i.path }
func (i *Info) Name() string { return vpath.Base(i.path) }
func (i *Info) Kind() Kind { return i.kind }
func (i *Info) Size() int64 { return i.size }
func (i *Info) ModTime() time.Time { return i.modTime }
func (i *Info) IsDir() bool { return i.kind == KindDir }
func (i *Info) IsFile() bool { return i.kind == KindFile }
func (i *Info) IsSymlink() bool { return i.kind == KindSymlink }
func (i *Info) Sys() any { return nil }

// Mode returns the stored permission bits plus the type bits of the entry.
func (i *Info) Mode() fs.FileMode {
	switch i.kind {
	case KindDir:
		return i.mode | fs.ModeDir
	case KindSymlink:
		return i.mode | fs.ModeSymlink
	default:
		return i.mode
	}
}

// Perm returns only the stored permission bits.
func (i *Info) Perm() fs.FileMode { return i.mode }

// DirEntry is a listing element of ReadDirEntries.
type DirEntry struct {
	Name string
	Kind Kind
}
