package vfs

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// BinaryPrefix marks base64-encoded binary content in a snapshot.
const BinaryPrefix = "data:application/octet-stream;base64,"

// Snapshot exports every file as path -> text. Directories are implicit in
// the paths and symlinks are not exported. Binary content is encoded with
// BinaryPrefix so the map survives a JSON round trip.
func (f *FS) Snapshot() map[string]string {
	out := make(map[string]string)
	for k, e := range f.entries {
		if e.kind != KindFile {
			continue
		}
		if e.binary {
			out[k] = BinaryPrefix + base64.StdEncoding.EncodeToString(e.data)
		} else {
			out[k] = string(e.data)
		}
	}
	return out
}

// FromSnapshot rebuilds a filesystem from a Snapshot result.
func FromSnapshot(snap map[string]string, opts ...Option) (*FS, error) {
	f := New(opts...)

	paths := lo.Keys(snap)
	sortPaths(paths)
	for _, p := range paths {
		if err := f.Restore(p, snap[p]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Restore writes one snapshot value to p, decoding binary content.
func (f *FS) Restore(p, value string) error {
	if !strings.HasPrefix(value, BinaryPrefix) {
		return f.write("restore", p, []byte(value), false)
	}

	data, err := base64.StdEncoding.DecodeString(value[len(BinaryPrefix):])
	if err != nil {
		return wrap("restore", p, fmt.Errorf("decode binary content: %w", err))
	}
	return f.write("restore", p, data, true)
}

func isText(data []byte) bool {
	return utf8.Valid(data)
}
