package project

import (
	"errors"
	"io/fs"
	"os"

	"github.com/vbuild-dev/vbuild/filesystem"
	"github.com/vbuild-dev/vbuild/vfs"
)

// Load reads the snapshot at path from the host filesystem. A missing
// snapshot yields an empty filesystem.
func Load(path string, opts ...vfs.Option) (*vfs.FS, error) {
	var snap map[string]string
	if err := filesystem.ReadJSON(path, &snap); err != nil {
		if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
			return vfs.New(opts...), nil
		}
		return nil, err
	}
	return vfs.FromSnapshot(snap, opts...)
}

// Save writes a snapshot of f to path on the host filesystem.
func Save(f *vfs.FS, path string) error {
	return filesystem.WriteJSON(path, f.Snapshot())
}
