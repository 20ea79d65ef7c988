// Package cache provides TTL-bound, file-per-key JSON caching on the host filesystem.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/vbuild-dev/vbuild/filesystem"
)

// TTL is the default lifetime of a cached entry.
const TTL = 7 * 24 * time.Hour

// Store keeps one JSON file per key under Dir.
type Store struct {
	Dir string
	TTL time.Duration
}

// New returns a store rooted at dir. A zero ttl falls back to TTL.
func New(dir string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = TTL
	}
	return &Store{Dir: dir, TTL: ttl}
}

// Key generates a deterministic SHA-256 identifier from its parts.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:])
}

// Read decodes the entry for key into target when it exists and has not expired.
func (s *Store) Read(key string, target any) bool {
	path := filepath.Join(s.Dir, key)

	info, err := filesystem.API().Stat(path)
	if err != nil || time.Since(info.ModTime()) > s.TTL {
		return false
	}

	f, err := filesystem.API().Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(target) == nil
}

// Write persists data under key with a temporary file swap.
func (s *Store) Write(key string, data any) error {
	if err := filesystem.API().MkdirAll(s.Dir, os.ModePerm); err != nil {
		return err
	}

	path := filepath.Join(s.Dir, key)
	tmpPath := path + ".tmp"

	f, err := filesystem.API().Create(tmpPath)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(f).Encode(data); err != nil {
		f.Close()
		return err
	}
	f.Close()

	return filesystem.API().Rename(tmpPath, path)
}

// CollectGarbage removes expired entries and returns how many were deleted.
func (s *Store) CollectGarbage() int {
	var removed int
	_ = afero.Walk(filesystem.API(), s.Dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if time.Since(info.ModTime()) > s.TTL {
			if filesystem.API().Remove(path) == nil {
				removed++
			}
		}
		return nil
	})
	return removed
}
