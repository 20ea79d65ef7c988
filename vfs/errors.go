package vfs

import (
	"errors"
	"io/fs"
)

// Sentinel errors. ErrNotFound, ErrExist and ErrInvalid alias their io/fs
// counterparts so errors.Is works with either.
var (
	ErrNotFound      = fs.ErrNotExist
	ErrExist         = fs.ErrExist
	ErrInvalid       = fs.ErrInvalid
	ErrIsDir         = errors.New("is a directory")
	ErrNotDir        = errors.New("not a directory")
	ErrNotEmpty      = errors.New("directory not empty")
	ErrTooManyLinks  = errors.New("too many levels of symbolic links")
	ErrQuotaExceeded = errors.New("filesystem size limit exceeded")
)

// PathError records a failed operation and the path it was applied to.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return "vfs: " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &PathError{Op: op, Path: path, Err: err}
}
