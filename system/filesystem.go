// Package system abstracts the file access of configuration loading so tests can supply
// in-memory files.
package system

import (
	"io/fs"
	"os"
)

// VirtualFS is a read-only filesystem. Names are passed through as given so absolute paths work.
type VirtualFS interface {
	fs.FS
}

// FileSystem is the operating system's filesystem.
type FileSystem struct{}

var _ VirtualFS = (*FileSystem)(nil)

func (*FileSystem) Open(name string) (fs.File, error) {
	return os.Open(name) //nolint:gosec
}
