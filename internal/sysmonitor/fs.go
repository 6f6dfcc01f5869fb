package sysmonitor

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem abstracts read access to the cgroup accounting files.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	Open(name string) (fs.File, error)
}

// OSFileSystem implements FileSystem using the os package.
// When Root is set, absolute names are resolved below it, which allows
// reading a cgroup hierarchy mounted at a non-standard location.
type OSFileSystem struct {
	Root string
}

func (f OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(f.resolve(name))
}

func (f OSFileSystem) Open(name string) (fs.File, error) {
	return os.Open(f.resolve(name))
}

func (f OSFileSystem) resolve(name string) string {
	if f.Root == "" {
		return name
	}
	return filepath.Join(f.Root, name)
}
