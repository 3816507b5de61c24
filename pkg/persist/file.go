package persist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// File stores every key as <dir>/<key>.json
type File struct {
	dir string
}

func InDir(dir string) *File {
	return &File{dir}
}

func (f File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f File) Get(_ context.Context, key string) ([]byte, error) {
	bs, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return bs, err
}

// Put replaces the file atomically, a crash mid-write leaves the old blob in place
func (f File) Put(_ context.Context, key string, data []byte) error {
	if err := os.MkdirAll(f.dir, 0700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path(key))
}
