package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskStorage writes uploads into a single directory that is also served
// read-only under the static assets prefix.
type DiskStorage struct {
	dir string
}

func NewDiskStorage(dir string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create assets dir: %w", err)
	}
	return &DiskStorage{dir: dir}, nil
}

// Dir is the directory uploads are written to.
func (s *DiskStorage) Dir() string {
	return s.dir
}

func (s *DiskStorage) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	base, err := cleanName(name)
	if err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(s.dir, base))
	if err != nil {
		return "", fmt.Errorf("create %s: %w", base, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", base, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", base, err)
	}

	return base, nil
}
