package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"sociopedia/internal/model"
)

// Storage persists an uploaded picture under its original filename and
// returns the path clients should use for it: the bare name for disk
// (served under /assets) or the public URL for R2. A later upload with the
// same name replaces the earlier one.
type Storage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// cleanName strips any directory components from a client-supplied name.
func cleanName(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "" || base == "." || base == ".." || base == "/" {
		return "", model.ErrInvalidFilename
	}
	return base, nil
}
