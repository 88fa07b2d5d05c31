package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"sociopedia/internal/storage"
)

// MediaService stores uploaded pictures through the configured backend.
type MediaService struct {
	store storage.Storage
}

func NewMediaService(store storage.Storage) *MediaService {
	return &MediaService{store: store}
}

// SavePicture stores the upload under its original filename and returns
// the picture path the backend hands back. There is no type or size check
// here; the request body cap is the only limit.
func (s *MediaService) SavePicture(ctx context.Context, file io.Reader, header *multipart.FileHeader) (string, error) {
	name, err := s.store.Save(ctx, header.Filename, file)
	if err != nil {
		return "", fmt.Errorf("save picture: %w", err)
	}
	return name, nil
}
