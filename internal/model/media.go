package model

import "errors"

// PictureField is the single multipart file field accepted on uploads.
const PictureField = "picture"

// Error codes for HTTP responses
const (
	CodeFileTooLarge = "FILE_TOO_LARGE"
)

var ErrInvalidFilename = errors.New("invalid filename")
