package model

import "errors"

// Error codes for credential failures
const (
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeTokenInvalid = "TOKEN_INVALID"
	CodeTokenRevoked = "TOKEN_REVOKED"
)

// Claims is what a verified credential proves.
type Claims struct {
	UserID    string
	TokenID   string
	ExpiresAt int64 // Unix seconds
}

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenRevoked = errors.New("token revoked")
)
