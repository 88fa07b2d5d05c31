package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"sociopedia/internal/httputil"
	"sociopedia/internal/model"
)

// writeServiceError maps domain errors to responses. Anything unrecognised
// is logged with op and reported as a 500 with the fallback message.
func writeServiceError(w http.ResponseWriter, op string, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrValidation):
		httputil.WriteBadRequestWithCode(w, httputil.ErrCodeValidation, validationMessage(err))
	case errors.Is(err, model.ErrInvalidID):
		httputil.WriteBadRequest(w, "Invalid id")
	case errors.Is(err, model.ErrEmptyPost):
		httputil.WriteBadRequestWithCode(w, httputil.ErrCodeValidation, "A post needs a description or a picture")
	case errors.Is(err, model.ErrCannotFriendSelf):
		httputil.WriteBadRequest(w, "You cannot add yourself as a friend")
	case errors.Is(err, model.ErrInvalidFilename):
		httputil.WriteBadRequest(w, "Invalid picture filename")
	case errors.Is(err, model.ErrInvalidCredentials):
		httputil.WriteUnauthorized(w, "Invalid email or password")
	case errors.Is(err, model.ErrNotResourceOwner):
		httputil.WriteForbidden(w, "You can only change your own resources")
	case errors.Is(err, model.ErrUserNotFound):
		httputil.WriteNotFound(w, "User not found")
	case errors.Is(err, model.ErrPostNotFound):
		httputil.WriteNotFound(w, "Post not found")
	case errors.Is(err, model.ErrEmailExists):
		httputil.WriteConflict(w, "Email already exists")
	default:
		log.Printf("[ERROR] %s handler: %v", op, err)
		httputil.WriteInternalError(w, fallback)
	}
}

func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), model.ErrValidation.Error()+": ")
}
