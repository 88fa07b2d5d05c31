package handler

import (
	"errors"
	"net/http"
	"strings"

	"sociopedia/internal/httputil"
	"sociopedia/internal/model"
	"sociopedia/internal/service"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling file parts to temp files.
const multipartMemory = 8 << 20

// parseMultipart caps the body at maxBody and parses the form. It writes
// the error response itself and reports false on failure.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBody int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrNotMultipart):
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
		case errors.As(err, &maxErr), strings.Contains(err.Error(), "request body too large"):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Request body too large")
		default:
			httputil.WriteBadRequest(w, "Invalid form data")
		}
		return false
	}
	return true
}

// savePicture stores the optional "picture" part and returns its picture
// path, or "" when no file was sent.
func savePicture(w http.ResponseWriter, r *http.Request, media *service.MediaService) (string, bool) {
	file, header, err := r.FormFile(model.PictureField)
	if errors.Is(err, http.ErrMissingFile) {
		return "", true
	}
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid picture upload")
		return "", false
	}
	defer file.Close()

	name, err := media.SavePicture(r.Context(), file, header)
	if err != nil {
		writeServiceError(w, "SavePicture", err, "Failed to store picture")
		return "", false
	}
	return name, true
}
