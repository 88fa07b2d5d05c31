package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sociopedia/internal/httputil"
	"sociopedia/internal/model"
	"sociopedia/internal/service"
	"sociopedia/internal/transport/http/middleware"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetUser handles GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := middleware.GetUserIDFromContext(r.Context())

	user, err := h.userService.GetProfile(r.Context(), chi.URLParam(r, "id"), viewerID)
	if err != nil {
		writeServiceError(w, "GetUser", err, "Failed to get user")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// GetFriends handles GET /users/{id}/friends
func (h *UserHandler) GetFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.userService.GetFriends(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "GetFriends", err, "Failed to get friends")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, friends)
}

// ToggleFriend handles PATCH /users/{id}/{friendId}
// Adds the friendship if absent, removes it otherwise, on both users.
func (h *UserHandler) ToggleFriend(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	pair, err := h.userService.ToggleFriend(r.Context(), callerID, chi.URLParam(r, "id"), chi.URLParam(r, "friendId"))
	if err != nil {
		writeServiceError(w, "ToggleFriend", err, "Failed to update friends")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pair)
}

// UpdateProfile handles PATCH /users/{id}
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), callerID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, "UpdateProfile", err, "Failed to update profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}
