package handler

import (
	"encoding/json"
	"net/http"

	"sociopedia/internal/httputil"
	"sociopedia/internal/model"
	"sociopedia/internal/service"
	"sociopedia/internal/transport/http/middleware"
)

// AuthHandler groups auth-related HTTP endpoints and their dependencies.
type AuthHandler struct {
	userService  *service.UserService
	authService  *service.AuthService
	mediaService *service.MediaService
	maxBody      int64
}

// NewAuthHandler wires dependencies for authentication endpoints.
func NewAuthHandler(userService *service.UserService, authService *service.AuthService, mediaService *service.MediaService, maxBody int64) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		authService:  authService,
		mediaService: mediaService,
		maxBody:      maxBody,
	}
}

// Register handles multipart sign-up with an optional picture.
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r, h.maxBody) {
		return
	}

	picturePath, ok := savePicture(w, r, h.mediaService)
	if !ok {
		return
	}

	req := model.RegisterRequest{
		FirstName:   r.FormValue("firstName"),
		LastName:    r.FormValue("lastName"),
		Email:       r.FormValue("email"),
		Password:    r.FormValue("password"),
		Location:    r.FormValue("location"),
		Occupation:  r.FormValue("occupation"),
		PicturePath: picturePath,
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, "Register", err, "Failed to register")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}

// Login handles user login
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, "Login", err, "Failed to login")
		return
	}

	token, err := h.authService.Issue(user.ID.Hex())
	if err != nil {
		writeServiceError(w, "Login", err, "Failed to generate token")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.LoginResponse{
		User:      user,
		Token:     token,
		ExpiresIn: h.authService.ExpiresIn(),
	})
}

// Logout revokes the credential used for this request
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	if err := h.authService.Revoke(r.Context(), claims); err != nil {
		writeServiceError(w, "Logout", err, "Failed to logout")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// Me returns the currently authenticated user
// GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, "Me", err, "Failed to get user")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}
