package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sociopedia/internal/httputil"
	"sociopedia/internal/model"
	"sociopedia/internal/service"
	"sociopedia/internal/transport/http/middleware"
)

type PostHandler struct {
	postService  *service.PostService
	mediaService *service.MediaService
	maxBody      int64
}

func NewPostHandler(postService *service.PostService, mediaService *service.MediaService, maxBody int64) *PostHandler {
	return &PostHandler{
		postService:  postService,
		mediaService: mediaService,
		maxBody:      maxBody,
	}
}

// Create handles POST /posts
// Creates a new post for the authenticated user from a multipart form with
// a "description" field and an optional "picture" file.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	if !parseMultipart(w, r, h.maxBody) {
		return
	}

	picturePath, ok := savePicture(w, r, h.mediaService)
	if !ok {
		return
	}

	post, err := h.postService.Create(r.Context(), userID, model.CreatePostRequest{
		Description: r.FormValue("description"),
		PicturePath: picturePath,
	})
	if err != nil {
		writeServiceError(w, "CreatePost", err, "Failed to create post")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, post)
}

// Feed handles GET /posts
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.Feed(r.Context())
	if err != nil {
		writeServiceError(w, "Feed", err, "Failed to get posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, posts)
}

// FeedByUser handles GET /posts/{id} where id is the author.
func (h *PostHandler) FeedByUser(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.FeedByUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "FeedByUser", err, "Failed to get user posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, posts)
}

// GetByID handles GET /posts/{id}/detail
func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	post, err := h.postService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "GetPost", err, "Failed to get post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// ToggleLike handles PATCH /posts/{id}/like
// The liker is always the authenticated user.
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	post, err := h.postService.ToggleLike(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeServiceError(w, "ToggleLike", err, "Failed to update like")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}
