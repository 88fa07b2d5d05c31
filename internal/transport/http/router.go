package http

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"sociopedia/internal/handler"
	"sociopedia/internal/httputil"
	authmw "sociopedia/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler *handler.AuthHandler
	UserHandler *handler.UserHandler
	PostHandler *handler.PostHandler
	Verifier    authmw.TokenVerifier
	// AssetsDir is served under /assets. Empty when uploads live in R2.
	AssetsDir string
	// AllowedOrigins turns on CORS for browser clients on other origins.
	AllowedOrigins []string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.AssetsDir != "" {
		assets := http.StripPrefix("/assets/", http.FileServer(noListingFS{http.Dir(cfg.AssetsDir)}))
		r.Get("/assets/*", assets.ServeHTTP)
	}

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.Verifier))

		r.Get("/me", cfg.AuthHandler.Me)
		r.Post("/auth/logout", cfg.AuthHandler.Logout)

		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/", cfg.UserHandler.GetUser)
			r.Patch("/", cfg.UserHandler.UpdateProfile)
			r.Get("/friends", cfg.UserHandler.GetFriends)
			r.Patch("/{friendId}", cfg.UserHandler.ToggleFriend)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", cfg.PostHandler.Feed)
			r.Post("/", cfg.PostHandler.Create)
			r.Get("/{id}", cfg.PostHandler.FeedByUser)
			r.Get("/{id}/detail", cfg.PostHandler.GetByID)
			r.Patch("/{id}/like", cfg.PostHandler.ToggleLike)
		})
	})

	return r
}

// noListingFS hides directory listings from the static file server.
type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		index, err := n.fs.Open(filepath.ToSlash(filepath.Join(name, "index.html")))
		if err != nil {
			f.Close()
			return nil, os.ErrNotExist
		}
		index.Close()
	}
	return f, nil
}
