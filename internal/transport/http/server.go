package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"sociopedia/internal/cache"
	"sociopedia/internal/config"
	"sociopedia/internal/database"
	"sociopedia/internal/handler"
	"sociopedia/internal/redis"
	"sociopedia/internal/repository"
	"sociopedia/internal/service"
	"sociopedia/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// Run wires configuration, storage and handlers, then serves until the
// process receives SIGINT or SIGTERM.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	client, db, err := database.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("[Server] Mongo disconnect: %v", err)
		}
	}()

	// 3. Optional revocation list
	var revoked cache.RevocationList
	if cfg.RedisURL != "" {
		rc, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		revoked = cache.NewRevocationList(rc.Client)
		log.Println("[Server] Token revocation enabled")
	} else {
		log.Println("[Server] REDIS_URL not set, logout will not revoke tokens")
	}

	// 4. Picture storage
	store, assetsDir, err := newStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}

	// 5. Wire layers
	userRepo := repository.NewUserRepository(db, cfg.MongoTransactions)
	postRepo := repository.NewPostRepository(db)

	authService := service.NewAuthService(cfg, revoked)
	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(postRepo, userRepo)
	mediaService := service.NewMediaService(store)

	router := NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, authService, mediaService, cfg.MaxBodyBytes),
		UserHandler:    handler.NewUserHandler(userService),
		PostHandler:    handler.NewPostHandler(postService, mediaService, cfg.MaxBodyBytes),
		Verifier:       authService,
		AssetsDir:      assetsDir,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 6. Serve
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("[Server] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newStorage picks the picture backend. The returned directory is served
// under /assets and is empty for remote backends.
func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, string, error) {
	switch cfg.StorageBackend {
	case config.StorageR2:
		r2, err := storage.NewR2Storage(ctx, cfg)
		if err != nil {
			return nil, "", err
		}
		log.Println("[Server] Storing pictures in R2")
		return r2, "", nil
	default:
		disk, err := storage.NewDiskStorage(cfg.AssetsDir)
		if err != nil {
			return nil, "", err
		}
		log.Printf("[Server] Storing pictures in %s", disk.Dir())
		return disk, disk.Dir(), nil
	}
}
