package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"folio/app/config"
	"folio/app/controllers"
	"folio/app/logger"
	"folio/app/repositories"
	"folio/app/routes"
	"folio/app/services"
)

// ShutdownTimeout bounds how long in-flight requests may run after a stop signal.
const ShutdownTimeout = 10 * time.Second

// App holds the wired storage, services and router for one configuration.
type App struct {
	Config   *config.Config
	DB       *badger.DB
	Posts    *services.PostService
	Articles *services.PostService
	Media    *services.MediaService
	Router   http.Handler
}

// NewApp opens the content directories and the media index and builds the router.
func NewApp(cfg *config.Config) (*App, error) {
	postRepo, err := repositories.NewFilePostRepository(cfg.Content.Dir)
	if err != nil {
		return nil, err
	}
	articleRepo, err := repositories.NewFilePostRepository(cfg.Content.ArticlesDir)
	if err != nil {
		return nil, err
	}

	db, err := openMediaIndex(cfg)
	if err != nil {
		return nil, err
	}

	postService := services.NewPostService(postRepo)
	articleService := services.NewPostService(articleRepo)
	mediaService := services.NewMediaService(repositories.NewBadgerMediaRepository(db), services.MediaOptions{
		Dir:       cfg.Uploads.Dir,
		URLPrefix: cfg.Uploads.URLPrefix,
		MaxBytes:  cfg.Uploads.MaxBytes,
	})

	router := routes.SetupRoutes(routes.Dependencies{
		Posts:         controllers.NewPostController(postService, cfg.Site.URL),
		Media:         controllers.NewMediaController(mediaService),
		Articles:      controllers.NewArticleController(articleService, cfg.Site.URL),
		UploadsDir:    cfg.Uploads.Dir,
		UploadsPrefix: cfg.Uploads.URLPrefix,
	})

	return &App{
		Config:   cfg,
		DB:       db,
		Posts:    postService,
		Articles: articleService,
		Media:    mediaService,
		Router:   router,
	}, nil
}

// Close releases the media index.
func (a *App) Close() error {
	return a.DB.Close()
}

// RunAppServer serves the blog API until ctx is cancelled, then shuts down
// gracefully.
func RunAppServer(ctx context.Context, cfg *config.Config) error {
	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.Addr, err)
	}
	return serve(ctx, ln, app.Router)
}

func serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
