package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"cyberscribe/internal/config"
	"cyberscribe/internal/pipeline"
	"cyberscribe/internal/posts"
	"cyberscribe/internal/store"
)

// Server is the HTTP front end: public read endpoints for posts and
// images, a login gate, and the authenticated generation endpoints.
type Server struct {
	cfg      *config.Config
	pipe     *pipeline.Pipeline
	posts    *posts.Store
	runs     *store.RunLog
	sessions *sessions
	log      *slog.Logger
	httpSrv  *http.Server
}

// New creates the server and its router.
func New(cfg *config.Config, pipe *pipeline.Pipeline, postStore *posts.Store, runs *store.RunLog, log *slog.Logger) *Server {
	srv := &Server{
		cfg:      cfg,
		pipe:     pipe,
		posts:    postStore,
		runs:     runs,
		sessions: newSessions(cfg.Auth),
		log:      log,
	}

	srv.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      srv.router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return srv
}

func (srv *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Generation calls are slow; the timeout tracks the write timeout
	// rather than a typical request budget.
	r.Use(middleware.Timeout(srv.cfg.Server.WriteTimeout))

	if srv.cfg.Server.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   srv.cfg.Server.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", srv.handleHealth)
	r.Get("/posts", srv.handleListPosts)
	r.Get("/posts/{slug}", srv.handleGetPost)
	r.Get("/images/{slug}/{filename}", srv.handleImage)
	r.Post("/api/login", srv.handleLogin)
	r.Get("/api/logout", srv.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(srv.sessions.require)
		r.Post("/generate", srv.handleGenerate)
		r.Post("/find-and-generate", srv.handleFindAndGenerate)
		r.Post("/research-and-generate", srv.handleResearchAndGenerate)
		r.Get("/api/runs", srv.handleRuns)
	})

	if info, err := os.Stat(srv.cfg.Server.StaticDir); err == nil && info.IsDir() {
		r.Handle("/*", http.FileServer(http.Dir(srv.cfg.Server.StaticDir)))
	}

	return r
}

// Start runs the HTTP server until it is shut down or fails.
func (srv *Server) Start() error {
	srv.log.Info("Server listening",
		"addr", srv.httpSrv.Addr,
		"posts", len(srv.posts.List()),
		"dataDir", srv.posts.Dir(),
	)

	if err := srv.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (srv *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return srv.httpSrv.Shutdown(shutdownCtx)
}
