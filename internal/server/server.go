// Package server exposes the chat service over HTTP and manages the
// process's runtime components: the echo router with its middleware and
// the scheduler for background maintenance tasks.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/solodev/sapphai/internal/chat"
	"github.com/solodev/sapphai/internal/config"
	"github.com/solodev/sapphai/internal/memory"
)

const shutdownTimeout = 10 * time.Second

// Server owns the HTTP listener and the background scheduler.
type Server struct {
	cfg       *config.Config
	chat      *chat.Service
	store     *memory.Store
	echo      *echo.Echo
	scheduler *Scheduler
	log       *slog.Logger
}

// New builds the router, middleware stack, and scheduler.
func New(cfg *config.Config, chatSvc *chat.Service, store *memory.Store, log *slog.Logger) *Server {
	s := &Server{
		cfg:   cfg,
		chat:  chatSvc,
		store: store,
		log:   log.With("component", "http_server"),
	}

	e := echo.New()
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.corsOrigins(),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	e.GET("/", s.handleRoot)
	e.GET("/health", s.handleHealth)
	e.GET("/api/about", s.handleAbout)
	e.GET("/api/docs", s.handleDocs)
	e.GET("/api/memory/:userId", s.handleGetMemory)
	e.DELETE("/api/memory/:userId", s.handleClearMemory)
	e.POST("/api/chat", s.handleChat, s.rateLimiter())

	if cfg.Server.StaticDir != "" {
		e.Static("/", cfg.Server.StaticDir)
	}

	s.echo = e
	s.scheduler = NewScheduler(log, cfg.Scheduler, RegisterTasks(TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}))

	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) corsOrigins() []string {
	// Development mirrors the permissive origin policy of a local setup;
	// production requires an explicit origin list.
	if s.cfg.Server.Environment == "development" || len(s.cfg.Server.CORSOrigins) == 0 {
		return []string{"*"}
	}
	return s.cfg.Server.CORSOrigins
}

func (s *Server) rateLimiter() echo.MiddlewareFunc {
	window := s.cfg.Server.RateLimitWindow
	limit := s.cfg.Server.RateLimitMax

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      float64(limit) / window.Seconds(),
			Burst:     limit,
			ExpiresIn: window,
		}),
		DenyHandler: func(c *echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error":   "Too many requests",
				"message": "Please try again later.",
			})
		},
	})
}

// Run starts the HTTP listener and the scheduler, blocking until the
// context is cancelled or a component fails.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("starting HTTP listener", "addr", addr, "environment", s.cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http listener failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.log.Info("shutdown signal received, stopping HTTP listener")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		if err := s.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		s.log.Info("shutdown signal received, stopping scheduler")

		if err := s.scheduler.Stop(); err != nil {
			s.log.Error("error stopping scheduler", "error", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
