// Package server exposes the planning and audit services over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/opsassist/internal/config"
	"github.com/alexanderramin/opsassist/internal/service"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg      config.ServerConfig
	planning service.PlanningService
	audits   service.AuditService
	logger   *slog.Logger
	engine   *gin.Engine
}

// New builds the router. audits may be backed by a disabled index, in which
// case the audit routes answer 503.
func New(cfg config.ServerConfig, planning service.PlanningService, audits service.AuditService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		cfg:      cfg,
		planning: planning,
		audits:   audits,
		logger:   logger,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(recoveryMiddleware(s.logger))
	r.Use(serviceHeaderMiddleware())
	r.Use(corsMiddleware(s.cfg.CORSOrigins))
	if s.cfg.RateLimitRPS > 0 {
		r.Use(rateLimitMiddleware(newClientLimiters(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst), s.logger))
	}
	r.Use(accessLogMiddleware(s.logger))

	r.GET("/", s.handleRoot)
	r.HEAD("/", s.handleRoot)
	r.GET("/health", s.handleHealth)
	r.HEAD("/health", s.handleHealth)
	r.POST("/plan", s.handlePlan)
	r.GET("/audit", s.handleAuditList)
	r.GET("/audit/:id", s.handleAuditShow)
	r.GET("/stats/intents", s.handleIntentStats)
	return r
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on cfg.Addr until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server_start", "addr", ln.Addr().String())
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

	s.logger.Info("server_shutdown", "addr", ln.Addr().String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
