// Package server exposes the dashboard pipeline as a JSON API.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/prdash/internal/service"
	"github.com/Veraticus/prdash/internal/viewmode"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Server serves negotiations and purchase requests over HTTP.
type Server struct {
	controller *viewmode.Controller
	approvals  service.ApprovalStore
	logger     *slog.Logger
	engine     *gin.Engine
}

// New builds the router. approvals may be nil, which disables the
// approval endpoint.
func New(controller *viewmode.Controller, approvals service.ApprovalStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		controller: controller,
		approvals:  approvals,
		logger:     logger,
		engine:     gin.New(),
	}
	s.engine.Use(gin.Recovery(), requestLogger(logger))
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")
	{
		api.GET("/negotiations", s.listNegotiations)
		api.GET("/negotiations/:id", s.getNegotiation)
		api.PUT("/negotiations/:id/approval", s.putApproval)
		api.GET("/purchase-requests", s.listPurchaseRequests)
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	return s.serve(ctx, s.newHTTPServer(addr), func(srv *http.Server) error {
		return srv.ListenAndServe()
	})
}

// ListenAndServeTLS is ListenAndServe over HTTPS with cert.
func (s *Server) ListenAndServeTLS(ctx context.Context, addr string, cert tls.Certificate) error {
	srv := s.newHTTPServer(addr)
	srv.TLSConfig = &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	return s.serve(ctx, srv, func(srv *http.Server) error {
		return srv.ListenAndServeTLS("", "")
	})
}

func (s *Server) newHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) serve(ctx context.Context, srv *http.Server, listen func(*http.Server) error) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr, "tls", srv.TLSConfig != nil)
		errCh <- listen(srv)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
