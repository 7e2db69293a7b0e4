// Package server assembles the HTTP surface: the REST API, the scrapbook
// feed, and the health endpoint.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/memorykeeper/memorykeeper/internal/profile"
	"github.com/memorykeeper/memorykeeper/plugin/ai"
	apiv1 "github.com/memorykeeper/memorykeeper/server/router/api/v1"
	"github.com/memorykeeper/memorykeeper/server/router/rss"
	"github.com/memorykeeper/memorykeeper/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	apiService *apiv1.APIV1Service
	logger     *slog.Logger
}

func NewServer(ctx context.Context, p *profile.Profile, st *store.Store, logger *slog.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		Profile:    p,
		Store:      st,
		echoServer: e,
		logger:     logger,
	}

	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	e.Use(requestLogger(logger))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	var aiService *ai.OpenAIService
	if p.IsAIEnabled() {
		var err error
		aiService, err = ai.NewOpenAIService(ai.ConfigFromProfile(p), logger)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create ai service")
		}
		logger.Info("ai service enabled", slog.String("provider", p.AIProvider))
	} else {
		logger.Warn("ai service disabled, enrichment and games will degrade")
	}

	s.apiService = apiv1.NewAPIV1Service(p, st, aiService, logger)
	s.apiService.RegisterRoutes(e)
	rss.NewRSSService(p, st).RegisterRoutes(e)

	return s, nil
}

// Start serves until the context is canceled, then drains connections.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	s.logger.Info("server listening",
		slog.String("address", address),
		slog.String("mode", s.Profile.Mode),
		slog.String("version", s.Profile.Version))

	errCh := make(chan error, 1)
	go func() {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown drains in-flight requests and releases resources.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("failed to shut down server gracefully", slog.String("error", err.Error()))
	}
	s.apiService.Close()
	if err := s.Store.Close(); err != nil {
		s.logger.Error("failed to close store", slog.String("error", err.Error()))
	}
	s.logger.Info("server stopped")
	return nil
}

// requestLogger logs one line per request with the generated request ID.
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			logger.Info("http request",
				slog.String("request_id", v.RequestID),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency))
			return nil
		},
	})
}
