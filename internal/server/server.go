// Package server exposes the wellness assistant over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/vibecheck/vibecheck/internal/assistant"
	"github.com/vibecheck/vibecheck/internal/metrics"
)

const (
	ServiceName = "wellness-assistant"
	Version     = "1.0.0"
)

// Client-facing error messages for rejected requests.
const (
	msgInvalidJSON      = "Invalid JSON"
	msgQuestionRequired = "Question is required"
)

// Querier answers a single wellness question.
type Querier interface {
	Query(ctx context.Context, question string) (string, error)
}

type questionRequest struct {
	Question string `json:"question"`
}

type answerResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// Server is the echo application serving the assistant.
type Server struct {
	e       *echo.Echo
	q       Querier
	log     *zap.Logger
	metrics *metrics.Metrics
}

// New builds the router. logger and m may be nil.
func New(q Querier, logger *zap.Logger, m *metrics.Metrics) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{e: e, q: q, log: logger, metrics: m}

	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))
	e.Use(s.observe)

	e.GET("/", s.health)
	e.GET("/healthz", s.health)
	e.POST("/", s.ask)
	e.POST("/api/wellness", s.ask)
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	return s
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler { return s.e }

// Start listens on addr and blocks until the server stops. A clean shutdown
// returns nil.
func (s *Server) Start(addr string) error {
	s.log.Info("http server listening", zap.String("address", addr))
	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: start: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Version: Version,
	})
}

func (s *Server) ask(c echo.Context) error {
	var req questionRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidJSON})
	}

	answer, err := s.q.Query(c.Request().Context(), req.Question)
	switch {
	case errors.Is(err, assistant.ErrEmptyQuestion):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: msgQuestionRequired})
	case err != nil:
		s.log.Error("query failed",
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, answerResponse{Response: answer})
}

// handleError renders echo's own errors (404, 405) with the same JSON shape.
func (s *Server) handleError(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
	}
	if !c.Response().Committed {
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		req := c.Request()
		status := c.Response().Status
		elapsed := time.Since(start)

		// Unmatched routes share one label to keep cardinality bounded.
		path := c.Path()
		if path == "" {
			path = "unmatched"
		}
		if s.metrics != nil {
			s.metrics.ObserveHTTP(req.Method, path, status, elapsed.Seconds())
		}
		s.log.Info("request",
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", elapsed))
		return nil
	}
}
