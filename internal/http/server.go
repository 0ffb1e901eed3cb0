// Package http provides the webhook HTTP API for forecastd.
//
// The messaging transport in front of the daemon (whatever delivers user
// text) integrates through one endpoint: POST /v1/messages with a stable
// user id and the message text, answered with the ordered list of replies
// to send back.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/forecastd/internal/bot"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// Server exposes the bot over HTTP.
type Server struct {
	echo   *echo.Echo
	bot    *bot.Bot
	logger *zap.Logger
	config *Config
}

// NewServer creates the HTTP server. gatherer may be nil to disable the
// /metrics endpoint.
func NewServer(b *bot.Bot, gatherer prometheus.Gatherer, logger *zap.Logger, cfg *Config) (*Server, error) {
	if b == nil {
		return nil, fmt.Errorf("bot cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8480}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:   e,
		bot:    b,
		logger: logger,
		config: cfg,
	}
	s.registerRoutes(gatherer)
	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes(gatherer prometheus.Gatherer) {
	s.echo.GET("/health", s.handleHealth)
	if gatherer != nil {
		s.echo.GET("/metrics", echo.WrapHandler(
			promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.echo.Group("/v1")
	v1.POST("/messages", s.handleMessage)
}

// MessageRequest is the request body for POST /v1/messages.
type MessageRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

// MessageResponse is the response body for POST /v1/messages. Replies are
// sent to the user in order.
type MessageResponse struct {
	MessageID string   `json:"message_id"`
	Replies   []string `json:"replies"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleMessage runs one dialogue turn.
func (s *Server) handleMessage(c echo.Context) error {
	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid message request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id field is required")
	}
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
	}

	messageID := uuid.NewString()
	replies, err := s.bot.HandleMessage(c.Request().Context(), req.UserID, req.Text)
	if err != nil {
		s.logger.Error("message handling failed",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
		return echo.NewHTTPError(http.StatusInternalServerError, "message handling failed")
	}

	return c.JSON(http.StatusOK, MessageResponse{
		MessageID: messageID,
		Replies:   replies,
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
