package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	handlers "github.com/shiv90154/CarrerPath-sub002/internal/adapter/handler/http"
	"github.com/shiv90154/CarrerPath-sub002/internal/config"
	"github.com/shiv90154/CarrerPath-sub002/internal/middleware/auth"
	"github.com/shiv90154/CarrerPath-sub002/internal/usecase"
	pkgerrors "github.com/shiv90154/CarrerPath-sub002/pkg/errors"
	"github.com/shiv90154/CarrerPath-sub002/pkg/logger"
	"go.uber.org/zap"
)

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	usecases *usecase.UseCases
	gatherer prometheus.Gatherer
}

// NewServer builds the echo instance. registry receives the HTTP metrics and
// is served on /metrics.
func NewServer(cfg *config.Config, log *zap.Logger, usecases *usecase.UseCases, registry *prometheus.Registry) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewRequestValidator()
	e.HTTPErrorHandler = newErrorHandler(log)
	logger.WithEchoLogger(e, log)

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.CORS.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "payment",
		Subsystem:  "http",
		Registerer: registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
	}))

	s := &Server{
		config:   cfg,
		logger:   log,
		echo:     e,
		usecases: usecases,
		gatherer: registry,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})
	s.echo.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: s.gatherer,
	}))

	// Initialize handlers
	orderHandler := handlers.NewOrderHandler(s.usecases.Workflow, s.usecases.Orders, s.logger)
	proofHandler := handlers.NewProofHandler(s.usecases.Proofs, s.logger)
	decisionHandler := handlers.NewDecisionHandler(s.usecases.Approvals, s.logger)
	entitlementHandler := handlers.NewEntitlementHandler(s.usecases.Grantor, s.logger)

	// JWT middleware configuration
	jwtConfig := auth.JWTConfig{
		Secret:    s.config.JWT.Secret,
		AdminRole: s.config.JWT.AdminRole,
		Logger:    s.logger,
	}

	// API v1 routes, all authenticated
	v1 := s.echo.Group("/api/v1", auth.JWTMiddleware(jwtConfig))

	orders := v1.Group("/orders")
	orders.POST("", orderHandler.CreateOrder)
	orders.GET("", orderHandler.ListOrders)
	orders.GET("/:id", orderHandler.GetOrder)
	orders.GET("/:id/status", orderHandler.GetStatus)
	orders.GET("/:id/history", orderHandler.GetHistory)
	orders.POST("/:id/proof", proofHandler.UploadProof)
	orders.GET("/:id/proof", proofHandler.GetProof)
	orders.POST("/:id/decision", decisionHandler.Decide)

	v1.GET("/entitlements", entitlementHandler.ListEntitlements)
}

// newErrorHandler renders errors that reach echo (unknown routes, RequireAuth,
// panics turned into errors by Recover) as ErrorResponse JSON.
func newErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		httpErr := pkgerrors.ToHTTPError(err)
		if httpErr.Code >= http.StatusInternalServerError {
			pkgerrors.LogError(log, err, "Unhandled request error",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path))
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(httpErr.Code)
		} else {
			writeErr = c.JSON(httpErr.Code, pkgerrors.ToErrorResponse(httpErr))
		}
		if writeErr != nil {
			log.Error("Failed to write error response", zap.Error(writeErr))
		}
	}
}
