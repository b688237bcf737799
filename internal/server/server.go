package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pawfinder/web/internal/config"
	"pawfinder/web/internal/handlers"
	"pawfinder/web/internal/metrics"
	"pawfinder/web/internal/middleware"
)

type HTTPServer struct {
	engine *gin.Engine
	server *http.Server
	log    zerolog.Logger
}

// NewHTTPServer assembles the middleware chain and routes. sessions resolves
// the session cookie ahead of the login gate.
func NewHTTPServer(
	cfg *config.AppConfig,
	log zerolog.Logger,
	views *template.Template,
	sessions middleware.Authenticator,
	handlerSet handlers.HandlerSet,
) *HTTPServer {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.RedirectTrailingSlash = true
	engine.RedirectFixedPath = true
	engine.SetHTMLTemplate(views)

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.Metrics(),
		middleware.CORS(cfg.AllowCORSOrigins),
		middleware.Session(sessions, SessionCookie(cfg.Session), log),
		middleware.RequireSession(handlers.PublicPaths...),
	)

	engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	handlerSet.RegisterRoutes(engine)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &HTTPServer{
		engine: engine,
		server: srv,
		log:    log,
	}
}

func SessionCookie(cfg config.SessionConfig) middleware.SessionCookie {
	return middleware.SessionCookie{
		Name:   cfg.CookieName,
		TTL:    cfg.TTL,
		Secure: cfg.Secure,
	}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) Start() error {
	s.log.Info().
		Str("addr", s.server.Addr).
		Msg("http server starting")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.server.Shutdown(ctx)
}
