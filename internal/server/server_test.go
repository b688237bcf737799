package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawfinder/web/internal/catalog"
	"pawfinder/web/internal/config"
	"pawfinder/web/internal/handlers"
	"pawfinder/web/internal/models"
	"pawfinder/web/internal/service"
	"pawfinder/web/internal/web"
)

type noSessions struct{}

func (noSessions) Authenticate(context.Context, string) (models.Session, error) {
	return models.Session{}, service.ErrNotAuthenticated
}

type validToken struct{}

func (validToken) State() catalog.TokenState { return catalog.TokenValid }

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	views, err := web.Templates()
	require.NoError(t, err)

	cfg := &config.AppConfig{
		Environment: "test",
		Session:     config.SessionConfig{CookieName: "pawfinder_session", TTL: time.Hour},
	}
	ok := handlers.PingFunc(func(context.Context) error { return nil })
	h := handlers.NewHandlerSet(handlers.Deps{
		Log:         zerolog.New(io.Discard),
		Environment: cfg.Environment,
		Cookie:      SessionCookie(cfg.Session),
		Database:    ok,
		Cache:       ok,
		Tokens:      validToken{},
	})
	return NewHTTPServer(cfg, zerolog.New(io.Discard), views, noSessions{}, h)
}

func get(t *testing.T, srv *HTTPServer, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServer_PublicRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = get(t, srv, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pawfinder_http_requests_total")

	rec = get(t, srv, "/register")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_GateRedirectsAnonymous(t *testing.T) {
	srv := newTestServer(t)

	for _, target := range []string{"/discover", "/favorite", "/profile", "/unknown"} {
		rec := get(t, srv, target)
		assert.Equal(t, http.StatusFound, rec.Code, target)
		assert.Equal(t, "/login", rec.Header().Get("Location"), target)
	}
}
