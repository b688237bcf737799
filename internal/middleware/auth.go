package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pawfinder/web/internal/models"
	"pawfinder/web/internal/service"
)

const sessionContextKey = "session"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Session, error)
}

// SessionCookie describes the cookie that carries the signed session token.
type SessionCookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

func (sc SessionCookie) Set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sc.Name, token, int(sc.TTL.Seconds()), "/", "", sc.Secure, true)
}

func (sc SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sc.Name, "", -1, "/", "", sc.Secure, true)
}

// Session resolves the session cookie, if any. Requests whose cookie does not
// resolve to a live session continue anonymously; a rejected cookie is cleared.
func Session(auth Authenticator, cookie SessionCookie, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookie.Name)
		if err != nil || token == "" {
			c.Next()
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrNotAuthenticated) {
				log.Debug().Err(err).
					Str("request_id", c.Writer.Header().Get(requestIDHeader)).
					Msg("session cookie rejected")
				cookie.Clear(c)
			} else {
				// The cookie may still be good once the store is back.
				log.Error().Err(err).
					Str("request_id", c.Writer.Header().Get(requestIDHeader)).
					Msg("session lookup failed")
			}
			c.Next()
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// CurrentSession returns the session attached by Session.
func CurrentSession(c *gin.Context) (models.Session, bool) {
	val, exists := c.Get(sessionContextKey)
	if !exists {
		return models.Session{}, false
	}
	session, ok := val.(models.Session)
	return session, ok
}
