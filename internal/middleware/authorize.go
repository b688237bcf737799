package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const LoginPath = "/login"

// RequireSession lets through requests that carry a session or target one of
// the public paths. Everything else is redirected to the login form.
func RequireSession(publicPaths ...string) gin.HandlerFunc {
	public := make(map[string]struct{}, len(publicPaths))
	for _, path := range publicPaths {
		public[path] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := public[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		if _, ok := CurrentSession(c); !ok {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		c.Next()
	}
}
