package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blog-clean-architecture/internal/session"
	"github.com/oksasatya/go-blog-clean-architecture/pkg/helpers"
	"github.com/oksasatya/go-blog-clean-architecture/pkg/response"
)

const (
	// CtxUserIDKey holds the authenticated principal's id (int64).
	CtxUserIDKey = "userID"
	// CtxTokenKey holds the raw session token for logout/resync.
	CtxTokenKey = "sessionToken"
	// CtxUsernameKey is a convenience for handlers and logs.
	CtxUsernameKey = "username"
)

// SessionAuth resolves the session cookie against the session store and
// injects the principal into the Gin context. Requests without a live session
// are rejected as unauthenticated before any handler runs.
func SessionAuth(sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookie)
		if err != nil || token == "" {
			resp := response.Error[any](c, http.StatusUnauthorized, "missing session", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		u, ok, err := sessions.Get(c.Request.Context(), token)
		if err != nil {
			resp := response.Error[any](c, http.StatusInternalServerError, "session lookup failed", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		if !ok {
			resp := response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}

		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxTokenKey, token)
		c.Set(CtxUsernameKey, u.Username)
		c.Next()
	}
}
