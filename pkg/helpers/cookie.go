package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the name of the cookie carrying the opaque session token.
const SessionCookie = "session_token"

type Manager struct {
	Domain string
	Secure bool
	TTL    time.Duration
}

func NewCookie(domain string, secure bool, ttl time.Duration) *Manager {
	return &Manager{Domain: domain, Secure: secure, TTL: ttl}
}

// SetSession stores the session token in an HttpOnly cookie.
func (m *Manager) SetSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(m.TTL.Seconds()), "/", m.Domain, m.Secure, true)
}

// ClearSession expires the session cookie.
func (m *Manager) ClearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", m.Domain, m.Secure, true)
}
