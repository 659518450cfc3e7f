package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blog-clean-architecture/internal/container"
	handlers "github.com/oksasatya/go-blog-clean-architecture/internal/interface/http"
	"github.com/oksasatya/go-blog-clean-architecture/internal/interface/middleware"
)

// UserModule wires the registration/authentication surface.
// Public: POST /api/register, POST /api/login
// Protected: POST /api/logout, GET /api/profile, PUT /api/profile/password
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.SessionAuth(container.GetSessions()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile/password", m.Handler.UpdatePassword)
	}
}
