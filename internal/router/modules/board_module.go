package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blog-clean-architecture/internal/container"
	handlers "github.com/oksasatya/go-blog-clean-architecture/internal/interface/http"
	"github.com/oksasatya/go-blog-clean-architecture/internal/interface/middleware"
)

// BoardModule wires the board CRUD.
// Public: GET /api/boards, GET /api/boards/search, GET /api/boards/:id
// Protected: POST/PUT/DELETE plus image upload — all mutation is owner-gated
// inside the service, the middleware only establishes the principal.
type BoardModule struct {
	Handler *handlers.BoardHandler
}

func NewBoardModule(h *handlers.BoardHandler) *BoardModule {
	return &BoardModule{Handler: h}
}

func (m *BoardModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP())

	rg.GET("/boards", readLimiter, m.Handler.List)
	rg.GET("/boards/search", readLimiter, m.Handler.Search)
	rg.GET("/boards/:id", readLimiter, m.Handler.Get)

	auth := rg.Group("/")
	auth.Use(middleware.SessionAuth(container.GetSessions()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("/boards", m.Handler.Create)
		auth.PUT("/boards/:id", m.Handler.Update)
		auth.DELETE("/boards/:id", m.Handler.Delete)
		auth.POST("/boards/:id/image", m.Handler.UploadImage)
	}
}
