package router

import (
	"github.com/oksasatya/go-blog-clean-architecture/internal/application"
	"github.com/oksasatya/go-blog-clean-architecture/internal/container"
	pginfra "github.com/oksasatya/go-blog-clean-architecture/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/go-blog-clean-architecture/internal/interface/http"
	"github.com/oksasatya/go-blog-clean-architecture/internal/router/modules"
	"github.com/oksasatya/go-blog-clean-architecture/pkg/helpers"
)

// InitModules builds the services from the container singletons and registers
// every feature module with the router registry. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure, cfg.SessionTTL)

	userSvc := application.NewUserService(
		pginfra.NewUserTable(pool),
		container.GetSessions(),
		logger,
		container.GetRabbitPub(),
	)
	boardSvc := application.NewBoardService(
		pginfra.NewBoardTable(pool),
		logger,
		container.GetES(),
		cfg.ESBoardsIndex,
		container.GetGCS(),
		cfg.GCSBucket,
	)

	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger, cookies)))
	r.Add(modules.NewBoardModule(handlers.NewBoardHandler(boardSvc, logger)))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
