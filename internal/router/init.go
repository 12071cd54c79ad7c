package router

import (
	"github.com/laavis/dev-link/internal/application"
	"github.com/laavis/dev-link/internal/container"
	"github.com/laavis/dev-link/internal/infrastructure/mongodb"
	handlers "github.com/laavis/dev-link/internal/interface/http"
	"github.com/laavis/dev-link/internal/router/modules"
)

// InitModules builds services from container singletons and registers every
// feature module with the router registry. Call once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	db := container.GetMongo()

	users := mongodb.NewUserRepository(db, cfg.MongoOpTimeout)
	profiles := mongodb.NewProfileRepository(db, cfg.MongoOpTimeout)
	posts := mongodb.NewPostRepository(db, cfg.MongoOpTimeout)

	authSvc := application.NewAuthService(
		users,
		profiles,
		container.GetJWT(),
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetRabbitPub(),
		logger,
		cfg.MailSendEnabled,
	)
	profileSvc := application.NewProfileService(profiles, logger)
	postSvc := application.NewPostService(
		posts,
		container.GetRedis(),
		cfg.FeedCacheTTL,
		container.GetES(),
		cfg.ESPostsIndex,
		logger,
	)

	jwt := container.GetJWT()
	r.Add(modules.NewUserModule(handlers.NewAuthHandler(authSvc, logger), jwt))
	r.Add(modules.NewProfileModule(handlers.NewProfileHandler(profileSvc, authSvc, logger), jwt))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(postSvc, logger), jwt))
}
