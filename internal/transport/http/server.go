package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "vidtube/internal/app"
	"vidtube/internal/bootstrap"
	"vidtube/internal/cache"
	"vidtube/internal/pkg/jwtutil"
	rabbitmqClient "vidtube/internal/platform/rabbitmq"
	"vidtube/internal/repository"
	"vidtube/internal/transport/http/handler"
	"vidtube/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	subRepo := repository.NewSubscriptionRepository(app.MySQL)
	watchRepo := repository.NewWatchRepository(app.MySQL)

	tokens := jwtutil.NewManager(
		app.Config.Auth.AccessTokenSecret,
		app.Config.Auth.RefreshTokenSecret,
		app.Config.AccessTokenTTL(),
		app.Config.RefreshTokenTTL(),
	)
	statsCache := cache.NewChannelStatsCache(
		app.Redis,
		time.Duration(app.Config.Redis.ChannelStatsTTLSeconds)*time.Second,
	)
	watchPublisher := rabbitmqClient.NewWatchPublisher(app.MQConn, app.Config.RabbitMQ.WatchPersistQueue)

	authService := appsvc.NewAuthService(userRepo, tokens, app.Media)
	profileService := appsvc.NewProfileService(userRepo, subRepo, watchRepo, app.Media, statsCache, watchPublisher)

	authHandler := handler.NewAuthHandler(authService, app.Config.Auth, app.Config.Media.TempDir)
	userHandler := handler.NewUserHandler(profileService, app.Config.Media.TempDir)

	v1 := router.Group("/api/v1")
	users := v1.Group("/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/refresh-token", authHandler.Refresh)
	users.GET("/channel/:username", middleware.OptionalAuthJWT(tokens), userHandler.Channel)

	authed := users.Group("")
	authed.Use(middleware.AuthJWT(tokens))
	authed.POST("/logout", authHandler.Logout)
	authed.POST("/change-password", authHandler.ChangePassword)
	authed.GET("/me", userHandler.Me)
	authed.PATCH("/update-account", userHandler.UpdateAccount)
	authed.PATCH("/avatar", userHandler.UpdateAvatar)
	authed.PATCH("/cover-image", userHandler.UpdateCoverImage)
	authed.POST("/subscriptions/:username", userHandler.ToggleSubscription)
	authed.POST("/history", userHandler.RecordWatch)
	authed.GET("/history", userHandler.History)

	return router
}
