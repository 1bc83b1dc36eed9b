package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"

	"github.com/the-abed/event-flow-server/internal/transport/http/handler"
	"github.com/the-abed/event-flow-server/internal/transport/http/middleware"
)

type Deps struct {
	Logger       *slog.Logger
	AuthHandler  *handler.AuthHandler
	OAuthHandler *handler.OAuthHandler
	EventHandler *handler.EventHandler
	Tokens       middleware.TokenVerifier
	Readiness    middleware.Readiness
	HSTS         bool
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security(d.HSTS))
	r.Use(sloggin.New(d.Logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(d.Tokens)

	api := r.Group("/api", middleware.Ready(d.Readiness))

	api.POST("/register", d.AuthHandler.Register)
	api.POST("/login", d.AuthHandler.Login)
	api.GET("/auth/google", d.OAuthHandler.GoogleLogin)
	api.GET("/auth/google/callback", d.OAuthHandler.GoogleCallback)

	events := api.Group("/events")
	events.GET("", d.EventHandler.List)
	events.POST("", authMW, d.EventHandler.Create)
	events.GET("/my-events", authMW, d.EventHandler.ListMine)
	events.GET("/:id", d.EventHandler.GetByID)

	return r
}
