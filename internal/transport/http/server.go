package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tutorchat/internal/bootstrap"
	"tutorchat/internal/transport/http/handler"
	"tutorchat/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	// Any origin may call the API; the frontend is served from wherever.
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	router.StaticFile("/", "web/index.html")
	router.GET("/health", handler.Health)

	authHandler := handler.NewAuthHandler(app.Auth)
	chatHandler := handler.NewChatHandler(app.Tutor)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	chatGroup := api.Group("/chat")
	chatGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	chatGroup.POST("", chatHandler.Ask)
	chatGroup.POST("/stream", chatHandler.AskStream)

	return router
}
