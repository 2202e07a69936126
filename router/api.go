package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rayymaxx/CinePal/controller"
	"github.com/rayymaxx/CinePal/middleware"
)

func addBasicRouter(engine *gin.Engine) {
	engine.Use(gin.Recovery(), middleware.Logger)

	engine.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok", "service": "cinepal"})
	})
}

func addApiRouter(engine *gin.Engine) {

	// 认证相关 API
	authGroup := engine.Group("/auth")
	{
		authGroup.POST("/register", controller.Register)
		authGroup.POST("/token", controller.Login)
		authGroup.GET("/profile", middleware.Auth, controller.Profile)
	}

	// 对话相关 API
	api := engine.Group("/api", middleware.Auth)
	{
		api.POST("/chat", controller.Chat)
		api.GET("/chat/history", controller.ChatHistory)

		api.GET("/shows", controller.ResolveShow)
		api.POST("/shows/index", controller.IndexShow)
	}
}
