package routes

import (
	"github.com/EGS-Tourist-Guide/event-service/internal/container"
	"github.com/EGS-Tourist-Guide/event-service/internal/handlers"
	"github.com/EGS-Tourist-Guide/event-service/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(c *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID", middleware.APIKeyHeader},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: false,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(c.Logger))
	r.Use(middleware.ErrorHandler(c.Logger))
	r.Use(gin.Recovery())

	v1 := r.Group("/v1")
	{
		v1.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(200, gin.H{
				"status":  "OK",
				"service": "event-service",
			})
		})

		// Key issuance stays open so new applications can bootstrap.
		v1.POST("/keys", handlers.CreateKey(c.KeyService))
		v1.PATCH("/keys", handlers.RevokeKey(c.KeyService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.APIKeyAuth(c.KeyService, c.Logger))

	eventRoutes := protected.Group("/events")
	{
		eventRoutes.POST("", handlers.CreateEvent(c.EventService))
		eventRoutes.GET("", handlers.ListEvents(c.EventService))
		eventRoutes.GET("/:uuid", handlers.GetEvent(c.EventService))
		eventRoutes.PATCH("/:uuid", handlers.UpdateEvent(c.EventService))
		eventRoutes.DELETE("/:uuid", handlers.DeleteEvent(c.EventService))
		eventRoutes.PATCH("/:uuid/favorite", handlers.FavoriteEvent(c.FavoriteService))
	}

	fileRoutes := protected.Group("/files")
	{
		fileRoutes.POST("/:uuid", handlers.UploadImage(c.EventService))
		fileRoutes.GET("/:uuid", handlers.DownloadImage(c.EventService))
		fileRoutes.DELETE("/:uuid", handlers.DeleteImage(c.EventService))
	}

	return r
}
