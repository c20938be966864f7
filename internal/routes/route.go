package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/rendez/internal/container"
	"github.com/joshua-takyi/rendez/internal/handlers"
	"github.com/joshua-takyi/rendez/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.Config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(middleware.Metrics(container.Metrics))
	r.Use(gin.Recovery())
	r.Use(middleware.Identity(container.IdentityService, container.Config.IsProduction(), container.Logger))

	r.GET("/metrics", gin.WrapH(container.Metrics.Handler()))

	secure := container.Config.IsProduction()

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "OK",
				"service": "rendez-api",
				"store":   container.Config.StoreBackend,
			})
		})

		v1.POST("/login", handlers.AuthenticateUser(container.IdentityService, secure))
		v1.POST("/logout", handlers.Logout(secure))
	}

	me := v1.Group("/me")
	me.Use(middleware.RequireAuth())
	{
		me.GET("", handlers.Me())
		me.GET("/rsvps", handlers.ListMyRSVPs(container.RSVPService))
		me.GET("/dashboard", handlers.MyDashboard(container.EventViewService))
	}

	venueRoutes := v1.Group("/venues")
	{
		venueRoutes.GET("", handlers.ListVenues(container.VenueService))
		venueRoutes.POST("", handlers.CreateVenueHandler(container.VenueService))
		venueRoutes.GET("/:id", handlers.GetVenueByID(container.VenueService))
		venueRoutes.GET("/:id/events", handlers.ListVenueEvents(container.VenueService, container.EventViewService))
	}

	eventRoutes := v1.Group("/events")
	{
		eventRoutes.GET("", handlers.ListEvents(container.EventViewService))
		eventRoutes.POST("", handlers.CreateEventHandler(container.EventService))
		eventRoutes.GET("/:id", handlers.GetEventByID(container.EventViewService))
		eventRoutes.PUT("/:id/rsvp", handlers.SubmitRSVP(container.RSVPService))
	}

	return r
}
