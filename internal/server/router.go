package server

import (
	"studiobid/internal/metrics"
	"studiobid/internal/repository"
	handler "studiobid/services/studio/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Services is everything the router hands requests to
type Services struct {
	Listings handler.ListingServiceInterface
	Bidding  handler.BiddingServiceInterface
	Profiles handler.ProfileServiceInterface
	Auth     handler.AuthServiceInterface

	Sessions repository.SessionDB
	Session  SessionOptions

	// Metrics defaults to a no-op recorder. /metrics is only mounted when
	// Gatherer is set.
	Metrics  metrics.Recorder
	Gatherer prometheus.Gatherer
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(svc Services) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	rec := svc.Metrics
	if rec == nil {
		rec = metrics.Nop{}
	}

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging
	router.Use(MetricsMiddleware(rec))

	if svc.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(svc.Gatherer)))
	}

	listingHandler := handler.NewListingHandler(svc.Listings)
	biddingHandler := handler.NewBiddingHandler(svc.Bidding)
	profileHandler := handler.NewProfileHandler(svc.Profiles)
	authHandler := handler.NewAuthHandler(svc.Auth)

	app := router.Group("", SessionMiddleware(svc.Sessions, svc.Session))

	app.GET("/session", authHandler.SessionHandler)

	authRoutes := app.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.RegisterHandler)
		authRoutes.POST("/login", authHandler.LoginHandler)
		authRoutes.POST("/logout", authHandler.LogoutHandler)
	}

	listings := app.Group("/listings")
	{
		listings.GET("", listingHandler.ListListingsHandler)
		listings.GET("/more", listingHandler.LoadMoreHandler)
		listings.GET("/:id", listingHandler.GetListingHandler)
		listings.GET("/:id/bids", biddingHandler.GetBidsHandler)

		listings.POST("", RequireAuth, listingHandler.CreateListingHandler)
		listings.PUT("/:id", RequireAuth, listingHandler.UpdateListingHandler)
		listings.DELETE("/:id", RequireAuth, listingHandler.DeleteListingHandler)
		listings.POST("/:id/bids", RequireAuth, biddingHandler.PlaceBidHandler)
	}

	profiles := app.Group("/profiles", RequireAuth)
	{
		profiles.GET("/:name", profileHandler.GetProfileHandler)
		profiles.PUT("/:name", profileHandler.UpdateProfileHandler)
	}

	return router
}
