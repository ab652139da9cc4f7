package server

import (
	"auction-engine/internal/auth"
	handler "auction-engine/services/bidding/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(biddingService handler.BiddingServiceInterface, authn *auth.Authenticator) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestIDMiddleware)     // correlate logs per request
	router.Use(RequestLoggerMiddleware) // custom request logging

	biddingHandler := handler.NewBiddingHandler(biddingService)

	api := router.Group("/api", authn.Middleware())
	{
		api.POST("/bid/place", biddingHandler.PlaceBidHandler)
		api.GET("/sales/:id", biddingHandler.GetSaleHandler)
		api.GET("/auth/me", biddingHandler.MeHandler)
	}

	return router
}
