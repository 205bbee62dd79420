package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/lancecummins/eatout/internal/config"
	"github.com/lancecummins/eatout/internal/handlers"
	"github.com/lancecummins/eatout/internal/places"
	"github.com/lancecummins/eatout/internal/security"
	"github.com/lancecummins/eatout/internal/services"
	_ "github.com/lancecummins/eatout/pb_migrations"
)

func main() {
	pb := pocketbase.New()

	cfg := config.Load()

	// External providers
	placesClient := places.NewClient(cfg.PlacesAPIKey)
	geocoder := places.NewGeocoder(cfg.GeocodingAPIKey)

	// Core services
	metrics := services.NewMetrics()
	hub := services.NewHub(metrics)
	selector := services.NewBatchSelector(0)
	sessionManager := services.NewSessionManager(pb, selector)
	responseManager := services.NewResponseManager(pb)
	recommender := services.NewRecommender(services.DefaultRecommendationOptions())

	// Event pipeline: store writes -> snapshot recompute -> hub broadcast
	notifier := services.NewNotifier(hub, sessionManager, responseManager, selector)
	notifier.Bind(pb)

	// Handlers
	sessionHandlers := handlers.NewSessionHandlers(sessionManager, responseManager, geocoder, hub)
	responseHandlers := handlers.NewResponseHandlers(sessionManager, responseManager, recommender)
	restaurantHandlers := handlers.NewRestaurantHandlers(sessionManager, responseManager, selector, placesClient, metrics)
	wsHandler := handlers.NewWSHandler(hub, sessionManager, security.NewOriginValidator(cfg.AllowedOrigins))

	go hub.Run()

	pb.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.POST("/api/eatout/sessions", sessionHandlers.CreateSession)
		se.Router.POST("/api/eatout/sessions/join", sessionHandlers.JoinSession)
		se.Router.GET("/api/eatout/sessions/{sessionId}", sessionHandlers.GetSession)
		se.Router.POST("/api/eatout/sessions/{sessionId}/favorites", sessionHandlers.AddFavorite)
		se.Router.DELETE("/api/eatout/sessions/{sessionId}/favorites", sessionHandlers.RemoveFavorite)
		se.Router.POST("/api/eatout/sessions/{sessionId}/winner", sessionHandlers.LockInWinner)

		se.Router.GET("/api/eatout/categories", responseHandlers.Categories)
		se.Router.GET("/api/eatout/sessions/{sessionId}/responses", responseHandlers.ListResponses)
		se.Router.GET("/api/eatout/sessions/{sessionId}/responses/{userId}", responseHandlers.GetResponse)
		se.Router.POST("/api/eatout/sessions/{sessionId}/eliminations/cuisines", responseHandlers.ToggleCuisine)
		se.Router.POST("/api/eatout/sessions/{sessionId}/eliminations/venues", responseHandlers.ToggleVenue)
		se.Router.POST("/api/eatout/sessions/{sessionId}/eliminations/restaurants", responseHandlers.ToggleRestaurant)
		se.Router.POST("/api/eatout/sessions/{sessionId}/stage", responseHandlers.SetStage)
		se.Router.GET("/api/eatout/sessions/{sessionId}/statistics", responseHandlers.Statistics)
		se.Router.GET("/api/eatout/sessions/{sessionId}/viable", responseHandlers.ViableCandidates)
		se.Router.GET("/api/eatout/sessions/{sessionId}/recommendations", responseHandlers.Recommendations)

		se.Router.GET("/api/eatout/sessions/{sessionId}/restaurants", restaurantHandlers.GetRestaurants)
		se.Router.GET("/api/eatout/photo", restaurantHandlers.PhotoURL)

		se.Router.GET("/ws/{sessionId}", wsHandler.HandleWebSocket)

		se.Router.GET("/api/eatout/metrics", handlers.HandleMetrics(hub))
		se.Router.GET("/api/eatout/health", handlers.HandleHealth(hub))

		return se.Next()
	})

	if err := pb.Start(); err != nil {
		log.Fatal(err)
	}
}
