package handlers

import (
	"log/slog"
	"time"

	"callboard/internal/auth"
	"callboard/internal/middleware"
	"callboard/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterOptions wires the services and cross-cutting settings into the router
type RouterOptions struct {
	Predictions    *services.PredictionService
	Leaderboard    *services.LeaderboardService
	AllowedOrigins []string
	// Tokens enables resolver authentication when non-nil
	Tokens *auth.TokenManager
	Logger *slog.Logger
}

// NewRouter builds the gin engine serving the public API
func NewRouter(opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	if opts.Logger != nil {
		router.Use(middleware.Logging(opts.Logger))
	}
	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	predictionHandler := NewPredictionHandler(opts.Predictions)
	leaderboardHandler := NewLeaderboardHandler(opts.Leaderboard)

	router.GET("/healthz", Healthz)

	router.POST("/predictions", predictionHandler.CreatePrediction)
	router.GET("/predictions", predictionHandler.ListPredictions)

	resolve := []gin.HandlerFunc{predictionHandler.ResolvePrediction}
	if opts.Tokens != nil {
		resolve = append([]gin.HandlerFunc{auth.ResolverMiddleware(opts.Tokens)}, resolve...)
	}
	router.POST("/predictions/:id/resolve", resolve...)

	router.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
