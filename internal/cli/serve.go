package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"callboard/internal/auth"
	"callboard/internal/database"
	"callboard/internal/handlers"
	"callboard/internal/jobs"
	"callboard/internal/repository"
	"callboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer func() {
			if err := database.Close(db); err != nil {
				log.Printf("Failed to close database: %v", err)
			}
		}()

		clock := clockwork.NewRealClock()

		// Initialize services
		repo := repository.NewRepository(db)
		predictionService := services.NewPredictionService(repo, clock)
		leaderboardService := services.NewLeaderboardService(repo)

		// Start expiry watcher
		watcher := jobs.NewExpiryWatcher(predictionService, cfg.Jobs.ExpiryWatchInterval, clock)
		if err := watcher.Start(); err != nil {
			return err
		}
		defer func() {
			if err := watcher.Stop(); err != nil {
				log.Printf("Failed to stop expiry watcher: %v", err)
			}
		}()

		var tokens *auth.TokenManager
		if cfg.Auth.Enabled() {
			tokens = auth.NewTokenManager(cfg.Auth.ResolverSecret)
			log.Println("Resolver authentication enabled")
		}

		gin.SetMode(cfg.Server.GinMode)
		router := handlers.NewRouter(handlers.RouterOptions{
			Predictions:    predictionService,
			Leaderboard:    leaderboardService,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Tokens:         tokens,
			Logger:         slog.New(slog.NewJSONHandler(os.Stdout, nil)),
		})

		srv := &http.Server{
			Addr:    ":" + cfg.Server.Port,
			Handler: router,
		}

		serverErr := make(chan error, 1)
		go func() {
			log.Printf("Server starting on port %s", cfg.Server.Port)
			log.Printf("Health check: http://localhost:%s/healthz", cfg.Server.Port)

			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()

		// Wait for interrupt signal to gracefully shutdown the server
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-serverErr:
			return fmt.Errorf("server error: %w", err)
		case <-quit:
		}

		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Println("Server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
