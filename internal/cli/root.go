package cli

import (
	"fmt"

	"callboard/internal/config"
	"callboard/internal/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var cfg *config.Config

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "callboard",
	Short: "CallBoard - prediction tracking API",
	Long: `CallBoard tracks predictions with a point stake and an expiry.

Predictions are resolved as success or fail once they expire, moving the
stake into or out of the owner's total, and a leaderboard ranks users by
accumulated points.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// openDatabase connects and migrates the configured database
func openDatabase() (*gorm.DB, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	return db, nil
}
