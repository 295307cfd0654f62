// Command outletctl manages the outlet database: schema migrations, scraping
// the store locator, importing outlet files and backfilling coordinates.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mcdlocator/backend/config"
	"github.com/mcdlocator/backend/internal/infrastructure/logging"
	"github.com/mcdlocator/backend/internal/infrastructure/storage"
)

var (
	// Global flags
	verbose    bool
	outputJSON bool

	// Configuration and logger
	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "outletctl",
	Short: "Manage the McDonald's outlet database",
	Long: `outletctl maintains the outlet store used by the locator API.

Typical first run:
  outletctl migrate
  outletctl scrape --state "Kuala Lumpur"
  outletctl geocode`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		format := "console"
		if outputJSON {
			format = "json"
		}

		logger = logging.New(logging.Config{
			Level:       level,
			Format:      format,
			Output:      os.Stderr,
			ServiceName: "outletctl",
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "log in JSON format")

	rootCmd.AddCommand(
		newMigrateCmd(),
		newScrapeCmd(),
		newImportCmd(),
		newGeocodeCmd(),
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// openStore opens and migrates the configured outlet store
func openStore(ctx context.Context) (*storage.Store, error) {
	store, err := storage.Open(ctx, storage.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN})
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return store, nil
}
