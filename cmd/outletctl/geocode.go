package main

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mcdlocator/backend/internal/domain"
	"github.com/mcdlocator/backend/internal/infrastructure/nominatim"
	"github.com/mcdlocator/backend/internal/usecase"
)

func newGeocodeCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "geocode",
		Short: "Fill in missing outlet coordinates from OpenStreetMap",
		Long: `geocode looks up every outlet without a latitude or longitude through
Nominatim, stores the coordinates and regenerates the Waze link.
Requests are throttled to geocoder.requests_per_second (1 by default).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			geocoder := nominatim.NewClient(nominatim.Config{
				BaseURL:   cfg.Geocoder.BaseURL,
				UserAgent: cfg.Geocoder.UserAgent,
				Interval:  time.Duration(float64(time.Second) / cfg.Geocoder.RequestsPerSecond),
			}, logger)
			service := usecase.NewGeocodeService(store.Outlets(), geocoder, logger)

			pending, err := service.Pending(ctx)
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Println("All outlets already have coordinates.")
				return nil
			}

			if dryRun {
				for _, o := range pending {
					fmt.Printf("%d\t%s\t%s\n", o.ID, o.Name, o.Address)
				}
				fmt.Printf("%d outlets need geocoding\n", len(pending))
				return nil
			}

			bar := newProgressBar(len(pending), "Geocoding")
			stats, err := service.Backfill(ctx, func(outlet domain.Outlet, err error) {
				_ = bar.Add(1)
			})
			_ = bar.Finish()
			if err != nil {
				return err
			}

			fmt.Printf("Geocoded: %d  Failed: %d  Total: %d  (%s)\n",
				stats.Geocoded, stats.Failed, stats.Total, stats.Elapsed.Round(time.Second))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list outlets missing coordinates without geocoding")

	return cmd
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}
