package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcdlocator/backend/internal/domain"
	"github.com/mcdlocator/backend/internal/infrastructure/scraper"
	"github.com/mcdlocator/backend/internal/usecase"
)

func newScrapeCmd() *cobra.Command {
	var (
		files     []string
		url       string
		state     string
		maxPages  int
		chrome    string
		noSandbox bool
		output    string
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Extract outlets from the store-locator and save them",
		Long: `scrape drives a headless Chrome through the store locator: it picks the
state (Kuala Lumpur by default), runs the search and follows every results
page. Saved copies of rendered results pages can be parsed instead with
--file, which may be repeated; --state then filters them by address.

Outlets are upserted by name and address. With --output the outlets are
written to a JSON file instead, ready for "outletctl import".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(files) > 0 && cmd.Flags().Changed("url") {
				return errors.New("use either --file or --url, not both")
			}
			if !cmd.Flags().Changed("state") {
				state = cfg.Scraper.State
			}

			var (
				outlets []domain.Outlet
				err     error
			)
			if len(files) > 0 {
				outlets, err = parseFiles(files)
				if err == nil && cmd.Flags().Changed("state") {
					outlets = scraper.FilterByState(outlets, state)
				}
			} else {
				outlets, err = renderLocator(ctx, scraperConfig(cmd, state, maxPages, chrome, noSandbox), urlOrDefault(url))
			}
			if err != nil {
				return err
			}
			logger.Info().Int("outlets", len(outlets)).Msg("parsed locator pages")

			if output != "" {
				return writeOutlets(output, outlets)
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := usecase.NewImportService(store.Outlets(), logger).Import(ctx, outlets)
			if err != nil {
				return err
			}
			printImportStats(stats)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "saved locator results page (repeatable)")
	cmd.Flags().StringVar(&url, "url", "", "locator page URL (default scraper.url)")
	cmd.Flags().StringVar(&state, "state", "", "state to search (default scraper.state); empty searches every state")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "stop after this many results pages (default scraper.max_pages)")
	cmd.Flags().StringVar(&chrome, "chrome", "", "Chrome executable (default scraper.chrome_path)")
	cmd.Flags().BoolVar(&noSandbox, "no-sandbox", false, "run Chrome without its sandbox, needed as root in containers")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write outlets to this JSON file instead of the database")

	return cmd
}

// scraperConfig merges command flags over the scraper configuration section
func scraperConfig(cmd *cobra.Command, state string, maxPages int, chrome string, noSandbox bool) scraper.RendererConfig {
	rc := scraper.RendererConfig{
		ChromePath:  cfg.Scraper.ChromePath,
		NoSandbox:   cfg.Scraper.NoSandbox,
		State:       state,
		PageTimeout: cfg.Scraper.PageTimeout,
		MaxPages:    cfg.Scraper.MaxPages,
	}
	if cmd.Flags().Changed("max-pages") {
		rc.MaxPages = maxPages
	}
	if chrome != "" {
		rc.ChromePath = chrome
	}
	if noSandbox {
		rc.NoSandbox = true
	}
	return rc
}

func urlOrDefault(url string) string {
	switch {
	case url != "":
		return url
	case cfg.Scraper.URL != "":
		return cfg.Scraper.URL
	default:
		return scraper.DefaultLocatorURL
	}
}

func renderLocator(ctx context.Context, rc scraper.RendererConfig, url string) ([]domain.Outlet, error) {
	logger.Info().Str("url", url).Str("state", rc.State).Msg("rendering locator")
	return scraper.NewRenderer(rc, logger).Scrape(ctx, url)
}

func parseFiles(paths []string) ([]domain.Outlet, error) {
	var outlets []domain.Outlet
	for _, path := range paths {
		found, err := parseFile(path)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("file", path).Int("outlets", len(found)).Msg("parsed page")
		outlets = append(outlets, found...)
	}
	return scraper.Unique(outlets), nil
}

func parseFile(path string) ([]domain.Outlet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return scraper.ParseLocatorPage(f)
}

func writeOutlets(path string, outlets []domain.Outlet) error {
	data, err := json.MarshalIndent(outlets, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding outlets: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logger.Info().Str("file", path).Int("outlets", len(outlets)).Msg("wrote outlets")
	return nil
}

func printImportStats(stats usecase.ImportStats) {
	fmt.Printf("Added: %d  Updated: %d  Skipped: %d\n", stats.Added, stats.Updated, stats.Skipped)
}
