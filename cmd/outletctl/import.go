package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcdlocator/backend/internal/domain"
	"github.com/mcdlocator/backend/internal/usecase"
)

func newImportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import outlets from a JSON file",
		Long: `import reads a JSON array of outlets (the format written by
"outletctl scrape --output") and upserts them by name and address.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}

			var outlets []domain.Outlet
			if err := json.Unmarshal(data, &outlets); err != nil {
				return fmt.Errorf("parsing %s: %w", file, err)
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

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with an array of outlets")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
