package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/termscout/termscout/internal/report"
	"github.com/termscout/termscout/internal/store/sqlite"
)

func newResultsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Lists available names from the cache, best rated first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup()
			if err != nil {
				return err
			}
			defer rt.close()

			store, err := sqlite.Open(rt.cfg.DB.Path)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer func() {
				if cerr := store.Close(); cerr != nil {
					rt.logger.Warn("cache close failed", zap.Error(cerr))
				}
			}()

			results, err := store.RankedResults(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read results: %w", err)
			}
			if err := report.Ranked(cmd.OutOrStdout(), results); err != nil {
				return err
			}

			counts, err := store.CacheCounts(cmd.Context())
			if err != nil {
				return fmt.Errorf("read cache counts: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return report.CacheSummary(cmd.OutOrStdout(), counts)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of names to list")

	return cmd
}
