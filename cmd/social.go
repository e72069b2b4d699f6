package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/termscout/termscout/internal/providers/social"
	"github.com/termscout/termscout/internal/report"
	"github.com/termscout/termscout/internal/words"
)

func newSocialCmd() *cobra.Command {
	var timeoutSeconds int

	cmd := &cobra.Command{
		Use:   "social <name>",
		Short: "Checks whether a handle is free on the major platforms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup()
			if err != nil {
				return err
			}
			defer rt.close()

			name := words.Normalize(args[0])
			if name == "" {
				return fmt.Errorf("%q normalizes to nothing checkable", args[0])
			}

			checker := social.New(nil, time.Duration(timeoutSeconds)*time.Second, rt.logger)
			results := checker.Check(cmd.Context(), name)
			if err := report.Social(cmd.OutOrStdout(), name, results); err != nil {
				return err
			}
			if !social.AllAvailable(results) {
				return fmt.Errorf("%q is taken on at least one platform", name)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 10, "per-platform probe timeout in seconds")

	return cmd
}
