// Package cmd defines and implements the CLI commands for the termscout
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/termscout/termscout/internal/config"
	"github.com/termscout/termscout/internal/logging"
)

var cfgFile string

// runtime bundles the dependencies every command starts from.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
}

func setup() (*runtime, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Development, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return &runtime{cfg: cfg, logger: logger}, nil
}

func (rt *runtime) close() {
	_ = rt.logger.Sync()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "termscout",
		Short: "Discovers short, available, brandable domain names",
		Long: `termscout expands a list of seed words through translation, synonym
lookup and vowel elision, checks which resulting .com domains are
unregistered, and scores the available ones for brand potential. All
intermediate results are cached locally so interrupted runs resume
where they left off.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newResultsCmd())
	cmd.AddCommand(newSocialCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
