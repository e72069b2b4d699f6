package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/termscout/termscout/internal/api"
	"github.com/termscout/termscout/internal/metrics"
	"github.com/termscout/termscout/internal/pipeline"
	"github.com/termscout/termscout/internal/progress"
	"github.com/termscout/termscout/internal/providers/dnscheck"
	"github.com/termscout/termscout/internal/providers/llm"
	"github.com/termscout/termscout/internal/providers/translate"
	"github.com/termscout/termscout/internal/providers/whois"
	"github.com/termscout/termscout/internal/store/sqlite"
	"github.com/termscout/termscout/internal/words"
)

func newRunCmd() *cobra.Command {
	var minLength, maxLength int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Runs the discovery pipeline until it converges",
		Long: `Seeds the pipeline from the configured word list and processes it
through translation, synonyms, webification, availability checks and
rating. The run ends when every queue has drained, or on Ctrl-C; cached
progress survives either way.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup()
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.cfg.ValidateRun(); err != nil {
				return err
			}
			if cmd.Flags().Changed("min") {
				rt.cfg.Pipeline.MinLength = minLength
			}
			if cmd.Flags().Changed("max") {
				rt.cfg.Pipeline.MaxLength = maxLength
			}
			if err := rt.cfg.Validate(); err != nil {
				return err
			}

			return runPipeline(cmd.Context(), rt)
		},
	}

	cmd.Flags().IntVar(&minLength, "min", 0, "minimum candidate length (overrides config)")
	cmd.Flags().IntVar(&maxLength, "max", 0, "maximum candidate length (overrides config)")

	return cmd
}

func runPipeline(parent context.Context, rt *runtime) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	store, err := sqlite.Open(rt.cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			rt.logger.Warn("cache close failed", zap.Error(cerr))
		}
	}()

	hub := progress.NewHub(rt.logger, progress.NewLogSink(rt.logger), progress.NewMetricsSink())
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		hub.Close(closeCtx)
	}()

	cfg := rt.cfg
	driver := pipeline.New(
		pipeline.Config{
			MinLength:           cfg.Pipeline.MinLength,
			MaxLength:           cfg.Pipeline.MaxLength,
			WordListPath:        cfg.Pipeline.WordList,
			CallTimeout:         cfg.CallTimeout(),
			TranslationPause:    time.Duration(cfg.Pipeline.TranslationPauseMs) * time.Millisecond,
			SynonymPause:        time.Duration(cfg.Pipeline.SynonymPauseMs) * time.Millisecond,
			WebificationPause:   time.Duration(cfg.Pipeline.WebificationPauseMs) * time.Millisecond,
			AvailabilityPause:   time.Duration(cfg.Pipeline.AvailabilityPauseMs) * time.Millisecond,
			RatingPause:         time.Duration(cfg.Pipeline.RatingPauseMs) * time.Millisecond,
			WatchInterval:       time.Duration(cfg.Pipeline.WatchIntervalSeconds) * time.Second,
			StatusInterval:      time.Duration(cfg.Pipeline.StatusIntervalSeconds) * time.Second,
			ConvergenceInterval: time.Duration(cfg.Pipeline.ConvergenceIntervalSeconds) * time.Second,
		},
		store,
		pipeline.Collaborators{
			Translator: translate.New(translate.Config{
				BaseURL: cfg.Translate.BaseURL,
				Timeout: time.Duration(cfg.Translate.TimeoutSeconds) * time.Second,
			}, rt.logger),
			Model: llm.New(llm.Config{
				BaseURL: cfg.LLM.BaseURL,
				APIKey:  cfg.LLM.APIKey,
				Model:   cfg.LLM.Model,
				Timeout: time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
			}, rt.logger),
			Resolver: dnscheck.New(time.Duration(cfg.DNS.TimeoutSeconds) * time.Second),
			Whois: whois.New(whois.Config{
				APIToken:  cfg.Cloudflare.APIToken,
				AccountID: cfg.Cloudflare.AccountID,
				Timeout:   time.Duration(cfg.Cloudflare.TimeoutSeconds) * time.Second,
			}, rt.logger),
		},
		words.Languages,
		rt.logger,
		hub,
	)

	group, groupCtx := errgroup.WithContext(ctx)
	runCtx, finished := context.WithCancel(groupCtx)

	group.Go(func() error {
		defer finished()
		return driver.Run(runCtx)
	})
	if cfg.Diagnostics.Enabled {
		server := api.NewServer(driver, store, rt.logger)
		group.Go(func() error {
			return server.Serve(runCtx, cfg.Diagnostics.Port)
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	rt.logger.Info("run finished", zap.String("run_id", driver.RunID().String()))
	return nil
}
