package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/termscout/termscout/internal/metrics"
	"github.com/termscout/termscout/internal/progress"
	"github.com/termscout/termscout/internal/queue"
	"github.com/termscout/termscout/internal/words"
)

// Config tunes a pipeline run. Pauses are inter-item sleeps per stage and
// exist to keep the external providers from throttling us.
type Config struct {
	MinLength    int
	MaxLength    int
	WordListPath string

	CallTimeout time.Duration

	TranslationPause  time.Duration
	SynonymPause      time.Duration
	WebificationPause time.Duration
	AvailabilityPause time.Duration
	RatingPause       time.Duration

	WatchInterval       time.Duration
	StatusInterval      time.Duration
	ConvergenceInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.MinLength <= 0 {
		c.MinLength = 3
	}
	if c.MaxLength <= 0 {
		c.MaxLength = 10
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 90 * time.Second
	}
	if c.WatchInterval <= 0 {
		c.WatchInterval = 30 * time.Second
	}
	if c.StatusInterval <= 0 {
		c.StatusInterval = 15 * time.Second
	}
	if c.ConvergenceInterval <= 0 {
		c.ConvergenceInterval = 10 * time.Second
	}
	return c
}

// Collaborators are the external services a run depends on.
type Collaborators struct {
	Translator TranslationProvider
	Model      LanguageModel
	Resolver   HostResolver
	Whois      WhoisProvider
}

// Driver owns the queues and the per-stage workers and runs the pipeline
// until every queue drains or the context is cancelled.
type Driver struct {
	cfg    Config
	logger *zap.Logger
	runID  uuid.UUID

	translateQ *queue.Queue[Word]
	synonymQ   *queue.Queue[Word]
	webifyQ    *queue.Queue[Translation]
	availQ     *queue.Queue[Word]
	ratingQ    *queue.Queue[Word]
	fabric     *queue.Fabric

	watcher      *watcher
	translator   *translator
	synonymizer  *synonymizer
	webifier     *webifier
	availability *availabilityChecker
	rater        *rater

	stats *Stats

	mu        sync.Mutex
	converged bool
	stopErr   error
}

// New wires queues, the candidate gate, and the five stage processors.
func New(cfg Config, store Store, collab Collaborators, languages []words.Language, logger *zap.Logger, emitter progress.Emitter) *Driver {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Driver{
		cfg:        cfg,
		logger:     logger,
		runID:      uuid.New(),
		translateQ: queue.New[Word]("translation"),
		synonymQ:   queue.New[Word]("synonym"),
		webifyQ:    queue.New[Translation]("webification"),
		availQ:     queue.New[Word]("availability"),
		ratingQ:    queue.New[Word]("rating"),
		stats:      &Stats{},
	}
	d.fabric = queue.NewFabric(d.translateQ, d.synonymQ, d.webifyQ, d.availQ, d.ratingQ)

	env := stageEnv{
		store:       store,
		logger:      logger,
		emitter:     emitter,
		runID:       d.runID,
		callTimeout: cfg.CallTimeout,
	}
	gate := newCandidateGate(cfg.MinLength, cfg.MaxLength, d.availQ, logger)

	d.watcher = newWatcher(cfg.WordListPath, d.translateQ, d.synonymQ, gate, env)
	d.translator = &translator{
		env:       env,
		provider:  collab.Translator,
		languages: languages,
		in:        d.translateQ,
		webifyOut: d.webifyQ,
		gate:      gate,
		counters:  &d.stats.Translation,
	}
	d.synonymizer = &synonymizer{
		env:       env,
		model:     collab.Model,
		in:        d.synonymQ,
		webifyOut: d.webifyQ,
		gate:      gate,
		counters:  &d.stats.Synonym,
	}
	d.webifier = &webifier{
		env:      env,
		model:    collab.Model,
		in:       d.webifyQ,
		gate:     gate,
		counters: &d.stats.Webification,
	}
	d.availability = &availabilityChecker{
		env:       env,
		resolver:  collab.Resolver,
		whois:     collab.Whois,
		in:        d.availQ,
		ratingOut: d.ratingQ,
		counters:  &d.stats.Availability,
	}
	d.rater = &rater{
		env:      env,
		model:    collab.Model,
		in:       d.ratingQ,
		counters: &d.stats.Rating,
	}
	return d
}

// QueueDepths reports the current depth of every queue by name.
func (d *Driver) QueueDepths() map[string]int { return d.fabric.Depths() }

// Snapshot reports per-stage counters.
func (d *Driver) Snapshot() map[string]StageSnapshot { return d.stats.Snapshot() }

// RunID identifies this run in progress events and logs.
func (d *Driver) RunID() uuid.UUID { return d.runID }

// Run seeds the pipeline from the word list and processes until every
// queue is empty and idle. It returns nil on convergence, the context
// error on cancellation, and the underlying error when the word list
// becomes unreadable mid-run. A missing word list at startup is fatal.
func (d *Driver) Run(ctx context.Context) error {
	if err := d.watcher.poll(ctx); err != nil {
		return fmt.Errorf("initial seed: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := func(converged bool, err error) {
		d.mu.Lock()
		if !d.converged && d.stopErr == nil {
			d.converged = converged
			d.stopErr = err
		}
		d.mu.Unlock()
		cancel()
	}

	schedule := cron.New()
	if _, err := schedule.AddFunc(every(d.cfg.WatchInterval), func() {
		if err := d.watcher.poll(runCtx); err != nil && runCtx.Err() == nil {
			d.logger.Error("word list poll failed", zap.Error(err))
			stop(false, err)
		}
	}); err != nil {
		return fmt.Errorf("schedule watcher: %w", err)
	}
	if _, err := schedule.AddFunc(every(d.cfg.StatusInterval), d.reportStatus); err != nil {
		return fmt.Errorf("schedule status report: %w", err)
	}
	if _, err := schedule.AddFunc(every(d.cfg.ConvergenceInterval), func() {
		if d.fabric.Idle() {
			d.logger.Info("all queues drained, stopping")
			stop(true, nil)
		}
	}); err != nil {
		return fmt.Errorf("schedule convergence check: %w", err)
	}
	schedule.Start()
	defer func() { <-schedule.Stop().Done() }()

	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(func() error { return d.translator.run(groupCtx, d.cfg.TranslationPause) })
	group.Go(func() error { return d.synonymizer.run(groupCtx, d.cfg.SynonymPause) })
	group.Go(func() error { return d.webifier.run(groupCtx, d.cfg.WebificationPause) })
	group.Go(func() error { return d.availability.run(groupCtx, d.cfg.AvailabilityPause) })
	group.Go(func() error { return d.rater.run(groupCtx, d.cfg.RatingPause) })

	d.logger.Info("pipeline started",
		zap.String("run_id", d.runID.String()),
		zap.String("word_list", d.cfg.WordListPath),
		zap.Int("min_length", d.cfg.MinLength),
		zap.Int("max_length", d.cfg.MaxLength),
	)

	// Workers only ever return their context error.
	_ = group.Wait()
	d.summarize()

	d.mu.Lock()
	converged, stopErr := d.converged, d.stopErr
	d.mu.Unlock()
	switch {
	case converged:
		return nil
	case stopErr != nil:
		return stopErr
	default:
		return ctx.Err()
	}
}

func (d *Driver) reportStatus() {
	depths := d.fabric.Depths()
	fields := make([]zap.Field, 0, len(depths)+1)
	fields = append(fields, zap.String("run_id", d.runID.String()))
	for name, depth := range depths {
		metrics.SetQueueDepth(name, depth)
		fields = append(fields, zap.Int("queue_"+name, depth))
	}
	d.logger.Info("pipeline status", fields...)
}

func (d *Driver) summarize() {
	for stage, snap := range d.stats.Snapshot() {
		d.logger.Info("stage summary",
			zap.String("stage", stage),
			zap.Int64("processed", snap.Processed),
			zap.Int64("cache_hits", snap.CacheHits),
			zap.Int64("failures", snap.Failures),
		)
	}
}

func every(interval time.Duration) string {
	return fmt.Sprintf("@every %s", interval)
}
