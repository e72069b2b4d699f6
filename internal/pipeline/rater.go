package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/termscout/termscout/internal/metrics"
	"github.com/termscout/termscout/internal/progress"
	"github.com/termscout/termscout/internal/queue"
)

// rater scores an available name for brandability. A model refusal is
// cached as RatingFailed so the word is not re-submitted every run; ranked
// output filters those rows out.
type rater struct {
	env      stageEnv
	model    LanguageModel
	in       *queue.Queue[Word]
	counters *StageCounters
}

func (r *rater) run(ctx context.Context, pause time.Duration) error {
	return runStage(ctx, r.in, pause, r.process)
}

func (r *rater) process(ctx context.Context, item Word) {
	word := string(item)
	start := time.Now()

	if _, hit, err := r.env.store.Rating(ctx, word); err != nil {
		r.env.logger.Error("rating cache read failed", zap.String("word", word), zap.Error(err))
		r.counters.Failures.Add(1)
		r.env.emit(progress.StageRating, word, progress.OutcomeFailed, start, err.Error())
		return
	} else if hit {
		metrics.ObserveCacheHit("rating")
		r.counters.CacheHits.Add(1)
		r.env.emit(progress.StageRating, word, progress.OutcomeCacheHit, start, "")
		return
	}

	callCtx, cancel := r.env.callContext(ctx)
	rating, err := r.model.Rate(callCtx, word)
	cancel()
	metrics.ObserveExternalCall("rating", err)
	if err != nil {
		r.env.logger.Warn("rating failed", zap.String("word", word), zap.Error(err))
		rating = RatingFailed
	}

	if err := r.env.store.PutRating(ctx, word, rating); err != nil {
		r.env.logger.Error("rating cache write failed", zap.String("word", word), zap.Error(err))
		r.counters.Failures.Add(1)
		r.env.emit(progress.StageRating, word, progress.OutcomeFailed, start, err.Error())
		return
	}

	if rating == RatingFailed {
		r.counters.Failures.Add(1)
		r.env.emit(progress.StageRating, word, progress.OutcomeFailed, start, "model refused")
		return
	}
	r.counters.Processed.Add(1)
	r.env.emit(progress.StageRating, word, progress.OutcomeProcessed, start, "")
	r.env.logger.Info("candidate rated", zap.String("word", word), zap.Float64("rating", rating))
}
