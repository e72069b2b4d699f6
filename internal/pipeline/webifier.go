package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/termscout/termscout/internal/metrics"
	"github.com/termscout/termscout/internal/progress"
	"github.com/termscout/termscout/internal/queue"
)

// webifier turns a translation into short brandable spellings via the
// language model. Every variant is offered to the availability gate.
type webifier struct {
	env      stageEnv
	model    LanguageModel
	in       *queue.Queue[Translation]
	gate     *candidateGate
	counters *StageCounters
}

func (w *webifier) run(ctx context.Context, pause time.Duration) error {
	return runStage(ctx, w.in, pause, w.process)
}

func (w *webifier) process(ctx context.Context, item Translation) {
	word := item.Cleaned
	start := time.Now()

	record, hit, err := w.env.store.Webified(ctx, word)
	if err != nil {
		w.env.logger.Error("webified cache read failed", zap.String("word", word), zap.Error(err))
		w.counters.Failures.Add(1)
		w.env.emit(progress.StageWebification, word, progress.OutcomeFailed, start, err.Error())
		return
	}

	if hit {
		metrics.ObserveCacheHit("webification")
		w.counters.CacheHits.Add(1)
		w.env.emit(progress.StageWebification, word, progress.OutcomeCacheHit, start, "")
	} else {
		callCtx, cancel := w.env.callContext(ctx)
		variants, err := w.model.Webify(callCtx, word)
		cancel()
		metrics.ObserveExternalCall("webification", err)
		if err != nil {
			w.env.logger.Warn("webification failed", zap.String("word", word), zap.Error(err))
			w.counters.Failures.Add(1)
			w.env.emit(progress.StageWebification, word, progress.OutcomeFailed, start, err.Error())
			return
		}
		record = Webification{Translation: item, Variants: variants}
		if err := w.env.store.PutWebified(ctx, record); err != nil {
			w.env.logger.Error("webified cache write failed", zap.String("word", word), zap.Error(err))
			w.counters.Failures.Add(1)
			w.env.emit(progress.StageWebification, word, progress.OutcomeFailed, start, err.Error())
			return
		}
		w.counters.Processed.Add(1)
		w.env.emit(progress.StageWebification, word, progress.OutcomeProcessed, start, "")
	}

	w.gate.Offer(word)
	for _, variant := range record.Variants {
		w.gate.Offer(variant)
	}
}
