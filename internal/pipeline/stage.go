package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/termscout/termscout/internal/progress"
	"github.com/termscout/termscout/internal/queue"
)

// stageEnv bundles the dependencies every stage shares.
type stageEnv struct {
	store       Store
	logger      *zap.Logger
	emitter     progress.Emitter
	runID       uuid.UUID
	callTimeout time.Duration
}

func (e stageEnv) emit(stage progress.Stage, word string, outcome progress.Outcome, start time.Time, note string) {
	if e.emitter == nil {
		return
	}
	e.emitter.Emit(progress.Event{
		RunID:   e.runID,
		TS:      time.Now().UTC(),
		Stage:   stage,
		Word:    word,
		Outcome: outcome,
		Dur:     time.Since(start),
		Note:    note,
	})
}

// callContext bounds one external call so a hung provider cannot stall a
// stage indefinitely.
func (e stageEnv) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.callTimeout)
}

// runStage drains q one item at a time until the context ends. The optional
// pause between items preserves the pipeline's pacing against provider
// quotas. Done is called only after process returns, i.e. after fan-out, so
// the convergence check never sees a false idle.
func runStage[T queue.Item](ctx context.Context, q *queue.Queue[T], pause time.Duration, process func(context.Context, T)) error {
	for {
		item, err := q.Dequeue(ctx)
		if err != nil {
			// Dequeue only fails when the run is shutting down.
			return nil
		}
		process(ctx, item)
		q.Done()

		if pause > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(pause):
			}
		}
	}
}
