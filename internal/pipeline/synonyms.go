package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/termscout/termscout/internal/metrics"
	"github.com/termscout/termscout/internal/progress"
	"github.com/termscout/termscout/internal/queue"
)

// synonymizer asks the language model for synonyms of a base word and
// feeds every synonym back through the webification and availability paths
// as an English pseudo-translation.
type synonymizer struct {
	env       stageEnv
	model     LanguageModel
	in        *queue.Queue[Word]
	webifyOut *queue.Queue[Translation]
	gate      *candidateGate
	counters  *StageCounters
}

func (s *synonymizer) run(ctx context.Context, pause time.Duration) error {
	return runStage(ctx, s.in, pause, s.process)
}

func (s *synonymizer) process(ctx context.Context, item Word) {
	word := string(item)
	start := time.Now()

	synonyms, hit, err := s.env.store.Synonyms(ctx, word)
	if err != nil {
		s.env.logger.Error("synonym cache read failed", zap.String("word", word), zap.Error(err))
		s.counters.Failures.Add(1)
		s.env.emit(progress.StageSynonym, word, progress.OutcomeFailed, start, err.Error())
		return
	}

	if hit {
		metrics.ObserveCacheHit("synonym")
		s.counters.CacheHits.Add(1)
		s.env.emit(progress.StageSynonym, word, progress.OutcomeCacheHit, start, "")
	} else {
		callCtx, cancel := s.env.callContext(ctx)
		synonyms, err = s.model.Synonyms(callCtx, word)
		cancel()
		metrics.ObserveExternalCall("synonym", err)
		if err != nil {
			s.env.logger.Warn("synonym lookup failed", zap.String("word", word), zap.Error(err))
			s.counters.Failures.Add(1)
			s.env.emit(progress.StageSynonym, word, progress.OutcomeFailed, start, err.Error())
			return
		}
		if err := s.env.store.PutSynonyms(ctx, word, synonyms); err != nil {
			s.env.logger.Error("synonym cache write failed", zap.String("word", word), zap.Error(err))
			s.counters.Failures.Add(1)
			s.env.emit(progress.StageSynonym, word, progress.OutcomeFailed, start, err.Error())
			return
		}
		s.counters.Processed.Add(1)
		s.env.emit(progress.StageSynonym, word, progress.OutcomeProcessed, start, "")
	}

	for _, synonym := range synonyms {
		translation := SynonymTranslation(synonym)
		if translation.Cleaned == "" {
			continue
		}
		s.webifyOut.Enqueue(translation)
		s.gate.Offer(translation.Cleaned)
	}
}
