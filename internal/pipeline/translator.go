package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/termscout/termscout/internal/metrics"
	"github.com/termscout/termscout/internal/progress"
	"github.com/termscout/termscout/internal/queue"
	"github.com/termscout/termscout/internal/words"
)

// translator expands one base word across every supported language. A
// single failed language is dropped; only a pass where every language fails
// counts as a provider failure and stays uncached for retry.
type translator struct {
	env       stageEnv
	provider  TranslationProvider
	languages []words.Language
	in        *queue.Queue[Word]
	webifyOut *queue.Queue[Translation]
	gate      *candidateGate
	counters  *StageCounters
}

func (t *translator) run(ctx context.Context, pause time.Duration) error {
	return runStage(ctx, t.in, pause, t.process)
}

func (t *translator) process(ctx context.Context, item Word) {
	word := string(item)
	start := time.Now()

	translations, hit, err := t.env.store.Translations(ctx, word)
	if err != nil {
		t.env.logger.Error("translation cache read failed", zap.String("word", word), zap.Error(err))
		t.counters.Failures.Add(1)
		t.env.emit(progress.StageTranslation, word, progress.OutcomeFailed, start, err.Error())
		return
	}

	if hit {
		metrics.ObserveCacheHit("translation")
		t.counters.CacheHits.Add(1)
		t.env.emit(progress.StageTranslation, word, progress.OutcomeCacheHit, start, "")
	} else {
		translations, err = t.translateAll(ctx, word)
		if err != nil {
			t.env.logger.Warn("translation pass failed", zap.String("word", word), zap.Error(err))
			t.counters.Failures.Add(1)
			t.env.emit(progress.StageTranslation, word, progress.OutcomeFailed, start, err.Error())
			return
		}
		if err := t.env.store.PutTranslations(ctx, word, translations); err != nil {
			t.env.logger.Error("translation cache write failed", zap.String("word", word), zap.Error(err))
			t.counters.Failures.Add(1)
			t.env.emit(progress.StageTranslation, word, progress.OutcomeFailed, start, err.Error())
			return
		}
		t.counters.Processed.Add(1)
		t.env.emit(progress.StageTranslation, word, progress.OutcomeProcessed, start, "")
	}

	admitted := 0
	for _, translation := range translations {
		if translation.Cleaned == "" {
			continue
		}
		t.webifyOut.Enqueue(translation)
		if t.gate.Offer(translation.Cleaned) {
			admitted++
		}
	}
	t.env.logger.Debug("translation fan-out complete",
		zap.String("word", word),
		zap.Int("translations", len(translations)),
		zap.Int("candidates", admitted),
	)
}

func (t *translator) translateAll(ctx context.Context, word string) ([]Translation, error) {
	translations := make([]Translation, 0, len(t.languages))
	failed := 0
	for _, language := range t.languages {
		if ctx.Err() != nil {
			// Never cache a half pass from an aborted run.
			return nil, fmt.Errorf("translation pass interrupted: %w", ctx.Err())
		}

		callCtx, cancel := t.env.callContext(ctx)
		raw, err := t.provider.Translate(callCtx, word, language.Code)
		cancel()
		metrics.ObserveExternalCall("translation", err)
		if err != nil {
			failed++
			t.env.logger.Debug("translation failed for language",
				zap.String("word", word),
				zap.String("language", language.Code),
				zap.Error(err),
			)
			continue
		}

		cleaned := words.Normalize(raw)
		if cleaned == "" {
			continue
		}
		translations = append(translations, Translation{
			Word:     word,
			Language: language,
			Raw:      raw,
			Cleaned:  cleaned,
		})
	}

	if len(translations) == 0 && failed > 0 {
		return nil, fmt.Errorf("all %d language requests failed", failed)
	}
	return translations, nil
}
