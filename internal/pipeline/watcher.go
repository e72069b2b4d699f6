package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/termscout/termscout/internal/progress"
	"github.com/termscout/termscout/internal/queue"
	"github.com/termscout/termscout/internal/words"
)

// watcher tails the seed word list. Each poll re-reads the whole file and
// admits only words it has not seen during this run, so appending to the
// file while the pipeline runs injects new work without a restart.
type watcher struct {
	path      string
	translate *queue.Queue[Word]
	synonyms  *queue.Queue[Word]
	gate      *candidateGate
	logger    *zap.Logger
	emit      func(stage progress.Stage, word string, outcome progress.Outcome, start time.Time, note string)

	mu   sync.Mutex
	seen map[string]struct{}
}

func newWatcher(path string, translate, synonyms *queue.Queue[Word], gate *candidateGate, env stageEnv) *watcher {
	return &watcher{
		path:      path,
		translate: translate,
		synonyms:  synonyms,
		gate:      gate,
		logger:    env.logger,
		emit:      env.emit,
		seen:      make(map[string]struct{}),
	}
}

// poll reads the word file and seeds the pipeline with anything new. A
// missing or unreadable file is an error; the caller decides whether that
// is fatal.
func (w *watcher) poll(ctx context.Context) error {
	file, err := os.Open(w.path)
	if err != nil {
		return fmt.Errorf("open word list: %w", err)
	}
	defer file.Close()

	admitted := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		word := words.Normalize(scanner.Text())
		if word == "" {
			continue
		}
		if !w.admit(word) {
			continue
		}

		start := time.Now()
		w.translate.Enqueue(Word(word))
		w.synonyms.Enqueue(Word(word))
		w.gate.Offer(word)
		w.emit(progress.StageWatcher, word, progress.OutcomeProcessed, start, "seeded")
		admitted++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read word list: %w", err)
	}

	if admitted > 0 {
		w.logger.Info("seeded new words", zap.String("path", w.path), zap.Int("count", admitted))
	}
	return nil
}

func (w *watcher) admit(word string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.seen[word]; ok {
		return false
	}
	w.seen[word] = struct{}{}
	return true
}
