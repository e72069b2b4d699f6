package pipeline

import (
	"go.uber.org/zap"

	"github.com/termscout/termscout/internal/metrics"
	"github.com/termscout/termscout/internal/queue"
	"github.com/termscout/termscout/internal/words"
)

// candidateGate is the single entry point into the availability queue.
// Every candidate, whatever stage produced it, is normalized and length
// filtered here before a lookup can be spent on it.
type candidateGate struct {
	min, max int
	queue    *queue.Queue[Word]
	logger   *zap.Logger
}

func newCandidateGate(min, max int, q *queue.Queue[Word], logger *zap.Logger) *candidateGate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &candidateGate{min: min, max: max, queue: q, logger: logger}
}

// Offer normalizes raw and enqueues it when its length is inside the
// configured bounds. Returns whether the candidate was admitted.
func (g *candidateGate) Offer(raw string) bool {
	word := words.Normalize(raw)
	if word == "" {
		metrics.ObserveCandidate("empty")
		return false
	}
	if len(word) < g.min || len(word) > g.max {
		g.logger.Debug("candidate outside length bounds",
			zap.String("word", word),
			zap.Int("length", len(word)),
			zap.Int("min", g.min),
			zap.Int("max", g.max),
		)
		metrics.ObserveCandidate("length_rejected")
		return false
	}
	g.queue.Enqueue(Word(word))
	metrics.ObserveCandidate("admitted")
	return true
}
