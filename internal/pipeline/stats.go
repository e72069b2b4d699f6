package pipeline

import "sync/atomic"

// StageCounters tracks per-stage outcomes for the status reporter and the
// end-of-run summary.
type StageCounters struct {
	Processed atomic.Int64
	CacheHits atomic.Int64
	Failures  atomic.Int64
}

// StageSnapshot is a point-in-time copy of one stage's counters.
type StageSnapshot struct {
	Processed int64 `json:"processed"`
	CacheHits int64 `json:"cache_hits"`
	Failures  int64 `json:"failures"`
}

func (c *StageCounters) snapshot() StageSnapshot {
	return StageSnapshot{
		Processed: c.Processed.Load(),
		CacheHits: c.CacheHits.Load(),
		Failures:  c.Failures.Load(),
	}
}

// Stats aggregates counters across the five stages.
type Stats struct {
	Translation  StageCounters
	Synonym      StageCounters
	Webification StageCounters
	Availability StageCounters
	Rating       StageCounters
}

// Snapshot returns per-stage counter snapshots keyed by stage name.
func (s *Stats) Snapshot() map[string]StageSnapshot {
	return map[string]StageSnapshot{
		"translation":  s.Translation.snapshot(),
		"synonym":      s.Synonym.snapshot(),
		"webification": s.Webification.snapshot(),
		"availability": s.Availability.snapshot(),
		"rating":       s.Rating.snapshot(),
	}
}
