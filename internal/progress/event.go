// Package progress defines the event stream emitted by the pipeline stages
// and the hub that fans it out to sinks.
package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage labels the pipeline phase an event belongs to.
type Stage string

// Supported stages.
const (
	StageTranslation  Stage = "translation"
	StageSynonym      Stage = "synonym"
	StageWebification Stage = "webification"
	StageAvailability Stage = "availability"
	StageRating       Stage = "rating"
	StageWatcher      Stage = "watcher"
)

// Outcome is the coarse result of processing one item.
type Outcome string

// Supported outcomes.
const (
	OutcomeProcessed Outcome = "processed"
	OutcomeCacheHit  Outcome = "cache_hit"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// Event captures one processed item milestone.
type Event struct {
	// RunID identifies the pipeline run emitting the event.
	RunID uuid.UUID
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage is the pipeline phase.
	Stage Stage
	// Word is the item's dedup key.
	Word string
	// Outcome is how the item resolved.
	Outcome Outcome
	// Dur is how long the item took, external call included.
	Dur time.Duration
	// Note carries low-volume context such as error text.
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == uuid.Nil {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageTranslation, StageSynonym, StageWebification,
		StageAvailability, StageRating, StageWatcher:
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	switch e.Outcome {
	case OutcomeProcessed, OutcomeCacheHit, OutcomeFailed, OutcomeSkipped:
	default:
		return fmt.Errorf("unknown outcome %q", e.Outcome)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}
