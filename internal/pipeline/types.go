// Package pipeline contains the multi-stage discovery pipeline: the stage
// processors, the source watcher, and the driver that coordinates them over
// the queue fabric and the persistent cache.
package pipeline

import (
	"github.com/termscout/termscout/internal/words"
)

// Word is a normalized seed or candidate word; the universal queue and
// cache key.
type Word string

// Key implements queue.Item.
func (w Word) Key() string { return string(w) }

// Translation is one (word, language) provider result. Immutable once
// cached.
type Translation struct {
	Word     string         `json:"word"`
	Language words.Language `json:"language"`
	Raw      string         `json:"raw"`
	Cleaned  string         `json:"cleaned"`
}

// Key implements queue.Item for the webification queue. Records are deduped
// by their cleaned form: two languages producing the same cleaned word only
// need webifying once.
func (t Translation) Key() string { return t.Cleaned }

// SynonymTranslation wraps a synonym as a pseudo-translation in English so
// the webifier handles both shapes uniformly.
func SynonymTranslation(synonym string) Translation {
	return Translation{
		Word:     synonym,
		Language: words.English,
		Raw:      synonym,
		Cleaned:  synonym,
	}
}

// Webification holds the vowel-elided variants generated for one cleaned
// word. Variants may be empty when the model produced nothing usable.
type Webification struct {
	Translation
	Variants []string `json:"webifiedWords"`
}

// Availability is the tri-state outcome of a domain lookup.
type Availability int

// Availability outcomes. Unknown marks an inconclusive lookup that must
// stay retryable; it is never persisted.
const (
	AvailabilityUnknown Availability = iota
	AvailabilityAvailable
	AvailabilityTaken
)

func (a Availability) String() string {
	switch a {
	case AvailabilityAvailable:
		return "available"
	case AvailabilityTaken:
		return "taken"
	default:
		return "unknown"
	}
}

// RatingFailed is the sentinel cached when the model could not score a word.
const RatingFailed float64 = -1
