package pipeline

import "context"

// TranslationProvider translates a word into one target language. An empty
// result with nil error means the provider had nothing usable for that
// language.
type TranslationProvider interface {
	Translate(ctx context.Context, word, languageCode string) (string, error)
}

// LanguageModel is the structured-prompt boundary to the chat-completion
// provider. Implementations validate the model's JSON output and return an
// error on malformed responses.
type LanguageModel interface {
	// Webify returns variants of word with one vowel elided per entry.
	Webify(ctx context.Context, word string) ([]string, error)
	// Synonyms returns synonym words for word.
	Synonyms(ctx context.Context, word string) ([]string, error)
	// Rate scores a word's brand potential in [0,100].
	Rate(ctx context.Context, word string) (float64, error)
}

// HostResolver answers whether a hostname currently resolves. A resolvable
// record implies the domain is registered, which lets the availability
// checker skip the metered WHOIS call.
type HostResolver interface {
	Resolves(ctx context.Context, host string) bool
}

// WhoisProvider reports whether a WHOIS record exists for a domain. Any
// error is an inconclusive lookup, mapped to AvailabilityUnknown by the
// caller.
type WhoisProvider interface {
	Registered(ctx context.Context, domain string) (bool, error)
}

// Store is the persistent cache contract: one partition per stage, keyed by
// normalized word. Records are append-only; the availability partition only
// ever holds terminal outcomes, so an inconclusive lookup stays a cache
// miss and remains eligible for retry on a future run.
type Store interface {
	Translations(ctx context.Context, word string) ([]Translation, bool, error)
	PutTranslations(ctx context.Context, word string, translations []Translation) error

	Synonyms(ctx context.Context, word string) ([]string, bool, error)
	PutSynonyms(ctx context.Context, word string, synonyms []string) error

	Webified(ctx context.Context, word string) (Webification, bool, error)
	PutWebified(ctx context.Context, record Webification) error

	Whois(ctx context.Context, word string) (Availability, bool, error)
	PutWhois(ctx context.Context, word string, availability Availability) error

	Rating(ctx context.Context, word string) (float64, bool, error)
	PutRating(ctx context.Context, word string, rating float64) error
}
