package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/termscout/termscout/internal/queue"
	"github.com/termscout/termscout/internal/words"
)

type memStore struct {
	mu           sync.Mutex
	translations map[string][]Translation
	synonyms     map[string][]string
	webified     map[string]Webification
	whois        map[string]Availability
	ratings      map[string]float64
}

func newMemStore() *memStore {
	return &memStore{
		translations: make(map[string][]Translation),
		synonyms:     make(map[string][]string),
		webified:     make(map[string]Webification),
		whois:        make(map[string]Availability),
		ratings:      make(map[string]float64),
	}
}

func (m *memStore) Translations(_ context.Context, word string) ([]Translation, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.translations[word]
	return v, ok, nil
}

func (m *memStore) PutTranslations(_ context.Context, word string, translations []Translation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.translations[word]; !ok {
		m.translations[word] = translations
	}
	return nil
}

func (m *memStore) Synonyms(_ context.Context, word string) ([]string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.synonyms[word]
	return v, ok, nil
}

func (m *memStore) PutSynonyms(_ context.Context, word string, synonyms []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.synonyms[word]; !ok {
		m.synonyms[word] = synonyms
	}
	return nil
}

func (m *memStore) Webified(_ context.Context, word string) (Webification, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.webified[word]
	return v, ok, nil
}

func (m *memStore) PutWebified(_ context.Context, record Webification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.webified[record.Cleaned]; !ok {
		m.webified[record.Cleaned] = record
	}
	return nil
}

func (m *memStore) Whois(_ context.Context, word string) (Availability, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.whois[word]
	return v, ok, nil
}

func (m *memStore) PutWhois(_ context.Context, word string, availability Availability) error {
	if availability == AvailabilityUnknown {
		return errors.New("unknown availability is not cacheable")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.whois[word]; !ok {
		m.whois[word] = availability
	}
	return nil
}

func (m *memStore) Rating(_ context.Context, word string) (float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.ratings[word]
	return v, ok, nil
}

func (m *memStore) PutRating(_ context.Context, word string, rating float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ratings[word]; !ok {
		m.ratings[word] = rating
	}
	return nil
}

func (m *memStore) whoisVerdict(word string) (Availability, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.whois[word]
	return v, ok
}

func (m *memStore) rating(word string) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.ratings[word]
	return v, ok
}

type fakeTranslator struct {
	calls atomic.Int64
	table map[string]map[string]string
	err   error
}

func (f *fakeTranslator) Translate(_ context.Context, word, languageCode string) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return f.table[word][languageCode], nil
}

type fakeModel struct {
	webifyCalls  atomic.Int64
	synonymCalls atomic.Int64
	rateCalls    atomic.Int64

	webify   map[string][]string
	synonyms map[string][]string
	ratings  map[string]float64
}

func (f *fakeModel) Webify(_ context.Context, word string) ([]string, error) {
	f.webifyCalls.Add(1)
	return f.webify[word], nil
}

func (f *fakeModel) Synonyms(_ context.Context, word string) ([]string, error) {
	f.synonymCalls.Add(1)
	return f.synonyms[word], nil
}

func (f *fakeModel) Rate(_ context.Context, word string) (float64, error) {
	f.rateCalls.Add(1)
	rating, ok := f.ratings[word]
	if !ok {
		return 0, errors.New("model refused")
	}
	return rating, nil
}

type fakeResolver struct {
	calls    atomic.Int64
	resolves map[string]bool
}

func (f *fakeResolver) Resolves(_ context.Context, host string) bool {
	f.calls.Add(1)
	return f.resolves[host]
}

type fakeWhois struct {
	mu         sync.Mutex
	queried    []string
	registered map[string]bool
	errDomains map[string]bool
}

func (f *fakeWhois) Registered(_ context.Context, domain string) (bool, error) {
	f.mu.Lock()
	f.queried = append(f.queried, domain)
	f.mu.Unlock()
	if f.errDomains[domain] {
		return false, errors.New("whois unavailable")
	}
	return f.registered[domain], nil
}

func (f *fakeWhois) queriedDomains() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queried...)
}

func testEnv(store Store) stageEnv {
	return stageEnv{store: store, logger: zap.NewNop()}
}

var testLanguages = []words.Language{
	{Name: "Italian", Code: "it"},
	{Name: "German", Code: "de"},
}

func TestTranslatorCacheHitSkipsProvider(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.translations["wallet"] = []Translation{
		{Word: "wallet", Language: testLanguages[0], Raw: "portafoglio", Cleaned: "portafoglio"},
	}

	provider := &fakeTranslator{}
	webifyQ := queue.New[Translation]("webification")
	availQ := queue.New[Word]("availability")
	tr := &translator{
		env:       testEnv(store),
		provider:  provider,
		languages: testLanguages,
		in:        queue.New[Word]("translation"),
		webifyOut: webifyQ,
		gate:      newCandidateGate(3, 20, availQ, nil),
		counters:  &StageCounters{},
	}

	tr.process(context.Background(), Word("wallet"))

	require.Zero(t, provider.calls.Load())
	require.Equal(t, int64(1), tr.counters.CacheHits.Load())
	require.Equal(t, 1, webifyQ.Len(), "cached translations still fan out")
	require.Equal(t, 1, availQ.Len())
}

func TestTranslatorStoresAndFansOut(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	provider := &fakeTranslator{table: map[string]map[string]string{
		"wallet": {"it": "portafoglio", "de": "Geldbörse"},
	}}
	webifyQ := queue.New[Translation]("webification")
	availQ := queue.New[Word]("availability")
	tr := &translator{
		env:       testEnv(store),
		provider:  provider,
		languages: testLanguages,
		in:        queue.New[Word]("translation"),
		webifyOut: webifyQ,
		gate:      newCandidateGate(3, 20, availQ, nil),
		counters:  &StageCounters{},
	}

	tr.process(context.Background(), Word("wallet"))

	require.Equal(t, int64(2), provider.calls.Load())
	cached, ok, err := store.Translations(context.Background(), "wallet")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, cached, 2)
	require.Equal(t, "portafoglio", cached[0].Cleaned)
	require.Equal(t, "geldborse", cached[1].Cleaned, "diacritics stripped, lowercased")
	require.Equal(t, 2, webifyQ.Len())
	require.Equal(t, 2, availQ.Len())
}

func TestTranslatorAllLanguagesFailedStaysUncached(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	provider := &fakeTranslator{err: errors.New("quota exceeded")}
	tr := &translator{
		env:       testEnv(store),
		provider:  provider,
		languages: testLanguages,
		in:        queue.New[Word]("translation"),
		webifyOut: queue.New[Translation]("webification"),
		gate:      newCandidateGate(3, 20, queue.New[Word]("availability"), nil),
		counters:  &StageCounters{},
	}

	tr.process(context.Background(), Word("wallet"))

	_, ok, err := store.Translations(context.Background(), "wallet")
	require.NoError(t, err)
	require.False(t, ok, "a fully failed pass must stay retryable")
	require.Equal(t, int64(1), tr.counters.Failures.Load())
}

func TestSynonymizerFansOutThroughGate(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	model := &fakeModel{synonyms: map[string][]string{
		"wallet": {"purse", "billfold", "xy"},
	}}
	webifyQ := queue.New[Translation]("webification")
	availQ := queue.New[Word]("availability")
	s := &synonymizer{
		env:       testEnv(store),
		model:     model,
		in:        queue.New[Word]("synonym"),
		webifyOut: webifyQ,
		gate:      newCandidateGate(3, 10, availQ, nil),
		counters:  &StageCounters{},
	}

	s.process(context.Background(), Word("wallet"))

	require.Equal(t, int64(1), model.synonymCalls.Load())
	require.Equal(t, 3, webifyQ.Len())
	require.Equal(t, 2, availQ.Len(), "two-letter synonym filtered at the gate")

	cached, ok, err := store.Synonyms(context.Background(), "wallet")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"purse", "billfold", "xy"}, cached)
}

func TestWebifierOffersVariants(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	model := &fakeModel{webify: map[string][]string{
		"wallet": {"wllt", "walet"},
	}}
	availQ := queue.New[Word]("availability")
	w := &webifier{
		env:      testEnv(store),
		model:    model,
		in:       queue.New[Translation]("webification"),
		gate:     newCandidateGate(3, 10, availQ, nil),
		counters: &StageCounters{},
	}

	w.process(context.Background(), SynonymTranslation("wallet"))

	require.Equal(t, int64(1), model.webifyCalls.Load())
	require.Equal(t, 3, availQ.Len(), "both variants plus the original form")

	// Second pass is served from cache but still re-offers variants.
	w.process(context.Background(), SynonymTranslation("wallet"))
	require.Equal(t, int64(1), model.webifyCalls.Load())
	require.Equal(t, int64(1), w.counters.CacheHits.Load())
	require.Equal(t, 3, availQ.Len(), "queue dedup absorbs the re-offer")
}

func TestAvailabilityVerdicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		resolves   bool
		registered bool
		whoisErr   bool
		want       Availability
		wantCached bool
		wantRated  bool
		wantWhois  bool
	}{
		{name: "dns answer proves registration", resolves: true, want: AvailabilityTaken, wantCached: true},
		{name: "whois record present", registered: true, want: AvailabilityTaken, wantCached: true, wantWhois: true},
		{name: "no record anywhere", want: AvailabilityAvailable, wantCached: true, wantRated: true, wantWhois: true},
		{name: "whois failure stays unknown", whoisErr: true, want: AvailabilityUnknown, wantWhois: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := newMemStore()
			resolver := &fakeResolver{resolves: map[string]bool{"wallet.com": tc.resolves}}
			whois := &fakeWhois{
				registered: map[string]bool{"wallet.com": tc.registered},
				errDomains: map[string]bool{"wallet.com": tc.whoisErr},
			}
			ratingQ := queue.New[Word]("rating")
			a := &availabilityChecker{
				env:       testEnv(store),
				resolver:  resolver,
				whois:     whois,
				in:        queue.New[Word]("availability"),
				ratingOut: ratingQ,
				counters:  &StageCounters{},
			}

			a.process(context.Background(), Word("wallet"))

			verdict, cached := store.whoisVerdict("wallet")
			require.Equal(t, tc.wantCached, cached)
			if cached {
				require.Equal(t, tc.want, verdict)
			}
			if tc.wantRated {
				require.Equal(t, 1, ratingQ.Len())
			} else {
				require.Zero(t, ratingQ.Len())
			}
			if tc.wantWhois {
				require.Equal(t, []string{"wallet.com"}, whois.queriedDomains())
			} else {
				require.Empty(t, whois.queriedDomains(), "dns hit must not spend a whois call")
			}
		})
	}
}

func TestAvailabilityCacheHitSkipsLookups(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.whois["wallet"] = AvailabilityAvailable
	resolver := &fakeResolver{}
	ratingQ := queue.New[Word]("rating")
	a := &availabilityChecker{
		env:       testEnv(store),
		resolver:  resolver,
		whois:     &fakeWhois{},
		in:        queue.New[Word]("availability"),
		ratingOut: ratingQ,
		counters:  &StageCounters{},
	}

	a.process(context.Background(), Word("wallet"))

	require.Zero(t, resolver.calls.Load())
	require.Equal(t, int64(1), a.counters.CacheHits.Load())
	require.Equal(t, 1, ratingQ.Len(), "cached available verdicts still feed the rater")
}

func TestRaterCachesRefusalSentinel(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	model := &fakeModel{ratings: map[string]float64{}}
	r := &rater{
		env:      testEnv(store),
		model:    model,
		in:       queue.New[Word]("rating"),
		counters: &StageCounters{},
	}

	r.process(context.Background(), Word("wllt"))

	rating, ok := store.rating("wllt")
	require.True(t, ok)
	require.Equal(t, RatingFailed, rating)
	require.Equal(t, int64(1), r.counters.Failures.Load())

	// Sentinel is a cache hit; the model is not asked again.
	r.process(context.Background(), Word("wllt"))
	require.Equal(t, int64(1), model.rateCalls.Load())
	require.Equal(t, int64(1), r.counters.CacheHits.Load())
}

func TestCandidateGateBounds(t *testing.T) {
	t.Parallel()

	q := queue.New[Word]("availability")
	gate := newCandidateGate(3, 6, q, nil)

	require.False(t, gate.Offer("ab"))
	require.False(t, gate.Offer("toolongword"))
	require.False(t, gate.Offer("!!"))
	require.True(t, gate.Offer("Wället"), "normalization happens before the length check")
	require.Equal(t, 1, q.Len())
}
