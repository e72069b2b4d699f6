package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureSink struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (s *captureSink) Consume(_ context.Context, evt Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	return nil
}

func (s *captureSink) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func validEvent() Event {
	return Event{
		RunID:   uuid.New(),
		TS:      time.Now().UTC(),
		Stage:   StageTranslation,
		Word:    "wallet",
		Outcome: OutcomeProcessed,
	}
}

func TestHubDeliversToSinks(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	hub := NewHub(zap.NewNop(), sink)

	hub.Emit(validEvent())
	hub.Emit(validEvent())

	require.Eventually(t, func() bool {
		return sink.count() == 2
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Close(context.Background()))
	require.True(t, sink.closed)
}

func TestHubDropsInvalidEvents(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	hub := NewHub(zap.NewNop(), sink)
	defer func() { _ = hub.Close(context.Background()) }()

	hub.Emit(Event{}) // missing everything
	hub.Emit(Event{RunID: uuid.New(), TS: time.Now(), Stage: "bogus", Outcome: OutcomeProcessed})
	hub.Emit(validEvent())

	require.Eventually(t, func() bool {
		return sink.count() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestHubNilSafety(t *testing.T) {
	t.Parallel()

	var hub *Hub
	hub.Emit(validEvent()) // must not panic
	require.NoError(t, hub.Close(context.Background()))
}

func TestHubEmitAfterCloseIsIgnored(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	hub := NewHub(zap.NewNop(), sink)
	require.NoError(t, hub.Close(context.Background()))

	hub.Emit(validEvent())
	time.Sleep(20 * time.Millisecond)
	require.Zero(t, sink.count())
}

func TestEventValidate(t *testing.T) {
	t.Parallel()

	evt := validEvent()
	require.NoError(t, evt.Validate())

	missing := evt
	missing.RunID = uuid.Nil
	require.Error(t, missing.Validate())

	noTS := evt
	noTS.TS = time.Time{}
	require.Error(t, noTS.Validate())

	badOutcome := evt
	badOutcome.Outcome = "exploded"
	require.Error(t, badOutcome.Validate())

	negDur := evt
	negDur.Dur = -time.Second
	require.Error(t, negDur.Validate())
}
