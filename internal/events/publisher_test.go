package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"grounded-qa-be/internal/pkg/logger"
	pkgEvents "grounded-qa-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	events []pkgEvents.Event
	err    error
}

func (s *recordingSink) Publish(_ context.Context, evt pkgEvents.Event) error {
	s.events = append(s.events, evt)
	return s.err
}

func TestNatsPublisher_ChatAnswered(t *testing.T) {
	sink := &recordingSink{}
	p := NewNatsPublisher(sink, logger.NewNopLogger())
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	p.now = func() time.Time { return at }

	sessionID := uuid.New()
	p.PublishChatAnswered(context.Background(), ChatAnswered{
		SessionId:      sessionID,
		UserId:         uuid.New(),
		ShouldResearch: true,
		Forced:         true,
		Category:       "president",
		SearchStatus:   "ok",
		Refined:        true,
		LatencyMs:      850,
	})

	require.Len(t, sink.events, 1)
	evt := sink.events[0]
	assert.Equal(t, pkgEvents.TypeChatAnswered, evt.EventType())
	assert.Equal(t, at, evt.Timestamp())
	assert.Equal(t, sessionID.String(), evt.Payload()["session_id"])
	assert.Equal(t, "president", evt.Payload()["category"])
	assert.Equal(t, int64(850), evt.Payload()["latency_ms"])
}

func TestNatsPublisher_NilSinkAndErrors(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNatsPublisher(nil, logger.NewNopLogger()).PublishSessionDeleted(context.Background(), uuid.New(), uuid.New())
	})

	sink := &recordingSink{err: errors.New("nats down")}
	p := NewNatsPublisher(sink, logger.NewNopLogger())
	assert.NotPanics(t, func() {
		p.PublishSessionDeleted(context.Background(), uuid.New(), uuid.New())
	})
	require.Len(t, sink.events, 1)
	assert.Equal(t, pkgEvents.TypeSessionDeleted, sink.events[0].EventType())
}
