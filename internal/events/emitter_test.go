package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	events []*IntakeEvent
	err    error
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event *IntakeEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func TestInMemoryEmitter_DeliversToAllHandlers(t *testing.T) {
	emitter := NewInMemoryEmitter()
	first := &recordingHandler{}
	second := &recordingHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event := NewIntakeEvent(TypeIntakeLogged, 1, uuid.New(), 250, time.Now())
	require.NoError(t, emitter.EmitEvent(context.Background(), event))

	require.Len(t, first.events, 1)
	require.Len(t, second.events, 1)
	assert.Equal(t, event.ID, first.events[0].ID)
}

func TestInMemoryEmitter_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	emitter := NewInMemoryEmitter()
	failing := &recordingHandler{err: errors.New("boom")}
	healthy := &recordingHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(healthy)

	err := emitter.EmitEvent(context.Background(), NewIntakeEvent(TypeIntakeDeleted, 1, uuid.New(), 250, time.Now()))
	assert.Error(t, err)
	assert.Len(t, healthy.events, 1, "the error from one handler must not starve the rest")
}

func TestInMemoryEmitter_NoHandlers(t *testing.T) {
	emitter := NewInMemoryEmitter()
	assert.NoError(t, emitter.EmitEvent(context.Background(), NewIntakeEvent(TypeIntakeLogged, 1, uuid.New(), 100, time.Now())))
}

func TestNewIntakeEvent(t *testing.T) {
	entryID := uuid.New()
	occurred := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	event := NewIntakeEvent(TypeIntakeLogged, 7, entryID, 330, occurred)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeIntakeLogged, event.Type)
	assert.Equal(t, uint(7), event.UserID)
	assert.Equal(t, entryID, event.EntryID)
	assert.Equal(t, 330.0, event.AmountML)
	assert.Equal(t, occurred, event.OccurredAt)
}
