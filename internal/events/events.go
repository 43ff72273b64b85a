package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the intake ledger.
const (
	TypeIntakeLogged  = "intake.logged"
	TypeIntakeDeleted = "intake.deleted"
)

// IntakeEvent is published after a successful ledger mutation so collaborators
// (reminder scheduler, future health-platform sync) can react without the
// ledger knowing about them.
type IntakeEvent struct {
	ID         uuid.UUID
	Type       string
	UserID     uint
	EntryID    uuid.UUID
	AmountML   float64
	OccurredAt time.Time
	CreatedAt  time.Time
}

// NewIntakeEvent creates an event of the given type for a ledger mutation.
func NewIntakeEvent(eventType string, userID uint, entryID uuid.UUID, amountML float64, occurredAt time.Time) *IntakeEvent {
	return &IntakeEvent{
		ID:         uuid.New(),
		Type:       eventType,
		UserID:     userID,
		EntryID:    entryID,
		AmountML:   amountML,
		OccurredAt: occurredAt,
		CreatedAt:  time.Now(),
	}
}

// Handler processes published intake events.
type Handler interface {
	HandleEvent(ctx context.Context, event *IntakeEvent) error
}

// Emitter publishes intake events to registered handlers.
type Emitter interface {
	EmitEvent(ctx context.Context, event *IntakeEvent) error
}
