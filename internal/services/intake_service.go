package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/aquamate/hydration-helper/internal/errors"

	"github.com/aquamate/hydration-helper/internal/domain"
	"github.com/aquamate/hydration-helper/internal/events"
	"github.com/aquamate/hydration-helper/internal/logger"
	"github.com/aquamate/hydration-helper/internal/timeutil"
	"github.com/google/uuid"
)

// IntakeService is the append-only ledger of intake events. Every successful
// mutation recomputes the affected day record and publishes an event for
// external collaborators.
type IntakeService struct {
	intakes domain.IntakeRepository
	days    *DayRecordService
	cal     *timeutil.Calendar
	emitter events.Emitter

	// Mutations touching the same (user, day) serialize on a keyed mutex so
	// the recompute always observes a consistent event set. Cross-day
	// mutations proceed in parallel.
	locksMu  sync.Mutex
	dayLocks map[string]*sync.Mutex
}

func NewIntakeService(intakes domain.IntakeRepository, days *DayRecordService, cal *timeutil.Calendar, emitter events.Emitter) *IntakeService {
	return &IntakeService{
		intakes:  intakes,
		days:     days,
		cal:      cal,
		emitter:  emitter,
		dayLocks: make(map[string]*sync.Mutex),
	}
}

func (s *IntakeService) lockDay(userID uint, day time.Time) *sync.Mutex {
	key := fmt.Sprintf("%d|%d", userID, day.Unix())
	s.locksMu.Lock()
	mu, ok := s.dayLocks[key]
	if !ok {
		mu = &sync.Mutex{}
		s.dayLocks[key] = mu
	}
	s.locksMu.Unlock()
	mu.Lock()
	return mu
}

// Add validates and appends a new intake event, then recomputes the day it
// falls on. A rejected amount fails before anything is written, so no day
// record is touched.
func (s *IntakeService) Add(ctx context.Context, userID uint, amountML float64, occurredAt time.Time, note string) (*domain.IntakeEvent, error) {
	if amountML <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	day := s.cal.DayOf(occurredAt)
	mu := s.lockDay(userID, day)
	defer mu.Unlock()

	event := &domain.IntakeEvent{
		UserID:     userID,
		AmountML:   amountML,
		OccurredAt: occurredAt,
		Note:       note,
	}
	if err := s.intakes.Create(ctx, event); err != nil {
		return nil, err
	}

	if err := s.days.Recompute(ctx, userID, day); err != nil {
		return nil, err
	}

	s.emit(ctx, events.NewIntakeEvent(events.TypeIntakeLogged, userID, event.ID, event.AmountML, event.OccurredAt))
	return event, nil
}

// Delete removes an event by id and recomputes the day it belonged to. The
// event is looked up first to learn its day, then deleted under that day's
// lock so same-day mutations stay serialized with Add.
func (s *IntakeService) Delete(ctx context.Context, userID uint, id uuid.UUID) error {
	event, err := s.intakes.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	day := s.cal.DayOf(event.OccurredAt)
	mu := s.lockDay(userID, day)
	defer mu.Unlock()

	if event, err = s.intakes.Delete(ctx, userID, id); err != nil {
		return err
	}

	if err := s.days.Recompute(ctx, userID, day); err != nil {
		return err
	}

	s.emit(ctx, events.NewIntakeEvent(events.TypeIntakeDeleted, userID, event.ID, event.AmountML, event.OccurredAt))
	return nil
}

// EntriesOn returns the user's events for one calendar day, most recent first.
func (s *IntakeService) EntriesOn(ctx context.Context, userID uint, day time.Time) ([]domain.IntakeEvent, error) {
	start := s.cal.DayOf(day)
	return s.intakes.ListOn(ctx, userID, start, s.cal.NextDay(start))
}

// EntriesInRange returns the user's events for the inclusive day range
// [start, end], chronological.
func (s *IntakeService) EntriesInRange(ctx context.Context, userID uint, start, end time.Time) ([]domain.IntakeEvent, error) {
	first := s.cal.DayOf(start)
	last := s.cal.DayOf(end)
	return s.intakes.ListRange(ctx, userID, first, s.cal.NextDay(last))
}

// Mutations succeed independently of event delivery; handler failures are
// logged and dropped.
func (s *IntakeService) emit(ctx context.Context, event *events.IntakeEvent) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.Warn("Intake event delivery failed", "event_type", event.Type, "user_id", event.UserID, "error", err)
	}
}
