package services

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/aquamate/hydration-helper/internal/errors"

	"github.com/aquamate/hydration-helper/internal/domain"
	"github.com/aquamate/hydration-helper/internal/timeutil"
)

// DayRecordService keeps each day's rollup consistent with the event ledger.
// It is purely reactive: it never mutates the ledger, only derives from it.
type DayRecordService struct {
	days    domain.DayRecordRepository
	intakes domain.IntakeRepository
	users   domain.UserRepository
	goals   *GoalService
	cal     *timeutil.Calendar
}

func NewDayRecordService(days domain.DayRecordRepository, intakes domain.IntakeRepository, users domain.UserRepository, goals *GoalService, cal *timeutil.Calendar) *DayRecordService {
	return &DayRecordService{
		days:    days,
		intakes: intakes,
		users:   users,
		goals:   goals,
		cal:     cal,
	}
}

// Recompute re-derives the day's achieved total from the ledger. The first
// recompute for a day snapshots the user's active goal as the target; later
// recomputes update only achieved/completed so profile changes never rewrite
// history.
func (s *DayRecordService) Recompute(ctx context.Context, userID uint, day time.Time) error {
	day = s.cal.DayOf(day)

	entries, err := s.intakes.ListOn(ctx, userID, day, s.cal.NextDay(day))
	if err != nil {
		return err
	}
	var achieved float64
	for _, e := range entries {
		achieved += e.AmountML
	}

	record, err := s.days.Get(ctx, userID, day)
	switch {
	case err == nil:
		return s.days.UpdateAchieved(ctx, userID, day, achieved, achieved >= record.TargetML)
	case errors.Is(err, apperrors.ErrEntryNotFound):
		target, gerr := s.activeGoal(ctx, userID)
		if gerr != nil {
			return gerr
		}
		return s.days.Create(ctx, &domain.DayRecord{
			UserID:     userID,
			Date:       day,
			TargetML:   target,
			AchievedML: achieved,
			Completed:  achieved >= target,
		})
	default:
		return err
	}
}

// GetOrCreate returns the day's record, creating a zero-achieved one with the
// current active goal when none exists yet. Statistics gap-filling relies on
// this.
func (s *DayRecordService) GetOrCreate(ctx context.Context, userID uint, day time.Time) (*domain.DayRecord, error) {
	day = s.cal.DayOf(day)

	record, err := s.days.Get(ctx, userID, day)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, apperrors.ErrEntryNotFound) {
		return nil, err
	}

	target, err := s.activeGoal(ctx, userID)
	if err != nil {
		return nil, err
	}
	record = &domain.DayRecord{
		UserID:     userID,
		Date:       day,
		TargetML:   target,
		AchievedML: 0,
		Completed:  false,
	}
	if err := s.days.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Get returns the day's record without creating one.
func (s *DayRecordService) Get(ctx context.Context, userID uint, day time.Time) (*domain.DayRecord, error) {
	return s.days.Get(ctx, userID, s.cal.DayOf(day))
}

func (s *DayRecordService) activeGoal(ctx context.Context, userID uint) (float64, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.goals.ActiveGoal(user), nil
}
