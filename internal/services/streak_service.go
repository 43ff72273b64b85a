package services

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/aquamate/hydration-helper/internal/errors"

	"github.com/aquamate/hydration-helper/internal/domain"
	"github.com/aquamate/hydration-helper/internal/timeutil"
)

// StreakService computes consecutive-completion streaks over day records.
type StreakService struct {
	days domain.DayRecordRepository
	cal  *timeutil.Calendar
}

func NewStreakService(days domain.DayRecordRepository, cal *timeutil.Calendar) *StreakService {
	return &StreakService{days: days, cal: cal}
}

// CurrentStreak walks backward from asOf, counting completed days until the
// first missing or incomplete one. asOf itself must already be completed for
// the result to be non-zero.
func (s *StreakService) CurrentStreak(ctx context.Context, userID uint, asOf time.Time) (int, error) {
	day := s.cal.DayOf(asOf)
	streak := 0

	for {
		record, err := s.days.Get(ctx, userID, day)
		if err != nil {
			if errors.Is(err, apperrors.ErrEntryNotFound) {
				// A gap breaks the streak exactly like an incomplete day.
				return streak, nil
			}
			return 0, err
		}
		if !record.Completed {
			return streak, nil
		}
		streak++
		day = s.cal.AddDays(day, -1)
	}
}

// LongestStreak returns the longest run of completed days in a chronologically
// ascending record sequence. Pure function; a run reaching the last record
// counts.
func LongestStreak(records []domain.DayRecord) int {
	longest, current := 0, 0
	for _, record := range records {
		if record.Completed {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}
