package services

import (
	"context"
	"time"

	"github.com/aquamate/hydration-helper/internal/domain"
	"github.com/aquamate/hydration-helper/internal/timeutil"
)

// StatisticsService computes period rollups over gap-filled day records.
type StatisticsService struct {
	dayRecords *DayRecordService
	days       domain.DayRecordRepository
	cal        *timeutil.Calendar
}

func NewStatisticsService(dayRecords *DayRecordService, days domain.DayRecordRepository, cal *timeutil.Calendar) *StatisticsService {
	return &StatisticsService{
		dayRecords: dayRecords,
		days:       days,
		cal:        cal,
	}
}

// Aggregate computes statistics for the inclusive day range [start, end].
// Every day in the range appears exactly once in Records, ascending; days
// without ledger activity are filled in as zero-achieved records. A reversed
// range yields empty statistics, not an error.
func (s *StatisticsService) Aggregate(ctx context.Context, userID uint, start, end time.Time) (*domain.Statistics, error) {
	first := s.cal.DayOf(start)
	last := s.cal.DayOf(end)

	stats := &domain.Statistics{Records: []domain.DayRecord{}}
	if first.After(last) {
		return stats, nil
	}

	existing, err := s.days.ListRange(ctx, userID, first, last)
	if err != nil {
		return nil, err
	}
	byDay := make(map[time.Time]domain.DayRecord, len(existing))
	for _, record := range existing {
		byDay[s.cal.DayOf(record.Date)] = record
	}

	activeDays := 0
	var activeTotal float64
	for day := first; !day.After(last); day = s.cal.NextDay(day) {
		record, ok := byDay[day]
		if !ok {
			created, err := s.dayRecords.GetOrCreate(ctx, userID, day)
			if err != nil {
				return nil, err
			}
			record = *created
		}
		stats.Records = append(stats.Records, record)

		stats.TotalML += record.AchievedML
		if record.AchievedML > 0 {
			activeDays++
			activeTotal += record.AchievedML
		}
		if record.Completed {
			stats.CompletedCount++
		}
	}

	// Average is over days with intake only; totals include zero days.
	if activeDays > 0 {
		stats.AverageML = activeTotal / float64(activeDays)
	}
	stats.CompletionRate = float64(stats.CompletedCount) / float64(len(stats.Records))

	for i := range stats.Records {
		if stats.BestDay == nil || stats.Records[i].AchievedML > stats.BestDay.AchievedML {
			// Strict comparison keeps the earliest day on ties.
			stats.BestDay = &stats.Records[i]
		}
	}

	return stats, nil
}
