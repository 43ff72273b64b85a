package migrations

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aquamate/hydration-helper/internal/domain"
	"github.com/aquamate/hydration-helper/internal/services"
	"github.com/aquamate/hydration-helper/internal/timeutil"
	"gorm.io/gorm"
)

func init() {
	Register("20250801_backfill_day_records", backfillDayRecords, nil)
}

// backfillDayRecords rebuilds missing day_records rows from the raw event log.
// Useful after restoring a database dump that predates the derived table. Days
// that already have a record keep their stored target snapshot.
func backfillDayRecords(db *gorm.DB) error {
	loc, err := time.LoadLocation(getEnv("TZ", "UTC"))
	if err != nil {
		return fmt.Errorf("invalid TZ: %w", err)
	}
	cal := timeutil.NewCalendar(loc)
	goals := services.NewGoalService()

	var users []domain.User
	if err := db.Find(&users).Error; err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	for _, user := range users {
		var events []domain.IntakeEvent
		if err := db.Where("user_id = ?", user.ID).
			Order("occurred_at ASC").
			Find(&events).Error; err != nil {
			return fmt.Errorf("failed to load events for user %d: %w", user.ID, err)
		}

		totals := make(map[time.Time]float64)
		for _, e := range events {
			day := cal.DayOf(e.OccurredAt)
			totals[day] += e.AmountML
		}

		for day, achieved := range totals {
			var existing domain.DayRecord
			err := db.Where("user_id = ? AND date = ?", user.ID, day).First(&existing).Error
			switch {
			case err == nil:
				if err := db.Model(&domain.DayRecord{}).
					Where("id = ?", existing.ID).
					Updates(map[string]interface{}{
						"achieved_ml": achieved,
						"completed":   achieved >= existing.TargetML,
					}).Error; err != nil {
					return fmt.Errorf("failed to update day record: %w", err)
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				target := goals.ActiveGoal(&user)
				record := domain.DayRecord{
					UserID:     user.ID,
					Date:       day,
					TargetML:   target,
					AchievedML: achieved,
					Completed:  achieved >= target,
				}
				if err := db.Create(&record).Error; err != nil {
					return fmt.Errorf("failed to create day record: %w", err)
				}
			default:
				return fmt.Errorf("failed to look up day record: %w", err)
			}
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
