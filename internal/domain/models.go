package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityLevel describes how physically active a user is. It drives the
// recommended daily intake goal.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityExtraActive      ActivityLevel = "extra_active"
)

// Unit is the user's preferred display unit for volumes.
type Unit string

const (
	UnitMilliliters Unit = "ml"
	UnitFluidOunces Unit = "floz"
)

// User represents a telegram user and their hydration profile
type User struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	TelegramID int64 `gorm:"uniqueIndex"`
	Username   string
	FirstName  string
	LastName   string

	// Profile attributes read by the goal calculator
	WeightKg      float64       `gorm:"default:70"`
	ActivityLevel ActivityLevel `gorm:"default:sedentary"`
	PreferredUnit Unit          `gorm:"default:ml"`
	CustomGoalML  *float64
}

// IntakeEvent is a single logged drink. Events are immutable once created,
// except for deletion.
type IntakeEvent struct {
	ID         uuid.UUID `gorm:"primaryKey"`
	CreatedAt  time.Time
	UserID     uint      `gorm:"index;not null"`
	AmountML   float64   `gorm:"not null"`
	OccurredAt time.Time `gorm:"index;not null"`
	Note       string
}

func (e *IntakeEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// DayRecord is the derived daily rollup of target vs. achieved intake.
// TargetML is snapshotted from the user's active goal when the record is first
// created; later profile changes do not rewrite history.
//
// NOTE: derived data, can be rebuilt from intake_events.
type DayRecord struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	UserID     uint      `gorm:"not null;uniqueIndex:uidx_day_records_user_date"`
	Date       time.Time `gorm:"not null;uniqueIndex:uidx_day_records_user_date"`
	TargetML   float64   `gorm:"not null"`
	AchievedML float64   `gorm:"not null;default:0"`
	Completed  bool      `gorm:"not null;default:false"`
}

// Statistics is a period rollup over a gap-filled, ascending day range.
type Statistics struct {
	Records        []DayRecord
	TotalML        float64
	AverageML      float64 // average over days with intake only
	CompletedCount int
	CompletionRate float64
	BestDay        *DayRecord
}
