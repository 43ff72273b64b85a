package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository persists users and their hydration profiles.
type UserRepository interface {
	GetOrCreate(ctx context.Context, telegramID int64, username, firstName, lastName string) (*User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*User, error)
	GetByID(ctx context.Context, userID uint) (*User, error)
	Update(ctx context.Context, user *User) error
}

// IntakeRepository persists raw intake events. Queries are day/range scoped;
// the repository does not derive any aggregate state.
type IntakeRepository interface {
	Create(ctx context.Context, event *IntakeEvent) error
	Get(ctx context.Context, userID uint, id uuid.UUID) (*IntakeEvent, error)
	Delete(ctx context.Context, userID uint, id uuid.UUID) (*IntakeEvent, error)
	// ListOn returns the user's events within [dayStart, dayEnd), most recent first.
	ListOn(ctx context.Context, userID uint, dayStart, dayEnd time.Time) ([]IntakeEvent, error)
	// ListRange returns the user's events within [start, end), chronological.
	ListRange(ctx context.Context, userID uint, start, end time.Time) ([]IntakeEvent, error)
}

// DayRecordRepository persists the derived per-day rollups.
type DayRecordRepository interface {
	Get(ctx context.Context, userID uint, date time.Time) (*DayRecord, error)
	Create(ctx context.Context, record *DayRecord) error
	// UpdateAchieved rewrites only the achieved/completed fields; the stored
	// target snapshot is left untouched.
	UpdateAchieved(ctx context.Context, userID uint, date time.Time, achievedML float64, completed bool) error
	ListRange(ctx context.Context, userID uint, start, end time.Time) ([]DayRecord, error)
}

// BeverageEstimator estimates the volume of a drink described in free text.
type BeverageEstimator interface {
	EstimateVolumeML(ctx context.Context, description string) (float64, error)
}
