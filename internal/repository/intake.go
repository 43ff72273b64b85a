package repository

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/aquamate/hydration-helper/internal/errors"

	"github.com/aquamate/hydration-helper/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IntakeRepository handles raw intake event storage
type IntakeRepository struct {
	db *gorm.DB
}

// NewIntakeRepository creates a new intake event repository
func NewIntakeRepository(db *gorm.DB) *IntakeRepository {
	return &IntakeRepository{db: db}
}

var _ domain.IntakeRepository = (*IntakeRepository)(nil)

// Create inserts a new intake event
func (r *IntakeRepository) Create(ctx context.Context, event *domain.IntakeEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// Get returns the user's event with the given id.
func (r *IntakeRepository) Get(ctx context.Context, userID uint, id uuid.UUID) (*domain.IntakeEvent, error) {
	var event domain.IntakeEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEntryNotFound
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &event, nil
}

// Delete removes the user's event with the given id and returns the removed
// event so the caller knows which day to recompute.
func (r *IntakeRepository) Delete(ctx context.Context, userID uint, id uuid.UUID) (*domain.IntakeEvent, error) {
	event, err := r.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&domain.IntakeEvent{})
	if result.Error != nil {
		return nil, apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrEntryNotFound
	}

	return event, nil
}

// ListOn returns the user's events within [dayStart, dayEnd), most recent first
func (r *IntakeRepository) ListOn(ctx context.Context, userID uint, dayStart, dayEnd time.Time) ([]domain.IntakeEvent, error) {
	var events []domain.IntakeEvent
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND occurred_at >= ? AND occurred_at < ?", userID, dayStart, dayEnd).
		Order("occurred_at DESC").
		Find(&events).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return events, nil
}

// ListRange returns the user's events within [start, end), chronological
func (r *IntakeRepository) ListRange(ctx context.Context, userID uint, start, end time.Time) ([]domain.IntakeEvent, error) {
	var events []domain.IntakeEvent
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND occurred_at >= ? AND occurred_at < ?", userID, start, end).
		Order("occurred_at ASC").
		Find(&events).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return events, nil
}
