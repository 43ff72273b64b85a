package repository

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/aquamate/hydration-helper/internal/errors"

	"github.com/aquamate/hydration-helper/internal/domain"
	"gorm.io/gorm"
)

// DayRecordRepository handles storage of the derived per-day rollups
type DayRecordRepository struct {
	db *gorm.DB
}

// NewDayRecordRepository creates a new day record repository
func NewDayRecordRepository(db *gorm.DB) *DayRecordRepository {
	return &DayRecordRepository{db: db}
}

var _ domain.DayRecordRepository = (*DayRecordRepository)(nil)

// Get returns the user's record for the given day
func (r *DayRecordRepository) Get(ctx context.Context, userID uint, date time.Time) (*domain.DayRecord, error) {
	var record domain.DayRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEntryNotFound
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &record, nil
}

// Create inserts a new day record
func (r *DayRecordRepository) Create(ctx context.Context, record *domain.DayRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// UpdateAchieved rewrites only the achieved/completed fields, leaving the
// stored target snapshot untouched.
func (r *DayRecordRepository) UpdateAchieved(ctx context.Context, userID uint, date time.Time, achievedML float64, completed bool) error {
	result := r.db.WithContext(ctx).
		Model(&domain.DayRecord{}).
		Where("user_id = ? AND date = ?", userID, date).
		Updates(map[string]interface{}{
			"achieved_ml": achievedML,
			"completed":   completed,
		})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrEntryNotFound
	}
	return nil
}

// ListRange returns the user's records with date in [start, end], ascending
func (r *DayRecordRepository) ListRange(ctx context.Context, userID uint, start, end time.Time) ([]domain.DayRecord, error) {
	var records []domain.DayRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date ASC").
		Find(&records).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return records, nil
}
