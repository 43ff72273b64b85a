package services

import (
	"context"

	apperrors "github.com/aquamate/hydration-helper/internal/errors"

	"github.com/aquamate/hydration-helper/internal/domain"
)

// UserService manages users and their hydration profiles.
type UserService struct {
	users domain.UserRepository
	goals *GoalService
}

func NewUserService(users domain.UserRepository, goals *GoalService) *UserService {
	return &UserService{users: users, goals: goals}
}

// RegisterUser gets or creates the user for a telegram account.
func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error) {
	return s.users.GetOrCreate(ctx, telegramID, username, firstName, lastName)
}

// GetUserByTelegramID returns the user for a telegram account.
func (s *UserService) GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	return s.users.GetByTelegramID(ctx, telegramID)
}

// ActiveGoalML returns the user's effective daily goal.
func (s *UserService) ActiveGoalML(user *domain.User) float64 {
	return s.goals.ActiveGoal(user)
}

// SetWeight updates the profile weight. Existing day records keep their
// snapshotted targets; only future days pick up the new goal.
func (s *UserService) SetWeight(ctx context.Context, userID uint, weightKg float64) error {
	if weightKg <= 0 {
		return apperrors.ErrInvalidWeight
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.WeightKg = weightKg
	return s.users.Update(ctx, user)
}

// SetActivityLevel updates the profile activity level.
func (s *UserService) SetActivityLevel(ctx context.Context, userID uint, level domain.ActivityLevel) error {
	switch level {
	case domain.ActivitySedentary, domain.ActivityLightlyActive, domain.ActivityModeratelyActive,
		domain.ActivityVeryActive, domain.ActivityExtraActive:
	default:
		return apperrors.NewValidationError("unknown activity level")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.ActivityLevel = level
	return s.users.Update(ctx, user)
}

// SetPreferredUnit updates the display unit.
func (s *UserService) SetPreferredUnit(ctx context.Context, userID uint, unit domain.Unit) error {
	if unit != domain.UnitMilliliters && unit != domain.UnitFluidOunces {
		return apperrors.NewValidationError("unknown unit")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.PreferredUnit = unit
	return s.users.Update(ctx, user)
}

// SetCustomGoal pins a custom daily goal that overrides the recommended one.
func (s *UserService) SetCustomGoal(ctx context.Context, userID uint, goalML float64) error {
	if goalML <= 0 {
		return apperrors.ErrInvalidGoal
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.CustomGoalML = &goalML
	return s.users.Update(ctx, user)
}

// ClearCustomGoal reverts to the weight/activity-derived recommendation.
func (s *UserService) ClearCustomGoal(ctx context.Context, userID uint) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.CustomGoalML = nil
	return s.users.Update(ctx, user)
}
