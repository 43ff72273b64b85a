package services

import (
	"github.com/aquamate/hydration-helper/internal/domain"
)

// MlPerFluidOunce is the conversion factor between the two supported units.
// Conversion never rounds; rounding happens only when text is rendered.
const MlPerFluidOunce = 29.5735

// ml per kg of body weight for each activity level
var activityMultipliers = map[domain.ActivityLevel]float64{
	domain.ActivitySedentary:        30,
	domain.ActivityLightlyActive:    35,
	domain.ActivityModeratelyActive: 40,
	domain.ActivityVeryActive:       45,
	domain.ActivityExtraActive:      50,
}

// GoalService derives daily intake targets from a user's profile. All methods
// are pure functions over the profile passed in.
type GoalService struct{}

func NewGoalService() *GoalService {
	return &GoalService{}
}

// RecommendedGoal returns the weight/activity-derived daily target in ml.
// Unknown activity levels fall back to sedentary.
func (s *GoalService) RecommendedGoal(user *domain.User) float64 {
	multiplier, ok := activityMultipliers[user.ActivityLevel]
	if !ok {
		multiplier = activityMultipliers[domain.ActivitySedentary]
	}
	return user.WeightKg * multiplier
}

// ActiveGoal returns the custom goal when one is set and positive, otherwise
// the recommended goal.
func (s *GoalService) ActiveGoal(user *domain.User) float64 {
	if user.CustomGoalML != nil && *user.CustomGoalML > 0 {
		return *user.CustomGoalML
	}
	return s.RecommendedGoal(user)
}

// ToMilliliters converts a value in the given unit to ml.
func ToMilliliters(unit domain.Unit, value float64) float64 {
	if unit == domain.UnitFluidOunces {
		return value * MlPerFluidOunce
	}
	return value
}

// FromMilliliters converts a value in ml to the given unit.
func FromMilliliters(unit domain.Unit, value float64) float64 {
	if unit == domain.UnitFluidOunces {
		return value / MlPerFluidOunce
	}
	return value
}
