package services

import (
	"testing"

	"github.com/aquamate/hydration-helper/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestGoalService_RecommendedGoal(t *testing.T) {
	svc := NewGoalService()

	tests := []struct {
		name     string
		weightKg float64
		level    domain.ActivityLevel
		want     float64
	}{
		{"sedentary", 70, domain.ActivitySedentary, 2100},
		{"lightly active", 70, domain.ActivityLightlyActive, 2450},
		{"moderately active", 70, domain.ActivityModeratelyActive, 2800},
		{"very active", 70, domain.ActivityVeryActive, 3150},
		{"extra active", 70, domain.ActivityExtraActive, 3500},
		{"heavier user", 100, domain.ActivitySedentary, 3000},
		{"unknown level falls back to sedentary", 70, domain.ActivityLevel("astronaut"), 2100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &domain.User{WeightKg: tt.weightKg, ActivityLevel: tt.level}
			assert.Equal(t, tt.want, svc.RecommendedGoal(user))
		})
	}
}

func TestGoalService_ActiveGoal(t *testing.T) {
	svc := NewGoalService()
	custom := 1800.0
	zero := 0.0

	base := domain.User{WeightKg: 70, ActivityLevel: domain.ActivitySedentary}

	t.Run("no custom goal uses recommendation", func(t *testing.T) {
		user := base
		assert.Equal(t, 2100.0, svc.ActiveGoal(&user))
	})

	t.Run("custom goal wins", func(t *testing.T) {
		user := base
		user.CustomGoalML = &custom
		assert.Equal(t, 1800.0, svc.ActiveGoal(&user))
	})

	t.Run("non-positive custom goal is ignored", func(t *testing.T) {
		user := base
		user.CustomGoalML = &zero
		assert.Equal(t, 2100.0, svc.ActiveGoal(&user))
	})
}

func TestUnitConversion(t *testing.T) {
	assert.InDelta(t, 295.735, ToMilliliters(domain.UnitFluidOunces, 10), 0.0001)
	assert.Equal(t, 500.0, ToMilliliters(domain.UnitMilliliters, 500))
	assert.InDelta(t, 10.0, FromMilliliters(domain.UnitFluidOunces, 295.735), 0.0001)
	assert.Equal(t, 500.0, FromMilliliters(domain.UnitMilliliters, 500))

	// Round-tripping loses nothing; rounding only ever happens in rendering.
	assert.InDelta(t, 12.34, FromMilliliters(domain.UnitFluidOunces, ToMilliliters(domain.UnitFluidOunces, 12.34)), 1e-9)
}
