package handlers

import (
	"fmt"

	"github.com/aquamate/hydration-helper/internal/domain"
	"github.com/aquamate/hydration-helper/internal/services"
	"github.com/aquamate/hydration-helper/internal/timeutil"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	UserService  *services.UserService
	IntakeSvc    *services.IntakeService
	DayRecordSvc *services.DayRecordService
	StreakSvc    *services.StreakService
	StatsSvc     *services.StatisticsService
	ExportSvc    *services.ExportService
	Estimator    domain.BeverageEstimator
	Calendar     *timeutil.Calendar
}

// formatVolume renders a volume in the user's preferred unit. The stored
// values stay in ml; conversion happens only here, at the presentation edge.
func formatVolume(user *domain.User, ml float64) string {
	if user.PreferredUnit == domain.UnitFluidOunces {
		return fmt.Sprintf("%.1f fl oz", services.FromMilliliters(domain.UnitFluidOunces, ml))
	}
	return fmt.Sprintf("%.0f ml", ml)
}

// unitName returns the short name of the user's preferred unit for prompts.
func unitName(user *domain.User) string {
	if user.PreferredUnit == domain.UnitFluidOunces {
		return "fl oz"
	}
	return "ml"
}
