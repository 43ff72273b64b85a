package services

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/aquamate/hydration-helper/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsService_Aggregate_FillsGaps(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user := f.newUser(ctx)

	// Log on the 10th and 12th only; the 11th has no ledger activity.
	_, err := f.intakeSvc.Add(ctx, user.ID, 2200, at(2025, time.March, 10, 9), "")
	require.NoError(t, err)
	_, err = f.intakeSvc.Add(ctx, user.ID, 900, at(2025, time.March, 12, 9), "")
	require.NoError(t, err)

	stats, err := f.statsSvc.Aggregate(ctx, user.ID, at(2025, time.March, 10, 0), at(2025, time.March, 12, 0))
	require.NoError(t, err)

	require.Len(t, stats.Records, 3, "every day in the range appears exactly once")
	assert.Equal(t, at(2025, time.March, 10, 0), stats.Records[0].Date)
	assert.Equal(t, at(2025, time.March, 11, 0), stats.Records[1].Date)
	assert.Equal(t, at(2025, time.March, 12, 0), stats.Records[2].Date)
	assert.Equal(t, 0.0, stats.Records[1].AchievedML)

	// The filled gap is persisted, not synthesized per call.
	gap, err := f.daySvc.Get(ctx, user.ID, at(2025, time.March, 11, 0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, gap.AchievedML)
}

func TestStatisticsService_Aggregate_AverageOverActiveDaysOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user := f.newUser(ctx)

	_, err := f.intakeSvc.Add(ctx, user.ID, 2200, at(2025, time.March, 10, 9), "")
	require.NoError(t, err)
	_, err = f.intakeSvc.Add(ctx, user.ID, 900, at(2025, time.March, 12, 9), "")
	require.NoError(t, err)

	stats, err := f.statsSvc.Aggregate(ctx, user.ID, at(2025, time.March, 10, 0), at(2025, time.March, 12, 0))
	require.NoError(t, err)

	assert.Equal(t, 3100.0, stats.TotalML)
	assert.InDelta(t, 1550.0, stats.AverageML, 0.001, "zero days do not drag the average down")
	assert.Equal(t, 1, stats.CompletedCount)
	assert.InDelta(t, 1.0/3.0, stats.CompletionRate, 0.001, "completion rate counts all days in the range")
}

func TestStatisticsService_Aggregate_BestDayKeepsEarliestTie(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user := f.newUser(ctx)

	_, err := f.intakeSvc.Add(ctx, user.ID, 1000, at(2025, time.March, 10, 9), "")
	require.NoError(t, err)
	_, err = f.intakeSvc.Add(ctx, user.ID, 1000, at(2025, time.March, 11, 9), "")
	require.NoError(t, err)

	stats, err := f.statsSvc.Aggregate(ctx, user.ID, at(2025, time.March, 10, 0), at(2025, time.March, 11, 0))
	require.NoError(t, err)

	require.NotNil(t, stats.BestDay)
	assert.Equal(t, at(2025, time.March, 10, 0), stats.BestDay.Date)
}

func TestStatisticsService_Aggregate_SingleDayRange(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user := f.newUser(ctx)

	_, err := f.intakeSvc.Add(ctx, user.ID, 500, at(2025, time.March, 10, 9), "")
	require.NoError(t, err)

	stats, err := f.statsSvc.Aggregate(ctx, user.ID, at(2025, time.March, 10, 6), at(2025, time.March, 10, 22))
	require.NoError(t, err)
	require.Len(t, stats.Records, 1)
	assert.Equal(t, 500.0, stats.TotalML)
}

func TestStatisticsService_Aggregate_ReversedRangeIsEmpty(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user := f.newUser(ctx)

	stats, err := f.statsSvc.Aggregate(ctx, user.ID, at(2025, time.March, 12, 0), at(2025, time.March, 10, 0))
	require.NoError(t, err)
	assert.Empty(t, stats.Records)
	assert.Equal(t, 0.0, stats.TotalML)
	assert.Nil(t, stats.BestDay)
}

func TestStatisticsService_Aggregate_WeekWithOneMiss(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user := f.newUser(ctx)
	require.NoError(t, f.userSvc.SetCustomGoal(ctx, user.ID, 2000))

	// Days 1,2,4,5,6,7 hit the goal; day 3 falls short.
	for offset := 0; offset < 7; offset++ {
		amount := 2000.0
		if offset == 2 {
			amount = 800
		}
		day := at(2025, time.March, 10+offset, 9)
		_, err := f.intakeSvc.Add(ctx, user.ID, amount, day, "")
		require.NoError(t, err)
	}

	stats, err := f.statsSvc.Aggregate(ctx, user.ID, at(2025, time.March, 10, 0), at(2025, time.March, 16, 0))
	require.NoError(t, err)

	assert.Equal(t, 6, stats.CompletedCount)
	assert.InDelta(t, 6.0/7.0, stats.CompletionRate, 0.001)
	assert.Equal(t, 4, LongestStreak(stats.Records), "days 4-7 form the longest run")
}

func TestStatisticsService_Aggregate_UnknownUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	// Gap-filling needs the user's goal, so an unknown user surfaces as an error.
	_, err := f.statsSvc.Aggregate(ctx, 999, at(2025, time.March, 10, 0), at(2025, time.March, 10, 0))
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
