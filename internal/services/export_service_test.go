package services

import (
	"testing"
	"time"

	"github.com/aquamate/hydration-helper/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestExportService_ToCSV(t *testing.T) {
	svc := NewExportService()

	records := []domain.DayRecord{
		{Date: at(2025, time.March, 11, 0), TargetML: 2100, AchievedML: 1800.4, Completed: false},
		{Date: at(2025, time.March, 10, 0), TargetML: 2100, AchievedML: 2350, Completed: true},
	}

	got := svc.ToCSV(records)
	want := "Date,Intake (ml),Goal (ml),Completed\n" +
		"2025-03-10,2350,2100,Yes\n" +
		"2025-03-11,1800,2100,No\n"
	assert.Equal(t, want, got, "rows come out ascending by date regardless of input order")
}

func TestExportService_ToCSV_Empty(t *testing.T) {
	svc := NewExportService()
	assert.Equal(t, "Date,Intake (ml),Goal (ml),Completed\n", svc.ToCSV(nil))
}

func TestExportService_ToCSV_Deterministic(t *testing.T) {
	svc := NewExportService()
	records := []domain.DayRecord{
		{Date: at(2025, time.March, 12, 0), TargetML: 2000, AchievedML: 2000, Completed: true},
		{Date: at(2025, time.March, 10, 0), TargetML: 2000, AchievedML: 100, Completed: false},
		{Date: at(2025, time.March, 11, 0), TargetML: 2000, AchievedML: 0, Completed: false},
	}
	assert.Equal(t, svc.ToCSV(records), svc.ToCSV(records))
}
