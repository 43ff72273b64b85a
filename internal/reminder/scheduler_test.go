package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/aquamate/hydration-helper/internal/config"
	"github.com/aquamate/hydration-helper/internal/domain"
	apperrors "github.com/aquamate/hydration-helper/internal/errors"
	"github.com/aquamate/hydration-helper/internal/events"
	"github.com/aquamate/hydration-helper/internal/services"
	"github.com/aquamate/hydration-helper/internal/timeutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	user *domain.User
}

func (r *stubUserRepo) GetOrCreate(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error) {
	return r.user, nil
}

func (r *stubUserRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	return r.user, nil
}

func (r *stubUserRepo) GetByID(ctx context.Context, userID uint) (*domain.User, error) {
	if r.user == nil || r.user.ID != userID {
		return nil, apperrors.ErrUserNotFound
	}
	return r.user, nil
}

func (r *stubUserRepo) Update(ctx context.Context, user *domain.User) error {
	r.user = user
	return nil
}

type stubDayRepo struct {
	record *domain.DayRecord
}

func (r *stubDayRepo) Get(ctx context.Context, userID uint, date time.Time) (*domain.DayRecord, error) {
	if r.record == nil {
		return nil, apperrors.ErrEntryNotFound
	}
	return r.record, nil
}

func (r *stubDayRepo) Create(ctx context.Context, record *domain.DayRecord) error {
	r.record = record
	return nil
}

func (r *stubDayRepo) UpdateAchieved(ctx context.Context, userID uint, date time.Time, achievedML float64, completed bool) error {
	return nil
}

func (r *stubDayRepo) ListRange(ctx context.Context, userID uint, start, end time.Time) ([]domain.DayRecord, error) {
	return nil, nil
}

type stubIntakeRepo struct{}

func (stubIntakeRepo) Create(ctx context.Context, event *domain.IntakeEvent) error { return nil }
func (stubIntakeRepo) Get(ctx context.Context, userID uint, id uuid.UUID) (*domain.IntakeEvent, error) {
	return nil, apperrors.ErrEntryNotFound
}
func (stubIntakeRepo) Delete(ctx context.Context, userID uint, id uuid.UUID) (*domain.IntakeEvent, error) {
	return nil, apperrors.ErrEntryNotFound
}
func (stubIntakeRepo) ListOn(ctx context.Context, userID uint, dayStart, dayEnd time.Time) ([]domain.IntakeEvent, error) {
	return nil, nil
}
func (stubIntakeRepo) ListRange(ctx context.Context, userID uint, start, end time.Time) ([]domain.IntakeEvent, error) {
	return nil, nil
}

type recordingNotifier struct {
	notified []uint
}

func (n *recordingNotifier) Notify(ctx context.Context, user *domain.User, message string) error {
	n.notified = append(n.notified, user.ID)
	return nil
}

func newTestScheduler(userRepo *stubUserRepo, dayRepo *stubDayRepo, notifier Notifier, cfg config.ReminderConfig) *Scheduler {
	cal := timeutil.NewCalendar(time.UTC)
	daySvc := services.NewDayRecordService(dayRepo, stubIntakeRepo{}, userRepo, services.NewGoalService(), cal)
	return NewScheduler(userRepo, daySvc, cal, cfg, notifier)
}

func TestScheduler_RemindSkipsCompletedDay(t *testing.T) {
	user := &domain.User{ID: 1, TelegramID: 42}
	notifier := &recordingNotifier{}
	s := newTestScheduler(
		&stubUserRepo{user: user},
		&stubDayRepo{record: &domain.DayRecord{UserID: 1, Completed: true}},
		notifier,
		config.ReminderConfig{Interval: time.Hour, WakeHour: 8, SleepHour: 22},
	)

	require.NoError(t, s.remind(context.Background(), 1, time.Now()))
	assert.Empty(t, notifier.notified, "a met goal silences reminders for the rest of the day")
}

func TestScheduler_RemindNotifiesOnUnmetGoal(t *testing.T) {
	user := &domain.User{ID: 1, TelegramID: 42}
	notifier := &recordingNotifier{}
	s := newTestScheduler(
		&stubUserRepo{user: user},
		&stubDayRepo{record: &domain.DayRecord{UserID: 1, Completed: false}},
		notifier,
		config.ReminderConfig{Interval: time.Hour, WakeHour: 8, SleepHour: 22},
	)

	require.NoError(t, s.remind(context.Background(), 1, time.Now()))
	assert.Equal(t, []uint{1}, notifier.notified)
}

func TestScheduler_RemindWithoutDayRecord(t *testing.T) {
	user := &domain.User{ID: 1, TelegramID: 42}
	notifier := &recordingNotifier{}
	s := newTestScheduler(
		&stubUserRepo{user: user},
		&stubDayRepo{},
		notifier,
		config.ReminderConfig{Interval: time.Hour, WakeHour: 8, SleepHour: 22},
	)

	// No record yet means nothing was logged today, which is exactly when a
	// reminder is useful.
	require.NoError(t, s.remind(context.Background(), 1, time.Now()))
	assert.Equal(t, []uint{1}, notifier.notified)
}

func TestScheduler_HandleEventTracksActivity(t *testing.T) {
	s := newTestScheduler(&stubUserRepo{}, &stubDayRepo{}, &recordingNotifier{},
		config.ReminderConfig{Interval: time.Hour, WakeHour: 8, SleepHour: 22})

	event := events.NewIntakeEvent(events.TypeIntakeLogged, 7, uuid.New(), 250, time.Now())
	require.NoError(t, s.HandleEvent(context.Background(), event))

	s.mu.Lock()
	_, tracked := s.lastActivity[7]
	s.mu.Unlock()
	assert.True(t, tracked)
}

func TestScheduler_WithinWakingHours(t *testing.T) {
	cal := timeutil.NewCalendar(time.UTC)

	tests := []struct {
		name      string
		wake, slp int
		hour      int
		want      bool
	}{
		{"mid-day inside window", 8, 22, 12, true},
		{"before wake", 8, 22, 6, false},
		{"after sleep", 8, 22, 23, false},
		{"sleep hour itself is quiet", 8, 22, 22, false},
		{"window crossing midnight, late evening", 22, 6, 23, true},
		{"window crossing midnight, early morning", 22, 6, 3, true},
		{"window crossing midnight, mid-day", 22, 6, 12, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduler(&stubUserRepo{}, nil, cal,
				config.ReminderConfig{Interval: time.Hour, WakeHour: tt.wake, SleepHour: tt.slp}, nil)
			now := time.Date(2025, time.March, 10, tt.hour, 30, 0, 0, time.UTC)
			assert.Equal(t, tt.want, s.withinWakingHours(now))
		})
	}
}
