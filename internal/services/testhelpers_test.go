package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aquamate/hydration-helper/internal/domain"
	apperrors "github.com/aquamate/hydration-helper/internal/errors"
	"github.com/aquamate/hydration-helper/internal/events"
	"github.com/aquamate/hydration-helper/internal/timeutil"
	"github.com/google/uuid"
)

// In-memory repository fakes. They honor the same error contracts as the
// gorm implementations so services cannot tell them apart.

type memUserRepo struct {
	mu    sync.Mutex
	users map[uint]*domain.User
	next  uint
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uint]*domain.User), next: 1}
}

func (r *memUserRepo) GetOrCreate(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.TelegramID == telegramID {
			copied := *u
			return &copied, nil
		}
	}
	u := &domain.User{
		ID:            r.next,
		TelegramID:    telegramID,
		Username:      username,
		FirstName:     firstName,
		LastName:      lastName,
		WeightKg:      70,
		ActivityLevel: domain.ActivitySedentary,
		PreferredUnit: domain.UnitMilliliters,
	}
	r.next++
	r.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.TelegramID == telegramID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *memUserRepo) GetByID(ctx context.Context, userID uint) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

type memIntakeRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]domain.IntakeEvent
}

func newMemIntakeRepo() *memIntakeRepo {
	return &memIntakeRepo{events: make(map[uuid.UUID]domain.IntakeEvent)}
}

func (r *memIntakeRepo) Create(ctx context.Context, event *domain.IntakeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now()
	r.events[event.ID] = *event
	return nil
}

func (r *memIntakeRepo) Get(ctx context.Context, userID uint, id uuid.UUID) (*domain.IntakeEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok || event.UserID != userID {
		return nil, apperrors.ErrEntryNotFound
	}
	return &event, nil
}

func (r *memIntakeRepo) Delete(ctx context.Context, userID uint, id uuid.UUID) (*domain.IntakeEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok || event.UserID != userID {
		return nil, apperrors.ErrEntryNotFound
	}
	delete(r.events, id)
	return &event, nil
}

func (r *memIntakeRepo) ListOn(ctx context.Context, userID uint, dayStart, dayEnd time.Time) ([]domain.IntakeEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.IntakeEvent
	for _, e := range r.events {
		if e.UserID == userID && !e.OccurredAt.Before(dayStart) && e.OccurredAt.Before(dayEnd) {
			out = append(out, e)
		}
	}
	sortEventsDesc(out)
	return out, nil
}

func (r *memIntakeRepo) ListRange(ctx context.Context, userID uint, start, end time.Time) ([]domain.IntakeEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.IntakeEvent
	for _, e := range r.events {
		if e.UserID == userID && !e.OccurredAt.Before(start) && e.OccurredAt.Before(end) {
			out = append(out, e)
		}
	}
	sortEventsAsc(out)
	return out, nil
}

func sortEventsDesc(events []domain.IntakeEvent) {
	sort.Slice(events, func(i, j int) bool { return events[i].OccurredAt.After(events[j].OccurredAt) })
}

func sortEventsAsc(events []domain.IntakeEvent) {
	sort.Slice(events, func(i, j int) bool { return events[i].OccurredAt.Before(events[j].OccurredAt) })
}

type dayKey struct {
	userID uint
	date   time.Time
}

type memDayRepo struct {
	mu      sync.Mutex
	records map[dayKey]domain.DayRecord
	next    uint
}

func newMemDayRepo() *memDayRepo {
	return &memDayRepo{records: make(map[dayKey]domain.DayRecord), next: 1}
}

func (r *memDayRepo) Get(ctx context.Context, userID uint, date time.Time) (*domain.DayRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[dayKey{userID, date}]
	if !ok {
		return nil, apperrors.ErrEntryNotFound
	}
	return &record, nil
}

func (r *memDayRepo) Create(ctx context.Context, record *domain.DayRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.ID = r.next
	r.next++
	r.records[dayKey{record.UserID, record.Date}] = *record
	return nil
}

func (r *memDayRepo) UpdateAchieved(ctx context.Context, userID uint, date time.Time, achievedML float64, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := dayKey{userID, date}
	record, ok := r.records[key]
	if !ok {
		return apperrors.ErrEntryNotFound
	}
	record.AchievedML = achievedML
	record.Completed = completed
	r.records[key] = record
	return nil
}

func (r *memDayRepo) ListRange(ctx context.Context, userID uint, start, end time.Time) ([]domain.DayRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.DayRecord
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if record, ok := r.records[dayKey{userID, day}]; ok {
			out = append(out, record)
		}
	}
	return out, nil
}

// fixture wires the full service graph over in-memory repositories.
type fixture struct {
	cal     *timeutil.Calendar
	users   *memUserRepo
	intakes *memIntakeRepo
	days    *memDayRepo
	emitter *events.InMemoryEmitter

	userSvc   *UserService
	daySvc    *DayRecordService
	intakeSvc *IntakeService
	streakSvc *StreakService
	statsSvc  *StatisticsService
	exportSvc *ExportService
}

func newFixture() *fixture {
	f := &fixture{
		cal:     timeutil.NewCalendar(time.UTC),
		users:   newMemUserRepo(),
		intakes: newMemIntakeRepo(),
		days:    newMemDayRepo(),
		emitter: events.NewInMemoryEmitter(),
	}
	goals := NewGoalService()
	f.userSvc = NewUserService(f.users, goals)
	f.daySvc = NewDayRecordService(f.days, f.intakes, f.users, goals, f.cal)
	f.intakeSvc = NewIntakeService(f.intakes, f.daySvc, f.cal, f.emitter)
	f.streakSvc = NewStreakService(f.days, f.cal)
	f.statsSvc = NewStatisticsService(f.daySvc, f.days, f.cal)
	f.exportSvc = NewExportService()
	return f
}

// newUser registers a sedentary 70 kg user (recommended goal 2100 ml).
func (f *fixture) newUser(ctx context.Context) *domain.User {
	user, err := f.users.GetOrCreate(ctx, 1001, "tester", "Test", "User")
	if err != nil {
		panic(err)
	}
	return user
}

// at builds a UTC timestamp on the given calendar day.
func at(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}
