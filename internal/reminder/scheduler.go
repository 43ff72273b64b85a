package reminder

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "github.com/aquamate/hydration-helper/internal/errors"

	"github.com/aquamate/hydration-helper/internal/config"
	"github.com/aquamate/hydration-helper/internal/domain"
	"github.com/aquamate/hydration-helper/internal/events"
	"github.com/aquamate/hydration-helper/internal/logger"
	"github.com/aquamate/hydration-helper/internal/services"
	"github.com/aquamate/hydration-helper/internal/timeutil"
)

// Notifier delivers a reminder to a user. The bot implements this; the
// scheduler stays out of delivery mechanics.
type Notifier interface {
	Notify(ctx context.Context, user *domain.User, message string) error
}

const checkPeriod = time.Minute

// Scheduler nudges users who have not logged anything for the configured
// interval during waking hours while today's goal is still unmet. It learns
// about activity by subscribing to intake events; users are tracked from
// their first event after startup.
type Scheduler struct {
	users    domain.UserRepository
	days     *services.DayRecordService
	cal      *timeutil.Calendar
	cfg      config.ReminderConfig
	notifier Notifier

	mu           sync.Mutex
	lastActivity map[uint]time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

func NewScheduler(users domain.UserRepository, days *services.DayRecordService, cal *timeutil.Calendar, cfg config.ReminderConfig, notifier Notifier) *Scheduler {
	return &Scheduler{
		users:        users,
		days:         days,
		cal:          cal,
		cfg:          cfg,
		notifier:     notifier,
		lastActivity: make(map[uint]time.Time),
		stop:         make(chan struct{}),
	}
}

var _ events.Handler = (*Scheduler)(nil)

// HandleEvent resets the user's inactivity timer on any ledger activity.
func (s *Scheduler) HandleEvent(ctx context.Context, event *events.IntakeEvent) error {
	s.mu.Lock()
	s.lastActivity[event.UserID] = time.Now()
	s.mu.Unlock()
	return nil
}

// Start runs the reminder loop until Stop is called or the context ends.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(checkPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.checkAll(ctx)
		}
	}
}

// Stop terminates the reminder loop.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Scheduler) checkAll(ctx context.Context) {
	now := time.Now()
	if !s.withinWakingHours(now) {
		return
	}

	s.mu.Lock()
	due := make([]uint, 0)
	for userID, last := range s.lastActivity {
		if now.Sub(last) >= s.cfg.Interval {
			due = append(due, userID)
		}
	}
	s.mu.Unlock()

	for _, userID := range due {
		if err := s.remind(ctx, userID, now); err != nil {
			logger.Warn("Reminder failed", "user_id", userID, "error", err)
		}
	}
}

func (s *Scheduler) remind(ctx context.Context, userID uint, now time.Time) error {
	record, err := s.days.Get(ctx, userID, now)
	if err != nil && !errors.Is(err, apperrors.ErrEntryNotFound) {
		return err
	}
	if record != nil && record.Completed {
		// Goal already met today, leave the user alone until tomorrow.
		s.touch(userID, now)
		return nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.notifier.Notify(ctx, user, "Time for a glass of water! 💧"); err != nil {
		return err
	}
	s.touch(userID, now)
	return nil
}

func (s *Scheduler) touch(userID uint, now time.Time) {
	s.mu.Lock()
	s.lastActivity[userID] = now
	s.mu.Unlock()
}

func (s *Scheduler) withinWakingHours(now time.Time) bool {
	hour := now.In(s.cal.Location()).Hour()
	if s.cfg.WakeHour <= s.cfg.SleepHour {
		return hour >= s.cfg.WakeHour && hour < s.cfg.SleepHour
	}
	// Waking window crossing midnight
	return hour >= s.cfg.WakeHour || hour < s.cfg.SleepHour
}
