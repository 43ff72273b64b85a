package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquamate/hydration-helper/internal/bot"
	"github.com/aquamate/hydration-helper/internal/bot/handlers"
	"github.com/aquamate/hydration-helper/internal/bot/state"
	"github.com/aquamate/hydration-helper/internal/config"
	"github.com/aquamate/hydration-helper/internal/database"
	"github.com/aquamate/hydration-helper/internal/domain"
	"github.com/aquamate/hydration-helper/internal/events"
	"github.com/aquamate/hydration-helper/internal/logger"
	"github.com/aquamate/hydration-helper/internal/reminder"
	"github.com/aquamate/hydration-helper/internal/repository"
	"github.com/aquamate/hydration-helper/internal/services"
	"github.com/aquamate/hydration-helper/internal/timeutil"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional in containerized deployments.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		_ = logger.Init()
		logger.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(cfg.Logger); err != nil {
		_ = logger.Init()
		logger.Warnf("Falling back to default logger: %v", err)
	}
	logger.Info("Starting Hydration Helper Bot...")

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatalf("Invalid timezone %q: %v", cfg.Timezone, err)
	}
	cal := timeutil.NewCalendar(loc)

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Info("Database connection established, migrations completed")

	// Repositories and core services.
	userRepo := repository.NewUserRepository(db)
	intakeRepo := repository.NewIntakeRepository(db)
	dayRepo := repository.NewDayRecordRepository(db)

	emitter := events.NewInMemoryEmitter()

	goalSvc := services.NewGoalService()
	userSvc := services.NewUserService(userRepo, goalSvc)
	daySvc := services.NewDayRecordService(dayRepo, intakeRepo, userRepo, goalSvc, cal)
	intakeSvc := services.NewIntakeService(intakeRepo, daySvc, cal, emitter)
	streakSvc := services.NewStreakService(dayRepo, cal)
	statsSvc := services.NewStatisticsService(daySvc, dayRepo, cal)
	exportSvc := services.NewExportService()

	var estimator domain.BeverageEstimator
	if cfg.GeminiAPIKey != "" {
		beverageSvc, err := services.NewBeverageService(cfg.GeminiAPIKey)
		if err != nil {
			logger.Warnf("Beverage estimation disabled: %v", err)
		} else {
			estimator = beverageSvc
		}
	} else {
		logger.Info("GEMINI_API_KEY not set, beverage estimation disabled")
	}

	var stateManager state.StateManager
	if cfg.Redis.Enabled {
		redisManager, err := state.NewRedisManager(cfg.Redis.Host, cfg.Redis.Port)
		if err != nil {
			logger.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisManager.Close()
		stateManager = redisManager
		logger.Info("Using redis state manager")
	} else {
		stateManager = state.NewManager()
	}

	deps := handlers.Dependencies{
		UserService:  userSvc,
		IntakeSvc:    intakeSvc,
		DayRecordSvc: daySvc,
		StreakSvc:    streakSvc,
		StatsSvc:     statsSvc,
		ExportSvc:    exportSvc,
		Estimator:    estimator,
		Calendar:     cal,
	}

	telegramBot, err := bot.New(cfg.TelegramToken, deps, stateManager)
	if err != nil {
		logger.Fatalf("Failed to create bot: %v", err)
	}

	scheduler := reminder.NewScheduler(userRepo, daySvc, cal, cfg.Reminder, telegramBot)
	emitter.RegisterHandler(scheduler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go scheduler.Start(ctx)
	defer scheduler.Stop()

	logger.Info("Bot is running. Press Ctrl+C to stop.")
	if err := telegramBot.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Errorf("Bot stopped with error: %v", err)
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}
