package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aquamate/hydration-helper/internal/bot/keyboards"
	"github.com/aquamate/hydration-helper/internal/bot/menus"
	"github.com/aquamate/hydration-helper/internal/bot/state"
	"github.com/aquamate/hydration-helper/internal/domain"
	"github.com/aquamate/hydration-helper/internal/logger"
	"github.com/aquamate/hydration-helper/internal/services"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *CallbackHandler {
	return &CallbackHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery, user *domain.User) error {
	// Answer the callback query first to clear the loading spinner
	callback := tgbotapi.NewCallback(query.ID, "")
	if _, err := h.api.Request(callback); err != nil {
		logger.Warn("Failed to answer callback query", "error", err)
	}

	chatID := query.Message.Chat.ID

	if level, ok := strings.CutPrefix(query.Data, "activity_"); ok {
		return h.handleSetActivity(ctx, chatID, user, domain.ActivityLevel(level))
	}

	switch query.Data {
	case "log_250":
		return h.handleQuickLog(ctx, chatID, user, 250)
	case "log_500":
		return h.handleQuickLog(ctx, chatID, user, 500)
	case "log_custom":
		return h.handleLogCustom(chatID, user)
	case "log_beverage":
		return h.handleLogBeverage(chatID, user)
	case "confirm_estimate":
		return h.handleConfirmEstimate(ctx, chatID, user)
	case "today":
		return h.handleToday(ctx, chatID, user)
	case "streak":
		return h.handleStreak(ctx, chatID, user)
	case "stats_week":
		return h.handleStats(ctx, chatID, user, 7)
	case "stats_month":
		return h.handleStats(ctx, chatID, user, 30)
	case "export_csv":
		return h.handleExport(ctx, chatID, user)
	case "settings":
		return h.handleSettings(chatID, user)
	case "set_weight":
		return h.handlePrompt(chatID, user, state.WaitingForWeight, "Send your weight in kilograms (for example: 70):")
	case "set_goal":
		return h.handlePrompt(chatID, user, state.WaitingForCustomGoal,
			fmt.Sprintf("Send your daily goal in %s:", unitName(user)))
	case "clear_goal":
		return h.handleClearGoal(ctx, chatID, user)
	case "set_activity":
		return h.handleActivityMenu(chatID)
	case "set_unit":
		return h.handleUnitMenu(chatID)
	case "unit_ml":
		return h.handleSetUnit(ctx, chatID, user, domain.UnitMilliliters)
	case "unit_floz":
		return h.handleSetUnit(ctx, chatID, user, domain.UnitFluidOunces)
	case "delete_last":
		return h.handleDeleteLast(ctx, chatID, user)
	case "main_menu":
		h.stateManager.SetUserState(user.TelegramID, state.None)
		h.stateManager.ClearTempData(user.TelegramID)
		return menus.SendMainMenu(h.api, chatID)
	default:
		return h.sendText(chatID, "Unknown action. Use /start to show the menu.")
	}
}

func (h *CallbackHandler) handleQuickLog(ctx context.Context, chatID int64, user *domain.User, amountML float64) error {
	if _, err := h.deps.IntakeSvc.Add(ctx, user.ID, amountML, time.Now(), ""); err != nil {
		logger.Error("Failed to log intake", "user_id", user.ID, "error", err)
		return h.sendText(chatID, "Something went wrong while saving. Please try again.")
	}
	return h.sendProgress(ctx, chatID, user, fmt.Sprintf("✅ Logged %s.", formatVolume(user, amountML)))
}

func (h *CallbackHandler) handleLogCustom(chatID int64, user *domain.User) error {
	h.stateManager.SetUserState(user.TelegramID, state.WaitingForCustomAmount)
	text := fmt.Sprintf("Send the amount in %s. Add a note after the number if you like (for example: \"300 green tea\").", unitName(user))
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.BackToMainMenu()
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleLogBeverage(chatID int64, user *domain.User) error {
	if h.deps.Estimator == nil {
		return h.sendText(chatID, "Drink descriptions are not available right now. Please log an amount instead.")
	}
	h.stateManager.SetUserState(user.TelegramID, state.WaitingForBeverage)
	msg := tgbotapi.NewMessage(chatID, "Describe the drink (for example: \"a large latte\" or \"small bottle of sparkling water\"):")
	msg.ReplyMarkup = keyboards.BackToMainMenu()
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleConfirmEstimate(ctx context.Context, chatID int64, user *domain.User) error {
	raw, ok := h.stateManager.GetTempData(user.TelegramID, state.TempPendingAmount)
	if !ok {
		return h.sendText(chatID, "Nothing to confirm. Use /start to show the menu.")
	}
	amount, ok := raw.(float64)
	if !ok || amount <= 0 {
		return h.sendText(chatID, "Nothing to confirm. Use /start to show the menu.")
	}

	note := ""
	if rawNote, ok := h.stateManager.GetTempData(user.TelegramID, state.TempPendingNote); ok {
		note, _ = rawNote.(string)
	}

	h.stateManager.ClearTempData(user.TelegramID)
	h.stateManager.SetUserState(user.TelegramID, state.None)

	if _, err := h.deps.IntakeSvc.Add(ctx, user.ID, amount, time.Now(), note); err != nil {
		logger.Error("Failed to log estimated intake", "user_id", user.ID, "error", err)
		return h.sendText(chatID, "Something went wrong while saving. Please try again.")
	}
	return h.sendProgress(ctx, chatID, user, fmt.Sprintf("✅ Logged %s.", formatVolume(user, amount)))
}

func (h *CallbackHandler) handleToday(ctx context.Context, chatID int64, user *domain.User) error {
	return h.sendProgress(ctx, chatID, user, "")
}

func (h *CallbackHandler) handleStreak(ctx context.Context, chatID int64, user *domain.User) error {
	streak, err := h.deps.StreakSvc.CurrentStreak(ctx, user.ID, time.Now())
	if err != nil {
		logger.Error("Failed to compute streak", "user_id", user.ID, "error", err)
		return h.sendText(chatID, "Could not compute your streak. Please try again.")
	}

	var text string
	switch streak {
	case 0:
		text = "No streak yet. Hit today's goal to start one! 💪"
	case 1:
		text = "🔥 1 day streak. Keep it going!"
	default:
		text = fmt.Sprintf("🔥 %d day streak. Keep it going!", streak)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.BackToMainMenu()
	_, err = h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleStats(ctx context.Context, chatID int64, user *domain.User, days int) error {
	now := time.Now()
	start := h.deps.Calendar.AddDays(h.deps.Calendar.DayOf(now), -(days - 1))

	stats, err := h.deps.StatsSvc.Aggregate(ctx, user.ID, start, now)
	if err != nil {
		logger.Error("Failed to aggregate statistics", "user_id", user.ID, "error", err)
		return h.sendText(chatID, "Could not compute statistics. Please try again.")
	}

	longest := ""
	if l := services.LongestStreak(stats.Records); l > 0 {
		longest = fmt.Sprintf("Longest streak: %d days\n", l)
	}

	text := fmt.Sprintf(`📈 *Last %d days*

Total: %s
Average on active days: %s
Goal met: %d of %d days (%.0f%%)
%s%s`,
		days,
		formatVolume(user, stats.TotalML),
		formatVolume(user, stats.AverageML),
		stats.CompletedCount, len(stats.Records), stats.CompletionRate*100,
		bestDayText(user, stats.BestDay),
		longest)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.BackToMainMenu()
	_, err = h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleExport(ctx context.Context, chatID int64, user *domain.User) error {
	now := time.Now()
	start := h.deps.Calendar.AddDays(h.deps.Calendar.DayOf(now), -29)

	stats, err := h.deps.StatsSvc.Aggregate(ctx, user.ID, start, now)
	if err != nil {
		logger.Error("Failed to aggregate for export", "user_id", user.ID, "error", err)
		return h.sendText(chatID, "Could not prepare the export. Please try again.")
	}

	csv := h.deps.ExportSvc.ToCSV(stats.Records)
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("hydration-%s.csv", now.Format("2006-01-02")),
		Bytes: []byte(csv),
	})
	doc.Caption = "Your last 30 days of hydration history."
	_, err = h.api.Send(doc)
	return err
}

func (h *CallbackHandler) handleSettings(chatID int64, user *domain.User) error {
	goal := h.deps.UserService.ActiveGoalML(user)
	goalSource := "recommended from weight and activity"
	if user.CustomGoalML != nil && *user.CustomGoalML > 0 {
		goalSource = "custom"
	}

	text := fmt.Sprintf(`⚙️ Your profile:

Weight: %.0f kg
Activity: %s
Units: %s
Daily goal: %s (%s)`,
		user.WeightKg,
		strings.ReplaceAll(string(user.ActivityLevel), "_", " "),
		unitName(user),
		formatVolume(user, goal),
		goalSource)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.SettingsMenu()
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handlePrompt(chatID int64, user *domain.User, newState, prompt string) error {
	h.stateManager.SetUserState(user.TelegramID, newState)
	msg := tgbotapi.NewMessage(chatID, prompt)
	msg.ReplyMarkup = keyboards.BackToMainMenu()
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleClearGoal(ctx context.Context, chatID int64, user *domain.User) error {
	if err := h.deps.UserService.ClearCustomGoal(ctx, user.ID); err != nil {
		logger.Error("Failed to clear custom goal", "user_id", user.ID, "error", err)
		return h.sendText(chatID, "Something went wrong. Please try again.")
	}
	user.CustomGoalML = nil
	return h.sendText(chatID,
		fmt.Sprintf("✅ Using the recommended goal: %s per day.", formatVolume(user, h.deps.UserService.ActiveGoalML(user))))
}

func (h *CallbackHandler) handleActivityMenu(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "How active are you on a typical day?")
	msg.ReplyMarkup = keyboards.ActivityMenu()
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleSetActivity(ctx context.Context, chatID int64, user *domain.User, level domain.ActivityLevel) error {
	if err := h.deps.UserService.SetActivityLevel(ctx, user.ID, level); err != nil {
		logger.Error("Failed to set activity level", "user_id", user.ID, "error", err)
		return h.sendText(chatID, "Something went wrong. Please try again.")
	}
	user.ActivityLevel = level
	return h.sendText(chatID,
		fmt.Sprintf("✅ Activity level saved. Your recommended goal is now %s per day.",
			formatVolume(user, h.deps.UserService.ActiveGoalML(user))))
}

func (h *CallbackHandler) handleUnitMenu(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Preferred unit for volumes:")
	msg.ReplyMarkup = keyboards.UnitMenu()
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleSetUnit(ctx context.Context, chatID int64, user *domain.User, unit domain.Unit) error {
	if err := h.deps.UserService.SetPreferredUnit(ctx, user.ID, unit); err != nil {
		logger.Error("Failed to set unit", "user_id", user.ID, "error", err)
		return h.sendText(chatID, "Something went wrong. Please try again.")
	}
	user.PreferredUnit = unit
	return h.sendText(chatID, fmt.Sprintf("✅ Volumes will be shown in %s.", unitName(user)))
}

func (h *CallbackHandler) handleDeleteLast(ctx context.Context, chatID int64, user *domain.User) error {
	entries, err := h.deps.IntakeSvc.EntriesOn(ctx, user.ID, time.Now())
	if err != nil {
		logger.Error("Failed to list entries", "user_id", user.ID, "error", err)
		return h.sendText(chatID, "Something went wrong. Please try again.")
	}
	if len(entries) == 0 {
		return h.sendText(chatID, "Nothing logged today yet.")
	}

	last := entries[0]
	if err := h.deps.IntakeSvc.Delete(ctx, user.ID, last.ID); err != nil {
		logger.Error("Failed to delete entry", "user_id", user.ID, "entry_id", last.ID, "error", err)
		return h.sendText(chatID, "Something went wrong. Please try again.")
	}
	return h.sendProgress(ctx, chatID, user, fmt.Sprintf("🗑️ Removed %s.", formatVolume(user, last.AmountML)))
}

// sendProgress sends today's goal progress, optionally prefixed with a
// confirmation line.
func (h *CallbackHandler) sendProgress(ctx context.Context, chatID int64, user *domain.User, prefix string) error {
	record, err := h.deps.DayRecordSvc.GetOrCreate(ctx, user.ID, time.Now())
	if err != nil {
		logger.Error("Failed to load day record", "user_id", user.ID, "error", err)
		return h.sendText(chatID, "Could not load today's progress. Please try again.")
	}

	percent := 0.0
	if record.TargetML > 0 {
		percent = record.AchievedML / record.TargetML * 100
	}

	var b strings.Builder
	if prefix != "" {
		b.WriteString(prefix)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "📊 Today: %s of %s (%.0f%%)\n",
		formatVolume(user, record.AchievedML), formatVolume(user, record.TargetML), percent)
	if record.Completed {
		b.WriteString("🎉 Goal reached, well done!")
	} else {
		fmt.Fprintf(&b, "%s to go.", formatVolume(user, record.TargetML-record.AchievedML))
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ReplyMarkup = keyboards.BackToMainMenu()
	_, err = h.api.Send(msg)
	return err
}

func (h *CallbackHandler) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := h.api.Send(msg)
	return err
}

func bestDayText(user *domain.User, best *domain.DayRecord) string {
	if best == nil || best.AchievedML <= 0 {
		return ""
	}
	return fmt.Sprintf("Best day: %s (%s)\n", best.Date.Format("Jan 2"), formatVolume(user, best.AchievedML))
}
