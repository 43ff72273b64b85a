package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aquamate/hydration-helper/internal/bot/keyboards"
	"github.com/aquamate/hydration-helper/internal/bot/state"
	"github.com/aquamate/hydration-helper/internal/domain"
	apperrors "github.com/aquamate/hydration-helper/internal/errors"
	"github.com/aquamate/hydration-helper/internal/logger"
	"github.com/aquamate/hydration-helper/internal/services"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TextHandler handles plain text messages according to conversation state.
type TextHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewTextHandler creates a new text handler
func NewTextHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *TextHandler {
	return &TextHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a text message
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	switch h.stateManager.GetUserState(user.TelegramID) {
	case state.WaitingForCustomAmount:
		return h.handleCustomAmount(ctx, chatID, user, text)
	case state.WaitingForBeverage:
		return h.handleBeverage(ctx, chatID, user, text)
	case state.WaitingForWeight:
		return h.handleWeight(ctx, chatID, user, text)
	case state.WaitingForCustomGoal:
		return h.handleCustomGoal(ctx, chatID, user, text)
	default:
		return h.sendText(chatID, "I didn't catch that. Use /start to show the menu.")
	}
}

// handleCustomAmount parses "<number> [note]" in the user's preferred unit.
func (h *TextHandler) handleCustomAmount(ctx context.Context, chatID int64, user *domain.User, text string) error {
	numberPart, note, _ := strings.Cut(text, " ")
	amount, err := parseNumber(numberPart)
	if err != nil {
		return h.sendText(chatID, fmt.Sprintf("Please send a number in %s, like \"300\" or \"300 green tea\".", unitName(user)))
	}

	amountML := services.ToMilliliters(user.PreferredUnit, amount)
	h.stateManager.SetUserState(user.TelegramID, state.None)

	if _, err := h.deps.IntakeSvc.Add(ctx, user.ID, amountML, time.Now(), strings.TrimSpace(note)); err != nil {
		if errors.Is(err, apperrors.ErrInvalidAmount) {
			return h.sendText(chatID, "The amount has to be greater than zero.")
		}
		logger.Error("Failed to log intake", "user_id", user.ID, "error", err)
		return h.sendText(chatID, "Something went wrong while saving. Please try again.")
	}
	return h.sendConfirmation(ctx, chatID, user, amountML)
}

// handleBeverage asks the estimator for a volume and stores it as pending
// temp data until the user confirms.
func (h *TextHandler) handleBeverage(ctx context.Context, chatID int64, user *domain.User, text string) error {
	if h.deps.Estimator == nil {
		h.stateManager.SetUserState(user.TelegramID, state.None)
		return h.sendText(chatID, "Drink descriptions are not available right now. Please log an amount instead.")
	}

	estimateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	amountML, err := h.deps.Estimator.EstimateVolumeML(estimateCtx, text)
	if err != nil {
		logger.Error("Beverage estimation failed", "user_id", user.ID, "error", err)
		return h.sendText(chatID, "I couldn't estimate that drink. Try describing it differently, or log an amount directly.")
	}

	h.stateManager.SetTempData(user.TelegramID, state.TempPendingAmount, amountML)
	h.stateManager.SetTempData(user.TelegramID, state.TempPendingNote, text)

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("That looks like about %s. Log it?", formatVolume(user, amountML)))
	msg.ReplyMarkup = keyboards.ConfirmEstimateMenu()
	_, err = h.api.Send(msg)
	return err
}

func (h *TextHandler) handleWeight(ctx context.Context, chatID int64, user *domain.User, text string) error {
	weight, err := parseNumber(text)
	if err != nil {
		return h.sendText(chatID, "Please send your weight in kilograms, like \"70\".")
	}

	if err := h.deps.UserService.SetWeight(ctx, user.ID, weight); err != nil {
		if errors.Is(err, apperrors.ErrInvalidWeight) {
			return h.sendText(chatID, "That doesn't look like a valid weight. Please send a positive number.")
		}
		logger.Error("Failed to set weight", "user_id", user.ID, "error", err)
		return h.sendText(chatID, "Something went wrong. Please try again.")
	}

	user.WeightKg = weight
	h.stateManager.SetUserState(user.TelegramID, state.None)
	return h.sendText(chatID,
		fmt.Sprintf("✅ Weight saved. Your recommended goal is now %s per day.",
			formatVolume(user, h.deps.UserService.ActiveGoalML(user))))
}

func (h *TextHandler) handleCustomGoal(ctx context.Context, chatID int64, user *domain.User, text string) error {
	goal, err := parseNumber(text)
	if err != nil {
		return h.sendText(chatID, fmt.Sprintf("Please send your goal as a number in %s.", unitName(user)))
	}

	goalML := services.ToMilliliters(user.PreferredUnit, goal)
	if err := h.deps.UserService.SetCustomGoal(ctx, user.ID, goalML); err != nil {
		if errors.Is(err, apperrors.ErrInvalidGoal) {
			return h.sendText(chatID, "The goal has to be greater than zero.")
		}
		logger.Error("Failed to set custom goal", "user_id", user.ID, "error", err)
		return h.sendText(chatID, "Something went wrong. Please try again.")
	}

	user.CustomGoalML = &goalML
	h.stateManager.SetUserState(user.TelegramID, state.None)
	return h.sendText(chatID, fmt.Sprintf("✅ Daily goal set to %s.", formatVolume(user, goalML)))
}

// sendConfirmation reports the new daily total after a successful log.
func (h *TextHandler) sendConfirmation(ctx context.Context, chatID int64, user *domain.User, amountML float64) error {
	record, err := h.deps.DayRecordSvc.GetOrCreate(ctx, user.ID, time.Now())
	if err != nil {
		logger.Error("Failed to load day record", "user_id", user.ID, "error", err)
		return h.sendText(chatID, fmt.Sprintf("✅ Logged %s.", formatVolume(user, amountML)))
	}

	text := fmt.Sprintf("✅ Logged %s. Today: %s of %s.",
		formatVolume(user, amountML), formatVolume(user, record.AchievedML), formatVolume(user, record.TargetML))
	if record.Completed {
		text += " 🎉 Goal reached!"
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.BackToMainMenu()
	_, err = h.api.Send(msg)
	return err
}

func (h *TextHandler) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := h.api.Send(msg)
	return err
}

// parseNumber accepts both "1,5" and "1.5".
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}
