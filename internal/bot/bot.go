package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/aquamate/hydration-helper/internal/bot/handlers"
	"github.com/aquamate/hydration-helper/internal/bot/state"
	"github.com/aquamate/hydration-helper/internal/domain"
	"github.com/aquamate/hydration-helper/internal/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the telegram API and dispatches updates to handlers.
type Bot struct {
	api           *tgbotapi.BotAPI
	updateHandler *handlers.UpdateHandler
}

// New creates a bot from a token and the handler dependencies.
func New(token string, deps handlers.Dependencies, stateManager state.StateManager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot authorized", "username", api.Self.UserName)
	return &Bot{
		api:           api,
		updateHandler: handlers.NewUpdateHandler(api, deps, stateManager),
	}, nil
}

// Start runs the long-polling loop until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	logger.Info("Bot started, listening for updates")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			handleCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			if err := b.updateHandler.Handle(handleCtx, update); err != nil {
				logger.Error("Failed to handle update", "error", err)
			}
			cancel()
		}
	}
}

// Notify sends a plain message to the user's chat. It makes the bot usable
// as the reminder scheduler's delivery channel.
func (b *Bot) Notify(ctx context.Context, user *domain.User, message string) error {
	msg := tgbotapi.NewMessage(user.TelegramID, message)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder to user %d: %w", user.ID, err)
	}
	return nil
}
