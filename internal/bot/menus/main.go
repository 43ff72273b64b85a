package menus

import (
	"github.com/aquamate/hydration-helper/internal/bot/keyboards"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api *tgbotapi.BotAPI, chatID int64) error {
	text := `💧 *Hydration Helper* — your daily water tracker

• Log drinks with one tap or describe them in plain words
• Track your streak and daily goal progress
• The goal adapts to your weight and activity level

Pick an action:`

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}
