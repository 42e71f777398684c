package services

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Action is one button of a choice prompt.
type Action struct {
	Label string
	Data  string
}

// Messenger is the outbound side of the chat transport.
type Messenger interface {
	SendText(chatID int64, text string) error
	// SendStyled sends text formatted as Telegram HTML.
	SendStyled(chatID int64, text string) error
	SendChoice(chatID int64, text string, actions ...Action) error
}

// Sender is the subset of *tgbotapi.BotAPI used to deliver messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type TelegramMessenger struct {
	bot Sender
}

func NewTelegramMessenger(bot Sender) *TelegramMessenger {
	return &TelegramMessenger{bot: bot}
}

func (m *TelegramMessenger) SendText(chatID int64, text string) error {
	_, err := m.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (m *TelegramMessenger) SendStyled(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := m.bot.Send(msg)
	return err
}

func (m *TelegramMessenger) SendChoice(chatID int64, text string, actions ...Action) error {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(actions))
	for _, a := range actions {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(a.Label, a.Data),
		))
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err := m.bot.Send(msg)
	return err
}

// AnswerCallback acknowledges a button press so the client stops its spinner.
func (m *TelegramMessenger) AnswerCallback(callbackID string) error {
	_, err := m.bot.Request(tgbotapi.NewCallback(callbackID, ""))
	return err
}
