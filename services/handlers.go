package services

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"lottery_bot/logger"
)

// UpdateHandler consumes raw Telegram updates from either polling or the webhook.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

type Handler struct {
	workflow  *LinkingWorkflow
	messenger *TelegramMessenger
}

func NewHandler(workflow *LinkingWorkflow, messenger *TelegramMessenger) *Handler {
	return &Handler{workflow: workflow, messenger: messenger}
}

func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message != nil {
		h.handleMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		h.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	ev := Event{
		UserID:   msg.From.ID,
		ChatID:   msg.Chat.ID,
		Username: msg.From.UserName,
		Text:     msg.Text,
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			h.workflow.Welcome(ev)
		case "link":
			h.workflow.StartLinking(ctx, ev)
		case "ticket":
			h.workflow.MyTicket(ctx, ev)
		case "cancel":
			h.workflow.CancelLinking(ctx, ev)
		default:
			h.workflow.reply(h.messenger.SendText(ev.ChatID, textUnknownCommand), ev)
		}
		return
	}

	if msg.Text == "" {
		return
	}
	outcome := h.workflow.HandleText(ctx, ev)
	logger.Debug("text handled", zap.Int64("user", ev.UserID), zap.Stringer("outcome", outcome))
}

func (h *Handler) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if err := h.messenger.AnswerCallback(callback.ID); err != nil {
		logger.Debug("failed to answer callback", zap.Error(err))
	}
	if callback.From == nil {
		return
	}

	chatID := callback.From.ID
	if callback.Message != nil && callback.Message.Chat != nil {
		chatID = callback.Message.Chat.ID
	}
	ev := Event{
		UserID:   callback.From.ID,
		ChatID:   chatID,
		Username: callback.From.UserName,
	}
	logger.Debug("received callback", zap.String("data", callback.Data), zap.Int64("user", ev.UserID))

	switch callback.Data {
	case ActionLinkWallet:
		h.workflow.StartLinking(ctx, ev)
	case ActionMyTicket:
		h.workflow.MyTicket(ctx, ev)
	case ActionCancel:
		h.workflow.CancelLinking(ctx, ev)
	default:
		logger.Warn("unknown callback data", zap.String("data", callback.Data))
	}
}
