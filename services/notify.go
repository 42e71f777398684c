package services

import (
	"context"

	"go.uber.org/zap"

	"lottery_bot/logger"
	"lottery_bot/models"
)

// EventPublisher forwards issuance events to an external sink.
type EventPublisher interface {
	PublishTicketIssued(ctx context.Context, ticket *models.Ticket) error
}

// Notifier fans an issued ticket out to the user, the admin chat and the event sink.
// Only the user message is mandatory; the rest are best-effort.
type Notifier struct {
	messenger   Messenger
	adminChatID int64
	publisher   EventPublisher
}

func NewNotifier(messenger Messenger, adminChatID int64, publisher EventPublisher) *Notifier {
	if adminChatID == 0 {
		logger.Warn("ADMIN_CHAT_ID not set, admin notifications disabled")
	}
	if publisher == nil {
		logger.Info("no event publisher configured, ticket events disabled")
	}
	return &Notifier{
		messenger:   messenger,
		adminChatID: adminChatID,
		publisher:   publisher,
	}
}

func (n *Notifier) TicketIssued(ctx context.Context, chatID int64, ticket *models.Ticket) {
	if err := n.messenger.SendStyled(chatID, issuedText(ticket)); err != nil {
		logger.Error("failed to send ticket confirmation",
			zap.Int64("chat", chatID), zap.String("ticket", ticket.TicketNumber), zap.Error(err))
	}

	if n.adminChatID != 0 {
		if err := n.messenger.SendStyled(n.adminChatID, adminIssuedText(ticket)); err != nil {
			logger.Warn("failed to notify admin", zap.String("ticket", ticket.TicketNumber), zap.Error(err))
		}
	}

	if n.publisher != nil {
		if err := n.publisher.PublishTicketIssued(ctx, ticket); err != nil {
			logger.Warn("failed to publish ticket event", zap.String("ticket", ticket.TicketNumber), zap.Error(err))
		}
	}
}
