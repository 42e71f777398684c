package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"lottery_bot/models"
)

const TypeTicketIssued = "ticket.issued"

type TicketIssuedEvent struct {
	Type         string    `json:"type"`
	UserID       int64     `json:"user_id"`
	Username     string    `json:"username,omitempty"`
	Wallet       string    `json:"wallet"`
	TicketNumber string    `json:"ticket_number"`
	CreatedAt    time.Time `json:"created_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
	}
}

// PublishTicketIssued writes one event keyed by user ID so a user's events stay ordered.
func (p *Producer) PublishTicketIssued(ctx context.Context, ticket *models.Ticket) error {
	data, err := json.Marshal(TicketIssuedEvent{
		Type:         TypeTicketIssued,
		UserID:       ticket.UserID,
		Username:     ticket.Username,
		Wallet:       ticket.Wallet,
		TicketNumber: ticket.TicketNumber,
		CreatedAt:    ticket.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encoding ticket event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(ticket.UserID, 10)),
		Value: data,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
