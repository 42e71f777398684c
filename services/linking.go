package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lottery_bot/chain"
	"lottery_bot/db"
	"lottery_bot/logger"
	"lottery_bot/models"
)

// Event is an inbound chat event addressed to the linking workflow.
type Event struct {
	UserID   int64
	ChatID   int64
	Username string
	Text     string
}

type BalanceOracle interface {
	GetBalance(ctx context.Context, owner string) (chain.Balance, error)
}

type TicketStore interface {
	FindByUserOrWallet(ctx context.Context, userID int64, wallet string) (*models.Ticket, error)
	FindByUser(ctx context.Context, userID int64) (*models.Ticket, error)
	Issue(ctx context.Context, userID int64, username, wallet string) (*models.Ticket, error)
}

// Outcome is the result of handling one text event.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeInvalidAddress
	OutcomeAlreadyLinked
	OutcomeChainFailure
	OutcomeInsufficientBalance
	OutcomeIssued
	OutcomeIssueFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeInvalidAddress:
		return "invalid_address"
	case OutcomeAlreadyLinked:
		return "already_linked"
	case OutcomeChainFailure:
		return "chain_failure"
	case OutcomeInsufficientBalance:
		return "insufficient_balance"
	case OutcomeIssued:
		return "issued"
	case OutcomeIssueFailed:
		return "issue_failed"
	default:
		return "unknown"
	}
}

type LinkingWorkflow struct {
	pending    PendingStore
	oracle     BalanceOracle
	tickets    TicketStore
	messenger  Messenger
	notifier   *Notifier
	minHolding decimal.Decimal
}

func NewLinkingWorkflow(
	pending PendingStore,
	oracle BalanceOracle,
	tickets TicketStore,
	messenger Messenger,
	notifier *Notifier,
	minHolding decimal.Decimal,
) *LinkingWorkflow {
	return &LinkingWorkflow{
		pending:    pending,
		oracle:     oracle,
		tickets:    tickets,
		messenger:  messenger,
		notifier:   notifier,
		minHolding: minHolding,
	}
}

func (w *LinkingWorkflow) Welcome(ev Event) {
	w.reply(w.messenger.SendChoice(ev.ChatID, textWelcome, welcomeActions...), ev)
}

// StartLinking marks the user as expected to send a wallet address.
func (w *LinkingWorkflow) StartLinking(ctx context.Context, ev Event) {
	if err := w.pending.Set(ctx, ev.UserID); err != nil {
		logger.Error("failed to set pending link", zap.Int64("user", ev.UserID), zap.Error(err))
		w.reply(w.messenger.SendText(ev.ChatID, textIssueFailure), ev)
		return
	}
	w.reply(w.messenger.SendChoice(ev.ChatID, textAskAddress, askAddressActions...), ev)
}

func (w *LinkingWorkflow) CancelLinking(ctx context.Context, ev Event) {
	if err := w.pending.Clear(ctx, ev.UserID); err != nil {
		logger.Error("failed to clear pending link", zap.Int64("user", ev.UserID), zap.Error(err))
	}
	w.reply(w.messenger.SendText(ev.ChatID, textCancelled), ev)
}

func (w *LinkingWorkflow) MyTicket(ctx context.Context, ev Event) {
	ticket, err := w.tickets.FindByUser(ctx, ev.UserID)
	if err != nil {
		logger.Error("failed to look up ticket", zap.Int64("user", ev.UserID), zap.Error(err))
		w.reply(w.messenger.SendText(ev.ChatID, textIssueFailure), ev)
		return
	}
	if ticket == nil {
		w.reply(w.messenger.SendChoice(ev.ChatID, textNoTicket, welcomeActions[0]), ev)
		return
	}
	w.reply(w.messenger.SendStyled(ev.ChatID, myTicketText(ticket)), ev)
}

// HandleText treats ev.Text as a wallet address if the user is awaiting one.
// The pending flag is taken for the duration of the check so a second message
// from the same user is not verified concurrently.
func (w *LinkingWorkflow) HandleText(ctx context.Context, ev Event) Outcome {
	pending, err := w.pending.Take(ctx, ev.UserID)
	if err != nil {
		logger.Error("failed to read pending link", zap.Int64("user", ev.UserID), zap.Error(err))
		return OutcomeIgnored
	}
	if !pending {
		return OutcomeIgnored
	}

	address, err := chain.ParseAddress(ev.Text)
	if err != nil {
		if err := w.pending.Set(ctx, ev.UserID); err != nil {
			logger.Error("failed to restore pending link", zap.Int64("user", ev.UserID), zap.Error(err))
		}
		w.reply(w.messenger.SendText(ev.ChatID, textInvalidAddress), ev)
		return OutcomeInvalidAddress
	}
	wallet := address.String()

	existing, err := w.tickets.FindByUserOrWallet(ctx, ev.UserID, wallet)
	if err != nil {
		logger.Error("failed to look up existing ticket", zap.Int64("user", ev.UserID), zap.Error(err))
		w.reply(w.messenger.SendText(ev.ChatID, textIssueFailure), ev)
		return OutcomeIssueFailed
	}
	if existing != nil {
		w.reply(w.messenger.SendStyled(ev.ChatID, alreadyLinkedText(existing)), ev)
		return OutcomeAlreadyLinked
	}

	w.reply(w.messenger.SendText(ev.ChatID, textVerifying), ev)

	balance, err := w.oracle.GetBalance(ctx, wallet)
	if err != nil {
		logger.Error("balance check failed",
			zap.Int64("user", ev.UserID), zap.String("wallet", wallet), zap.Error(err))
		w.reply(w.messenger.SendText(ev.ChatID, textChainFailure), ev)
		return OutcomeChainFailure
	}

	if balance.Amount.LessThan(w.minHolding) {
		logger.Info("insufficient balance",
			zap.Int64("user", ev.UserID), zap.String("wallet", wallet),
			zap.String("balance", balance.Amount.String()))
		w.reply(w.messenger.SendText(ev.ChatID, insufficientText(balance.Amount, w.minHolding)), ev)
		return OutcomeInsufficientBalance
	}

	ticket, err := w.tickets.Issue(ctx, ev.UserID, ev.Username, wallet)
	var linked *db.AlreadyLinkedError
	switch {
	case errors.As(err, &linked):
		w.reply(w.messenger.SendStyled(ev.ChatID, alreadyLinkedText(linked.Ticket)), ev)
		return OutcomeAlreadyLinked
	case err != nil:
		logger.Error("ticket issue failed",
			zap.Int64("user", ev.UserID), zap.String("wallet", wallet), zap.Error(err))
		w.reply(w.messenger.SendText(ev.ChatID, textIssueFailure), ev)
		return OutcomeIssueFailed
	}

	logger.Info("ticket issued",
		zap.Int64("user", ev.UserID), zap.String("wallet", wallet), zap.String("ticket", ticket.TicketNumber))
	w.notifier.TicketIssued(ctx, ev.ChatID, ticket)
	return OutcomeIssued
}

func (w *LinkingWorkflow) reply(err error, ev Event) {
	if err != nil {
		logger.Warn("failed to send reply", zap.Int64("chat", ev.ChatID), zap.Error(err))
	}
}

