package services

import (
	"fmt"
	"html"

	"github.com/shopspring/decimal"

	"lottery_bot/models"
)

const (
	ActionLinkWallet = "link_wallet"
	ActionMyTicket   = "my_ticket"
	ActionCancel     = "cancel"
)

const (
	textWelcome        = "⚡ LILBONE R2E Lottery\n\nUse the buttons below."
	textAskAddress     = "Send your Solana address here."
	textCancelled      = "🚫 Wallet linking cancelled."
	textInvalidAddress = "❌ That doesn't look like a valid Solana address. Please send it again."
	textVerifying      = "🔎 Checking your balance..."
	textChainFailure   = "⚠️ Could not check your balance right now. Please try again later with 🔗 Link Wallet."
	textIssueFailure   = "❌ Something went wrong while issuing your ticket. Please try again later."
	textNoTicket       = "No ticket yet. Link your wallet first."
	textUnknownCommand = "❌ Unknown command. Use /start."
)

var (
	welcomeActions = []Action{
		{Label: "🔗 Link Wallet", Data: ActionLinkWallet},
		{Label: "🎟 My Ticket", Data: ActionMyTicket},
	}
	askAddressActions = []Action{
		{Label: "🚫 Cancel", Data: ActionCancel},
	}
)

func alreadyLinkedText(ticket *models.Ticket) string {
	return fmt.Sprintf("ℹ️ Already linked. Golden Ticket: <b>%s</b>\nWallet: <code>%s</code>",
		html.EscapeString(ticket.TicketNumber), html.EscapeString(ticket.Wallet))
}

func insufficientText(balance, required decimal.Decimal) string {
	return fmt.Sprintf("❌ Not enough tokens.\nYour balance: %s\nRequired: %s",
		balance.String(), required.String())
}

func issuedText(ticket *models.Ticket) string {
	return fmt.Sprintf("🎟 Your Golden Ticket: <b>%s</b>\nWallet: <code>%s</code>\nGood luck!",
		html.EscapeString(ticket.TicketNumber), html.EscapeString(ticket.Wallet))
}

func myTicketText(ticket *models.Ticket) string {
	return fmt.Sprintf("🎟 Golden Ticket: <b>%s</b>\nWallet: <code>%s</code>\nIssued: %s",
		html.EscapeString(ticket.TicketNumber), html.EscapeString(ticket.Wallet),
		ticket.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))
}

func adminIssuedText(ticket *models.Ticket) string {
	handle := "(no username)"
	if ticket.Username != "" {
		handle = "@" + ticket.Username
	}
	return fmt.Sprintf("✨ New Golden Ticket\n👤 %s (ID %d)\n👛 <code>%s</code>\n🎟 <b>%s</b>",
		html.EscapeString(handle), ticket.UserID,
		html.EscapeString(ticket.Wallet), html.EscapeString(ticket.TicketNumber))
}
