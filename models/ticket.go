package models

import "time"

// Ticket is one issued Golden Ticket. Rows are insert-only.
type Ticket struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       int64     `gorm:"uniqueIndex;not null"`
	Username     string    `gorm:"size:255"`
	Wallet       string    `gorm:"size:64;uniqueIndex;not null"`
	TicketNumber string    `gorm:"size:16;uniqueIndex;not null"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime;<-:create"`
}
