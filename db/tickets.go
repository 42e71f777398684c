package db

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lottery_bot/logger"
	"lottery_bot/models"
)

const (
	ticketAlphabet   = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	maxIssueAttempts = 5

	mysqlDuplicateEntry = 1062
)

var ErrTicketNumberExhausted = errors.New("could not generate a unique ticket number")

// AlreadyLinkedError is returned by Issue when the user or the wallet already holds a ticket.
type AlreadyLinkedError struct {
	Ticket *models.Ticket
}

func (e *AlreadyLinkedError) Error() string {
	return fmt.Sprintf("already linked to ticket %s", e.Ticket.TicketNumber)
}

type TicketStore struct {
	db       *gorm.DB
	generate func() (string, error)
}

func NewTicketStore(db *gorm.DB) *TicketStore {
	return &TicketStore{db: db, generate: GenerateTicketNumber}
}

// FindByUserOrWallet returns the ticket held by userID or by wallet, or nil if neither has one.
func (s *TicketStore) FindByUserOrWallet(ctx context.Context, userID int64, wallet string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Or("wallet = ?", wallet).
		Order("id").
		Take(&ticket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *TicketStore) FindByUser(ctx context.Context, userID int64) (*models.Ticket, error) {
	var ticket models.Ticket
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&ticket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Issue inserts a new ticket. Unique violations on the user or wallet yield *AlreadyLinkedError;
// a ticket number collision is retried with a fresh number.
func (s *TicketStore) Issue(ctx context.Context, userID int64, username, wallet string) (*models.Ticket, error) {
	for attempt := 1; attempt <= maxIssueAttempts; attempt++ {
		number, err := s.generate()
		if err != nil {
			return nil, fmt.Errorf("generating ticket number: %w", err)
		}

		ticket := &models.Ticket{
			UserID:       userID,
			Username:     username,
			Wallet:       wallet,
			TicketNumber: number,
		}
		err = s.db.WithContext(ctx).Create(ticket).Error
		if err == nil {
			return ticket, nil
		}
		if !isDuplicate(err) {
			return nil, err
		}

		existing, findErr := s.FindByUserOrWallet(ctx, userID, wallet)
		if findErr != nil {
			return nil, findErr
		}
		if existing != nil {
			return nil, &AlreadyLinkedError{Ticket: existing}
		}

		logger.Warn("ticket number collision, regenerating",
			zap.String("ticket", number), zap.Int("attempt", attempt))
	}

	return nil, ErrTicketNumberExhausted
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

// GenerateTicketNumber returns a code of the form LB-XXXX-XXXX.
func GenerateTicketNumber() (string, error) {
	buf := []byte("LB-XXXX-XXXX")
	limit := big.NewInt(int64(len(ticketAlphabet)))
	for i := range buf {
		if buf[i] != 'X' {
			continue
		}
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		buf[i] = ticketAlphabet[n.Int64()]
	}
	return string(buf), nil
}
