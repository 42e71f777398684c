package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lottery_bot/logger"
)

// ErrChainQuery wraps every RPC or network failure, including timeouts. Callers must not read it as a zero balance.
var ErrChainQuery = errors.New("chain query failed")

// AccountLookup is the result of reading a token account. Found is false when the account does not exist.
type AccountLookup struct {
	Found  bool
	Amount uint64
}

// Client is the chain-query collaborator.
type Client interface {
	DeriveTokenAccount(mint, owner solana.PublicKey) (solana.PublicKey, error)
	GetTokenAccount(ctx context.Context, account solana.PublicKey) (AccountLookup, error)
	GetMintDecimals(ctx context.Context, mint solana.PublicKey) (uint8, error)
}

type Balance struct {
	Amount   decimal.Decimal
	Decimals uint8
	Found    bool
}

type Oracle struct {
	client  Client
	mint    solana.PublicKey
	timeout time.Duration

	mu       sync.Mutex
	decimals *uint8
}

func NewOracle(client Client, mint solana.PublicKey, timeout time.Duration) *Oracle {
	return &Oracle{
		client:  client,
		mint:    mint,
		timeout: timeout,
	}
}

// GetBalance returns owner's balance of the configured mint scaled by the mint decimals.
func (o *Oracle) GetBalance(ctx context.Context, owner string) (Balance, error) {
	ownerKey, err := ParseAddress(owner)
	if err != nil {
		return Balance{}, err
	}

	account, err := o.client.DeriveTokenAccount(o.mint, ownerKey)
	if err != nil {
		return Balance{}, fmt.Errorf("deriving token account for %s: %w", owner, err)
	}

	decimals, err := o.mintDecimals(ctx)
	if err != nil {
		return Balance{}, err
	}

	lookup, err := o.tokenAccount(ctx, account)
	if err != nil {
		return Balance{}, err
	}
	if !lookup.Found {
		logger.Debug("token account not found, treating as zero balance",
			zap.String("owner", owner), zap.String("account", account.String()))
		return Balance{Amount: decimal.Zero, Decimals: decimals}, nil
	}

	return Balance{
		Amount:   Normalize(lookup.Amount, decimals),
		Decimals: decimals,
		Found:    true,
	}, nil
}

// Normalize converts a raw token amount into whole-token units.
func Normalize(raw uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), -int32(decimals))
}

func (o *Oracle) mintDecimals(ctx context.Context) (uint8, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.decimals != nil {
		return *o.decimals, nil
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	d, err := o.client.GetMintDecimals(ctx, o.mint)
	if err != nil {
		return 0, fmt.Errorf("%w: mint decimals for %s: %v", ErrChainQuery, o.mint, err)
	}
	logger.Info("mint decimals cached", zap.String("mint", o.mint.String()), zap.Uint8("decimals", d))
	o.decimals = &d
	return d, nil
}

func (o *Oracle) tokenAccount(ctx context.Context, account solana.PublicKey) (AccountLookup, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	lookup, err := o.client.GetTokenAccount(ctx, account)
	if err != nil {
		return AccountLookup{}, fmt.Errorf("%w: token account %s: %v", ErrChainQuery, account, err)
	}
	return lookup, nil
}
