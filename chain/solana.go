package chain

import (
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// SolanaClient implements Client against a JSON-RPC endpoint.
type SolanaClient struct {
	rpc *rpc.Client
}

func NewSolanaClient(endpoint string) *SolanaClient {
	return &SolanaClient{rpc: rpc.New(endpoint)}
}

func (c *SolanaClient) DeriveTokenAccount(mint, owner solana.PublicKey) (solana.PublicKey, error) {
	account, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	return account, err
}

func (c *SolanaClient) GetTokenAccount(ctx context.Context, account solana.PublicKey) (AccountLookup, error) {
	res, err := c.rpc.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentConfirmed,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return AccountLookup{}, nil
	}
	if err != nil {
		return AccountLookup{}, err
	}

	var acct token.Account
	if err := bin.NewBinDecoder(res.Value.Data.GetBinary()).Decode(&acct); err != nil {
		return AccountLookup{}, fmt.Errorf("decoding token account %s: %w", account, err)
	}
	return AccountLookup{Found: true, Amount: acct.Amount}, nil
}

func (c *SolanaClient) GetMintDecimals(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	res, err := c.rpc.GetTokenSupply(ctx, mint, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, err
	}
	if res.Value == nil {
		return 0, fmt.Errorf("empty token supply for mint %s", mint)
	}
	return res.Value.Decimals, nil
}
