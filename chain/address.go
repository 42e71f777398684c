package chain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

var ErrInvalidAddress = errors.New("invalid solana address")

// ParseAddress checks that s is a base58 encoded 32 byte public key. It is purely local.
func ParseAddress(s string) (solana.PublicKey, error) {
	s = strings.TrimSpace(s)
	if len(s) < 32 || len(s) > 44 {
		return solana.PublicKey{}, fmt.Errorf("%w: length %d", ErrInvalidAddress, len(s))
	}
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return key, nil
}
