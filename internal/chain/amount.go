package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const etherDecimals = 18

// ParseEther converts a decimal ETH string (e.g. "1.5") to wei.
// Rejects empty, malformed, negative and sub-wei inputs so that no
// transaction is ever built from an unparseable amount.
func ParseEther(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.Sign() < 0 {
		return nil, fmt.Errorf("amount must not be negative: %s", s)
	}
	if d.Exponent() < -etherDecimals {
		return nil, fmt.Errorf("amount %s has more than %d decimal places", s, etherDecimals)
	}

	return d.Shift(etherDecimals).BigInt(), nil
}

// ParsePositiveEther is ParseEther plus a strictly-positive check, used
// for donation amounts and campaign goals.
func ParsePositiveEther(s string) (*big.Int, error) {
	wei, err := ParseEther(s)
	if err != nil {
		return nil, err
	}
	if wei.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be positive: %s", s)
	}
	return wei, nil
}

// FormatEther renders wei as a decimal ETH string with trailing zeros
// trimmed ("1500000000000000000" -> "1.5").
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -etherDecimals).String()
}
