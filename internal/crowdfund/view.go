package crowdfund

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// IsExpired reports whether the deadline has passed. Client-side
// convenience only; the contract is authoritative at execution time.
func (c Campaign) IsExpired(now time.Time) bool {
	return now.After(c.Deadline)
}

// IsDonatable gates the donate action: active and not expired.
func (c Campaign) IsDonatable(now time.Time) bool {
	return c.Active && !c.IsExpired(now)
}

// ProgressPercent returns raised/goal as a percentage with one decimal
// of precision, clamped to [0, 100]. The contract may report
// raised > goal; display must not break on it.
func (c Campaign) ProgressPercent() float64 {
	if c.Goal == nil || c.Goal.Sign() <= 0 || c.Raised == nil || c.Raised.Sign() <= 0 {
		return 0
	}
	permille := new(big.Int).Mul(c.Raised, big.NewInt(1000))
	permille.Div(permille, c.Goal)
	if permille.Cmp(big.NewInt(1000)) > 0 {
		return 100
	}
	return float64(permille.Int64()) / 10
}

// Remaining returns goal - raised, clamped at zero.
func (c Campaign) Remaining() *big.Int {
	if c.Goal == nil {
		return new(big.Int)
	}
	rem := new(big.Int).Set(c.Goal)
	if c.Raised != nil {
		rem.Sub(rem, c.Raised)
	}
	if rem.Sign() < 0 {
		rem.SetInt64(0)
	}
	return rem
}

// DaysLeft returns the whole days until the deadline, rounded up,
// never negative.
func (c Campaign) DaysLeft(now time.Time) int {
	left := c.Deadline.Sub(now)
	if left <= 0 {
		return 0
	}
	days := int((left + 24*time.Hour - 1) / (24 * time.Hour))
	return days
}

// ShortAddress renders an address as 0x1234...abcd for display.
func ShortAddress(a common.Address) string {
	hex := a.Hex()
	return fmt.Sprintf("%s...%s", hex[:6], hex[len(hex)-4:])
}
