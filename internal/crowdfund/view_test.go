package crowdfund

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name   string
		raised int64
		goal   int64
		want   float64
	}{
		{"three of ten", 3, 10, 30.0},
		{"one third", 1, 3, 33.3},
		{"exact goal", 10, 10, 100},
		{"over goal clamps", 15, 10, 100},
		{"nothing raised", 0, 10, 0},
		{"zero goal", 3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Campaign{Raised: big.NewInt(tt.raised), Goal: big.NewInt(tt.goal)}
			if got := c.ProgressPercent(); got != tt.want {
				t.Errorf("ProgressPercent() = %v, want %v", got, tt.want)
			}
		})
	}

	var empty Campaign
	if got := empty.ProgressPercent(); got != 0 {
		t.Errorf("ProgressPercent() with nil amounts = %v, want 0", got)
	}
}

func TestRemaining(t *testing.T) {
	tests := []struct {
		name   string
		raised int64
		goal   int64
		want   int64
	}{
		{"partial", 3, 10, 7},
		{"fully funded", 10, 10, 0},
		{"over goal clamps", 15, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Campaign{Raised: big.NewInt(tt.raised), Goal: big.NewInt(tt.goal)}
			if got := c.Remaining(); got.Int64() != tt.want {
				t.Errorf("Remaining() = %s, want %d", got, tt.want)
			}
		})
	}

	var empty Campaign
	if got := empty.Remaining(); got.Sign() != 0 {
		t.Errorf("Remaining() with nil goal = %s, want 0", got)
	}
}

func TestIsDonatable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name     string
		active   bool
		deadline time.Time
		want     bool
	}{
		{"active and open", true, future, true},
		{"active but expired", true, past, false},
		{"closed but open", false, future, false},
		{"closed and expired", false, past, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Campaign{Active: tt.active, Deadline: tt.deadline}
			if got := c.IsDonatable(now); got != tt.want {
				t.Errorf("IsDonatable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaysLeft(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline time.Time
		want     int
	}{
		{"three full days", now.Add(72 * time.Hour), 3},
		{"partial day rounds up", now.Add(25 * time.Hour), 2},
		{"one hour left", now.Add(time.Hour), 1},
		{"deadline now", now, 0},
		{"already past", now.Add(-time.Hour), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Campaign{Deadline: tt.deadline}
			if got := c.DaysLeft(now); got != tt.want {
				t.Errorf("DaysLeft() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestShortAddress(t *testing.T) {
	a := common.HexToAddress("0x1234567890abcdef1234567890abcdef12345678")
	got := ShortAddress(a)
	want := "0x1234...5678"
	if got != want {
		t.Errorf("ShortAddress() = %q, want %q", got, want)
	}
}
