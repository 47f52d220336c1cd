package crowdfund

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/raushankr553/land-block-flow/internal/chain"
	"github.com/raushankr553/land-block-flow/internal/events"
)

type fakeCampaignSource struct {
	campaigns map[int64]Campaign

	refreshCalls int
	refreshErr   error
}

func (f *fakeCampaignSource) Get(id int64) (Campaign, bool) {
	c, ok := f.campaigns[id]
	return c, ok
}

func (f *fakeCampaignSource) Refresh(ctx context.Context) error {
	f.refreshCalls++
	return f.refreshErr
}

type fakePublisher struct {
	published []events.Event
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, event events.Event) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
}

func minedReceipt(ctx context.Context, backend bind.DeployBackend, tx *types.Transaction) (*types.Receipt, error) {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: tx.Hash()}, nil
}

func revertedReceipt(ctx context.Context, backend bind.DeployBackend, tx *types.Transaction) (*types.Receipt, error) {
	return &types.Receipt{Status: types.ReceiptStatusFailed, TxHash: tx.Hash()}, nil
}

func newTestFlows(handle *fakeContract, source *fakeCampaignSource, pub *fakePublisher) *Flows {
	f := NewFlows(connectedSessions(handle), source, pub, zap.NewNop())
	f.waitMined = minedReceipt
	return f
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		goal     string
		duration string
	}{
		{"empty title", "", "1", "30"},
		{"blank title", "   ", "1", "30"},
		{"empty goal", "Clean Water", "", "30"},
		{"zero goal", "Clean Water", "0", "30"},
		{"negative goal", "Clean Water", "-1", "30"},
		{"malformed goal", "Clean Water", "one", "30"},
		{"empty duration", "Clean Water", "1", ""},
		{"zero duration", "Clean Water", "1", "0"},
		{"negative duration", "Clean Water", "1", "-7"},
		{"fractional duration", "Clean Water", "1", "7.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handle := newFakeContract()
			source := &fakeCampaignSource{}
			pub := &fakePublisher{}
			f := newTestFlows(handle, source, pub)

			_, err := f.Create(context.Background(), tt.title, tt.goal, tt.duration)
			if err == nil {
				t.Fatal("Create() should reject invalid input")
			}
			if handle.createCalls != 0 {
				t.Errorf("submitted %d transactions for invalid input, want 0", handle.createCalls)
			}
			if source.refreshCalls != 0 || len(pub.published) != 0 {
				t.Error("no settlement expected for invalid input")
			}
		})
	}
}

func TestCreateWithoutSession(t *testing.T) {
	handle := newFakeContract()
	f := NewFlows(&fakeSessions{}, &fakeCampaignSource{}, &fakePublisher{}, zap.NewNop())

	_, err := f.Create(context.Background(), "Clean Water", "1", "30")
	if !errors.Is(err, chain.ErrNoSession) {
		t.Fatalf("Create() error = %v, want ErrNoSession", err)
	}
	if handle.createCalls != 0 {
		t.Error("nothing should be submitted without a session")
	}
}

func TestCreateSuccess(t *testing.T) {
	handle := newFakeContract()
	source := &fakeCampaignSource{}
	pub := &fakePublisher{}
	f := newTestFlows(handle, source, pub)

	got, err := f.Create(context.Background(), "  Clean Water  ", "2.5", "30")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if got.Title != "Clean Water" {
		t.Errorf("result title = %q, want trimmed %q", got.Title, "Clean Water")
	}
	if got.TxHash == "" {
		t.Error("result is missing the transaction hash")
	}
	if handle.createCalls != 1 {
		t.Errorf("createCampaign called %d times, want 1", handle.createCalls)
	}
	if handle.lastCreateArg != "Clean Water" {
		t.Errorf("submitted title = %q, want trimmed", handle.lastCreateArg)
	}
	if source.refreshCalls != 1 {
		t.Errorf("refresh called %d times, want exactly 1", source.refreshCalls)
	}
	if len(pub.published) != 1 || pub.published[0].Type != events.EventCampaignCreated {
		t.Errorf("published = %+v, want one campaign_created event", pub.published)
	}
	if pub.published[0].Payload["goal_eth"] != "2.5" {
		t.Errorf("published goal = %v, want 2.5", pub.published[0].Payload["goal_eth"])
	}
}

func TestCreateSubmitFailure(t *testing.T) {
	handle := newFakeContract()
	handle.submitErr = errors.New("insufficient funds for gas")
	source := &fakeCampaignSource{}
	pub := &fakePublisher{}
	f := newTestFlows(handle, source, pub)

	if _, err := f.Create(context.Background(), "Clean Water", "1", "30"); err == nil {
		t.Fatal("Create() should surface the submit error")
	}
	if source.refreshCalls != 0 || len(pub.published) != 0 {
		t.Error("no settlement expected after a failed submit")
	}
}

func TestCreateRevertedTransaction(t *testing.T) {
	handle := newFakeContract()
	source := &fakeCampaignSource{}
	pub := &fakePublisher{}
	f := newTestFlows(handle, source, pub)
	f.waitMined = revertedReceipt

	_, err := f.Create(context.Background(), "Clean Water", "1", "30")
	if err == nil {
		t.Fatal("Create() should fail when the transaction reverts")
	}
	if source.refreshCalls != 0 || len(pub.published) != 0 {
		t.Error("no settlement expected for a reverted transaction")
	}
}

func TestCreatePublishFailureIsNonFatal(t *testing.T) {
	handle := newFakeContract()
	source := &fakeCampaignSource{}
	pub := &fakePublisher{err: errors.New("redis down")}
	f := newTestFlows(handle, source, pub)

	if _, err := f.Create(context.Background(), "Clean Water", "1", "30"); err != nil {
		t.Fatalf("Create() error: %v (publish failures must not fail the flow)", err)
	}
	if source.refreshCalls != 1 {
		t.Errorf("refresh called %d times, want 1 even when publish fails", source.refreshCalls)
	}
}

func TestDonateSuccess(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	handle := newFakeContract()
	source := &fakeCampaignSource{campaigns: map[int64]Campaign{
		7: {ID: 7, Title: "Clean Water", Goal: weiMust(t, "10"), Raised: weiMust(t, "3"),
			Deadline: now.Add(72 * time.Hour), Active: true},
	}}
	pub := &fakePublisher{}
	f := newTestFlows(handle, source, pub)
	f.now = func() time.Time { return now }

	got, err := f.Donate(context.Background(), 7, "0.5")
	if err != nil {
		t.Fatalf("Donate() error: %v", err)
	}
	if got.AmountEth != "0.5" || got.Title != "Clean Water" {
		t.Errorf("result = %+v, want amount 0.5 for Clean Water", got)
	}
	if handle.donateCalls != 1 {
		t.Errorf("donate called %d times, want 1", handle.donateCalls)
	}
	if handle.lastDonateID.Int64() != 7 {
		t.Errorf("donated to campaign %s, want 7", handle.lastDonateID)
	}
	if want := weiMust(t, "0.5"); handle.lastValue.Cmp(want) != 0 {
		t.Errorf("tx value = %s wei, want %s", handle.lastValue, want)
	}
	if source.refreshCalls != 1 {
		t.Errorf("refresh called %d times, want exactly 1", source.refreshCalls)
	}
	if len(pub.published) != 1 || pub.published[0].Type != events.EventDonated {
		t.Errorf("published = %+v, want one donated event", pub.published)
	}
}

func TestDonateRejections(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(72 * time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name     string
		id       int64
		amount   string
		campaign *Campaign
	}{
		{"unknown campaign", 99, "1", nil},
		{"zero amount", 7, "0", &Campaign{ID: 7, Title: "x", Deadline: future, Active: true}},
		{"negative amount", 7, "-1", &Campaign{ID: 7, Title: "x", Deadline: future, Active: true}},
		{"malformed amount", 7, "a lot", &Campaign{ID: 7, Title: "x", Deadline: future, Active: true}},
		{"inactive campaign", 7, "1", &Campaign{ID: 7, Title: "x", Deadline: future, Active: false}},
		{"expired campaign", 7, "1", &Campaign{ID: 7, Title: "x", Deadline: past, Active: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handle := newFakeContract()
			source := &fakeCampaignSource{campaigns: map[int64]Campaign{}}
			if tt.campaign != nil {
				source.campaigns[tt.campaign.ID] = *tt.campaign
			}
			pub := &fakePublisher{}
			f := newTestFlows(handle, source, pub)
			f.now = func() time.Time { return now }

			if _, err := f.Donate(context.Background(), tt.id, tt.amount); err == nil {
				t.Fatal("Donate() should be rejected")
			}
			if handle.donateCalls != 0 {
				t.Errorf("submitted %d transactions, want 0", handle.donateCalls)
			}
			if source.refreshCalls != 0 || len(pub.published) != 0 {
				t.Error("no settlement expected for a rejected donation")
			}
		})
	}
}

func TestDonateWithoutSession(t *testing.T) {
	f := NewFlows(&fakeSessions{}, &fakeCampaignSource{}, &fakePublisher{}, zap.NewNop())
	if _, err := f.Donate(context.Background(), 1, "1"); !errors.Is(err, chain.ErrNoSession) {
		t.Fatalf("Donate() error = %v, want ErrNoSession", err)
	}
}

func weiMust(t *testing.T, eth string) *big.Int {
	t.Helper()
	v, err := chain.ParseEther(eth)
	if err != nil {
		t.Fatalf("parse %q: %v", eth, err)
	}
	return v
}
