package contract

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var testAddress = common.HexToAddress("0x00000000000000000000000000000000000000aa")

func TestABIParses(t *testing.T) {
	parsed, err := ABI()
	if err != nil {
		t.Fatalf("ABI() error: %v", err)
	}

	for _, name := range []string{"createCampaign", "donate", "getCampaign", "getMyContribution", "getActiveCampaigns", "campaignCount"} {
		if _, ok := parsed.Methods[name]; !ok {
			t.Errorf("method %q missing from ABI", name)
		}
	}
	for _, name := range []string{EventCampaignCreated, EventDonated, EventFundsReleased} {
		if _, ok := parsed.Events[name]; !ok {
			t.Errorf("event %q missing from ABI", name)
		}
	}
}

func TestEventIDsDistinct(t *testing.T) {
	c, err := NewCrowdfund(testAddress, nil)
	if err != nil {
		t.Fatalf("NewCrowdfund() error: %v", err)
	}

	seen := make(map[common.Hash]string)
	for _, name := range []string{EventCampaignCreated, EventDonated, EventFundsReleased} {
		id := c.EventID(name)
		if id == (common.Hash{}) {
			t.Errorf("EventID(%q) is zero", name)
		}
		if prev, dup := seen[id]; dup {
			t.Errorf("EventID(%q) collides with %q", name, prev)
		}
		seen[id] = name
	}
}

func packEvent(t *testing.T, name string, args ...interface{}) types.Log {
	t.Helper()
	parsed, err := ABI()
	if err != nil {
		t.Fatalf("ABI() error: %v", err)
	}
	ev := parsed.Events[name]
	data, err := ev.Inputs.Pack(args...)
	if err != nil {
		t.Fatalf("pack %s: %v", name, err)
	}
	return types.Log{
		Address: testAddress,
		Topics:  []common.Hash{ev.ID},
		Data:    data,
	}
}

func TestParseCampaignCreated(t *testing.T) {
	c, err := NewCrowdfund(testAddress, nil)
	if err != nil {
		t.Fatalf("NewCrowdfund() error: %v", err)
	}

	log := packEvent(t, EventCampaignCreated,
		big.NewInt(7), "Clean Water", big.NewInt(1_000_000), big.NewInt(1780000000))

	ev, err := c.ParseCampaignCreated(log)
	if err != nil {
		t.Fatalf("ParseCampaignCreated() error: %v", err)
	}
	if ev.Id.Int64() != 7 {
		t.Errorf("id = %s, want 7", ev.Id)
	}
	if ev.Title != "Clean Water" {
		t.Errorf("title = %q, want Clean Water", ev.Title)
	}
	if ev.Goal.Int64() != 1_000_000 {
		t.Errorf("goal = %s, want 1000000", ev.Goal)
	}
	if ev.Deadline.Int64() != 1780000000 {
		t.Errorf("deadline = %s, want 1780000000", ev.Deadline)
	}
}

func TestParseDonated(t *testing.T) {
	c, err := NewCrowdfund(testAddress, nil)
	if err != nil {
		t.Fatalf("NewCrowdfund() error: %v", err)
	}

	donor := common.HexToAddress("0x00000000000000000000000000000000000000b2")
	log := packEvent(t, EventDonated, big.NewInt(7), donor, big.NewInt(500))

	ev, err := c.ParseDonated(log)
	if err != nil {
		t.Fatalf("ParseDonated() error: %v", err)
	}
	if ev.CampaignId.Int64() != 7 {
		t.Errorf("campaign id = %s, want 7", ev.CampaignId)
	}
	if ev.Donor != donor {
		t.Errorf("donor = %s, want %s", ev.Donor.Hex(), donor.Hex())
	}
	if ev.Amount.Int64() != 500 {
		t.Errorf("amount = %s, want 500", ev.Amount)
	}
}

func TestParseFundsReleased(t *testing.T) {
	c, err := NewCrowdfund(testAddress, nil)
	if err != nil {
		t.Fatalf("NewCrowdfund() error: %v", err)
	}

	log := packEvent(t, EventFundsReleased, big.NewInt(3), big.NewInt(42))

	ev, err := c.ParseFundsReleased(log)
	if err != nil {
		t.Fatalf("ParseFundsReleased() error: %v", err)
	}
	if ev.CampaignId.Int64() != 3 || ev.Amount.Int64() != 42 {
		t.Errorf("event = %+v, want campaign 3 amount 42", ev)
	}
}

func TestParseRejectsWrongEvent(t *testing.T) {
	c, err := NewCrowdfund(testAddress, nil)
	if err != nil {
		t.Fatalf("NewCrowdfund() error: %v", err)
	}

	log := packEvent(t, EventFundsReleased, big.NewInt(3), big.NewInt(42))
	if _, err := c.ParseDonated(log); err == nil {
		t.Error("ParseDonated() should reject a FundsReleased log")
	}
}
