package crowdfund

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/raushankr553/land-block-flow/internal/chain"
	"github.com/raushankr553/land-block-flow/internal/events"
)

// CampaignSource is the slice of the read model the flows need: lookups
// for pre-submission checks and a refresh trigger for settlement.
type CampaignSource interface {
	Get(id int64) (Campaign, bool)
	Refresh(ctx context.Context) error
}

// WaitMinedFunc blocks until the transaction is included in a block.
type WaitMinedFunc func(ctx context.Context, backend bind.DeployBackend, tx *types.Transaction) (*types.Receipt, error)

// Flows runs the two write operations, each in three phases:
// submit -> await confirmation -> settle. A failure in any phase leaves
// the prior campaign list untouched.
type Flows struct {
	sessions  SessionSource
	campaigns CampaignSource
	publisher events.Publisher
	log       *zap.Logger

	now       func() time.Time
	waitMined WaitMinedFunc
}

func NewFlows(sessions SessionSource, campaigns CampaignSource, publisher events.Publisher, log *zap.Logger) *Flows {
	return &Flows{
		sessions:  sessions,
		campaigns: campaigns,
		publisher: publisher,
		log:       log,
		now:       time.Now,
		waitMined: bind.WaitMined,
	}
}

type CreateResult struct {
	TxHash string `json:"tx_hash"`
	Title  string `json:"title"`
}

type DonateResult struct {
	TxHash    string `json:"tx_hash"`
	AmountEth string `json:"amount_eth"`
	Title     string `json:"title"`
}

// Create submits a createCampaign transaction. Input validation happens
// before anything is sent: an invalid title, goal or duration never
// reaches the contract.
func (f *Flows) Create(ctx context.Context, title, goalEth, durationDays string) (*CreateResult, error) {
	sess, ok := f.sessions.Session()
	if !ok {
		return nil, chain.ErrNoSession
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	goal, err := chain.ParsePositiveEther(goalEth)
	if err != nil {
		return nil, fmt.Errorf("invalid goal: %w", err)
	}
	days, err := parsePositiveInt(durationDays)
	if err != nil {
		return nil, fmt.Errorf("invalid duration: %w", err)
	}

	opts := f.transactOpts(ctx, sess)
	tx, err := sess.Contract.CreateCampaign(opts, title, goal, big.NewInt(days))
	if err != nil {
		return nil, fmt.Errorf("submit createCampaign: %w", err)
	}

	f.log.Info("createCampaign submitted",
		zap.String("tx", tx.Hash().Hex()),
		zap.String("title", title),
	)

	if err := f.awaitConfirmation(ctx, sess, tx); err != nil {
		return nil, err
	}

	f.settle(ctx, events.Event{
		Type: events.EventCampaignCreated,
		Payload: map[string]any{
			"title":    title,
			"goal_eth": chain.FormatEther(goal),
			"tx":       tx.Hash().Hex(),
		},
	})

	return &CreateResult{TxHash: tx.Hash().Hex(), Title: title}, nil
}

// Donate submits a donate transaction carrying the amount as value.
// The active/expired check here only mirrors what the contract will
// enforce; a stale read can still be rejected on-chain.
func (f *Flows) Donate(ctx context.Context, campaignID int64, amountEth string) (*DonateResult, error) {
	sess, ok := f.sessions.Session()
	if !ok {
		return nil, chain.ErrNoSession
	}

	amount, err := chain.ParsePositiveEther(amountEth)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	campaign, ok := f.campaigns.Get(campaignID)
	if !ok {
		return nil, fmt.Errorf("campaign %d not found", campaignID)
	}
	if !campaign.IsDonatable(f.now()) {
		return nil, fmt.Errorf("campaign %q is not accepting donations", campaign.Title)
	}

	opts := f.transactOpts(ctx, sess)
	opts.Value = amount
	tx, err := sess.Contract.Donate(opts, big.NewInt(campaignID))
	if err != nil {
		return nil, fmt.Errorf("submit donate: %w", err)
	}

	f.log.Info("donate submitted",
		zap.String("tx", tx.Hash().Hex()),
		zap.Int64("campaign_id", campaignID),
		zap.String("amount_eth", chain.FormatEther(amount)),
	)

	if err := f.awaitConfirmation(ctx, sess, tx); err != nil {
		return nil, err
	}

	f.settle(ctx, events.Event{
		Type: events.EventDonated,
		Payload: map[string]any{
			"campaign_id": campaignID,
			"title":       campaign.Title,
			"amount_eth":  chain.FormatEther(amount),
			"tx":          tx.Hash().Hex(),
		},
	})

	return &DonateResult{
		TxHash:    tx.Hash().Hex(),
		AmountEth: chain.FormatEther(amount),
		Title:     campaign.Title,
	}, nil
}

// transactOpts copies the session signer so per-flow fields (Context,
// Value) never leak into the shared session tuple.
func (f *Flows) transactOpts(ctx context.Context, sess chain.Session) *bind.TransactOpts {
	opts := *sess.Signer
	opts.Context = ctx
	return &opts
}

func (f *Flows) awaitConfirmation(ctx context.Context, sess chain.Session, tx *types.Transaction) error {
	receipt, err := f.waitMined(ctx, sess.Provider, tx)
	if err != nil {
		return fmt.Errorf("await confirmation of %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("transaction %s reverted on-chain", tx.Hash().Hex())
	}
	return nil
}

// settle runs after confirmation: publish the notification and trigger
// exactly one refresh. Runs even if the originating dialog is long
// gone; neither step can fail the already-confirmed flow.
func (f *Flows) settle(ctx context.Context, event events.Event) {
	if f.publisher != nil {
		if err := f.publisher.Publish(ctx, events.ChannelCampaign, event); err != nil {
			f.log.Warn("failed to publish event", zap.String("type", event.Type), zap.Error(err))
		}
	}
	if err := f.campaigns.Refresh(ctx); err != nil {
		f.log.Warn("refresh after mutation failed", zap.Error(err))
	}
}

func parsePositiveInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive: %d", n)
	}
	return n, nil
}
