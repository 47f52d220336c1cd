package crowdfund

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/raushankr553/land-block-flow/internal/chain"
)

// SessionSource hands out the current wallet session snapshot.
// *chain.Manager is the production implementation.
type SessionSource interface {
	Session() (chain.Session, bool)
}

// maxCampaignCount bounds the list allocation. The count comes from an
// untrusted contract and must not size memory unchecked.
const maxCampaignCount = 100_000

// ReadModel holds the last successfully loaded campaign list. Each
// load fully replaces the previous list; a failed load leaves it
// untouched.
type ReadModel struct {
	sessions SessionSource
	log      *zap.Logger

	mu        sync.RWMutex
	campaigns []Campaign
}

func NewReadModel(sessions SessionSource, log *zap.Logger) *ReadModel {
	return &ReadModel{sessions: sessions, log: log}
}

// LoadAll reads the campaign count and then every campaign 1..count in
// parallel, returning them ordered by ascending id. Any single read
// failure aborts the whole load; no partial list is exposed or stored.
func (rm *ReadModel) LoadAll(ctx context.Context) ([]Campaign, error) {
	sess, ok := rm.sessions.Session()
	if !ok {
		return nil, chain.ErrNoSession
	}

	count, err := sess.Contract.CampaignCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("read campaign count: %w", err)
	}
	if !count.IsInt64() || count.Int64() > maxCampaignCount {
		return nil, fmt.Errorf("campaign count out of range: %s", count)
	}

	n := count.Int64()
	campaigns := make([]Campaign, n)
	if n > 0 {
		g, gctx := errgroup.WithContext(ctx)
		for i := int64(1); i <= n; i++ {
			g.Go(func() error {
				data, err := sess.Contract.GetCampaign(gctx, big.NewInt(i))
				if err != nil {
					return err
				}
				campaigns[i-1] = fromContract(i, data)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("load campaigns: %w", err)
		}
	}

	rm.mu.Lock()
	rm.campaigns = campaigns
	rm.mu.Unlock()

	rm.log.Debug("campaigns loaded", zap.Int64("count", n))
	return campaigns, nil
}

// Refresh reloads the list for its side effect on the snapshot.
func (rm *ReadModel) Refresh(ctx context.Context) error {
	_, err := rm.LoadAll(ctx)
	return err
}

// Snapshot returns a copy of the last good list.
func (rm *ReadModel) Snapshot() []Campaign {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	out := make([]Campaign, len(rm.campaigns))
	copy(out, rm.campaigns)
	return out
}

// Get looks a campaign up in the snapshot by id.
func (rm *ReadModel) Get(id int64) (Campaign, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	for _, c := range rm.campaigns {
		if c.ID == id {
			return c, true
		}
	}
	return Campaign{}, false
}

// SessionSnapshot exposes the current session to callers that need the
// connected account (e.g. contribution lookups for "my" address).
func (rm *ReadModel) SessionSnapshot() (chain.Session, bool) {
	return rm.sessions.Session()
}

// Contribution reads the connected account's (or any address's) total
// donation to one campaign.
func (rm *ReadModel) Contribution(ctx context.Context, id int64, user common.Address) (*big.Int, error) {
	sess, ok := rm.sessions.Session()
	if !ok {
		return nil, chain.ErrNoSession
	}
	return sess.Contract.GetMyContribution(ctx, big.NewInt(id), user)
}
