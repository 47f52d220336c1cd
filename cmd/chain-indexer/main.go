// chain-indexer tails the Crowdfund contract's event log and publishes
// campaign activity to the redis bus consumed by the web server's
// websocket hub.
package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/raushankr553/land-block-flow/internal/config"
	"github.com/raushankr553/land-block-flow/internal/contract"
	"github.com/raushankr553/land-block-flow/internal/db"
	"github.com/raushankr553/land-block-flow/internal/events"
)

const (
	redisCursorBlock = "chain-indexer:cursor:block"
	redisProcessed   = "chain-indexer:log:"
	processedTTL     = 7 * 24 * time.Hour
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.ContractAddress == "" || !common.IsHexAddress(cfg.ContractAddress) {
		log.Fatal("CONTRACT_ADDRESS is required", zap.String("addr", cfg.ContractAddress))
	}
	contractAddr := common.HexToAddress(cfg.ContractAddress)

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		log.Fatal("failed to connect to chain node", zap.String("rpc", cfg.RPCURL), zap.Error(err))
	}
	defer client.Close()

	crowdfund, err := contract.NewCrowdfund(contractAddr, client)
	if err != nil {
		log.Fatal("failed to bind contract", zap.Error(err))
	}

	publisher := events.NewRedisPublisher(rdb, log)

	log.Info("chain indexer started",
		zap.String("contract", contractAddr.Hex()),
		zap.String("rpc", cfg.RPCURL),
	)

	initCursor(ctx, client, rdb, log)

	ticker := time.NewTicker(cfg.IndexerPollInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			if err := pollAndProcess(ctx, cfg, client, crowdfund, publisher, rdb, log); err != nil {
				log.Error("poll cycle failed", zap.Error(err))
			}
		case <-sigCh:
			log.Info("shutting down chain indexer")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

// initCursor sets the initial cursor position on first run. It stores
// the current head so that only NEW events (emitted after startup) are
// processed; no historical replay.
func initCursor(ctx context.Context, client *ethclient.Client, rdb *redis.Client, log *zap.Logger) {
	existing, _ := rdb.Get(ctx, redisCursorBlock).Result()
	if existing != "" {
		log.Info("resuming from saved cursor", zap.String("block", existing))
		return
	}

	head, err := client.BlockNumber(ctx)
	if err != nil {
		log.Warn("failed to get head block for cursor init", zap.Error(err))
		rdb.Set(ctx, redisCursorBlock, "0", 0)
		return
	}

	rdb.Set(ctx, redisCursorBlock, strconv.FormatUint(head, 10), 0)
	log.Info("cursor initialized at current head (skipping historical events)",
		zap.Uint64("block", head),
	)
}

func loadCursor(ctx context.Context, rdb *redis.Client) uint64 {
	val, err := rdb.Get(ctx, redisCursorBlock).Result()
	if err != nil || val == "" {
		return 0
	}
	block, _ := strconv.ParseUint(val, 10, 64)
	return block
}

func saveCursor(ctx context.Context, rdb *redis.Client, block uint64) {
	rdb.Set(ctx, redisCursorBlock, strconv.FormatUint(block, 10), 0)
}

// pollAndProcess runs a single poll cycle:
// 1. Compare the head block against the cursor
// 2. Filter contract logs over the next block range
// 3. Decode and publish each event
// 4. Advance the cursor
func pollAndProcess(
	ctx context.Context,
	cfg *config.Config,
	client *ethclient.Client,
	crowdfund *contract.Crowdfund,
	publisher events.Publisher,
	rdb *redis.Client,
	log *zap.Logger,
) error {
	cursor := loadCursor(ctx, rdb)

	head, err := client.BlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("get head block: %w", err)
	}
	if head <= cursor {
		return nil
	}

	from := cursor + 1
	to := head
	if to-from+1 > cfg.IndexerBlockBatch {
		to = from + cfg.IndexerBlockBatch - 1
	}

	logs, err := client.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: []common.Address{crowdfund.Address()},
		Topics: [][]common.Hash{{
			crowdfund.EventID(contract.EventCampaignCreated),
			crowdfund.EventID(contract.EventDonated),
			crowdfund.EventID(contract.EventFundsReleased),
		}},
	})
	if err != nil {
		return fmt.Errorf("filter logs (%d..%d): %w", from, to, err)
	}

	if len(logs) > 0 {
		log.Info("found new events", zap.Int("count", len(logs)), zap.Uint64("from", from), zap.Uint64("to", to))
		for _, l := range logs {
			processLog(ctx, l, crowdfund, publisher, rdb, log)
		}
	}

	saveCursor(ctx, rdb, to)
	return nil
}

// processLog decodes one contract log and publishes the matching
// campaign event. Removed (reorged) logs are skipped.
func processLog(
	ctx context.Context,
	l types.Log,
	crowdfund *contract.Crowdfund,
	publisher events.Publisher,
	rdb *redis.Client,
	log *zap.Logger,
) {
	if l.Removed || len(l.Topics) == 0 {
		return
	}

	// Idempotency: skip if already processed
	logKey := fmt.Sprintf("%s%s:%d", redisProcessed, l.TxHash.Hex(), l.Index)
	if rdb.Exists(ctx, logKey).Val() > 0 {
		return
	}

	var event events.Event
	switch l.Topics[0] {
	case crowdfund.EventID(contract.EventCampaignCreated):
		ev, err := crowdfund.ParseCampaignCreated(l)
		if err != nil {
			log.Error("failed to decode CampaignCreated", zap.String("tx", l.TxHash.Hex()), zap.Error(err))
			return
		}
		event = events.Event{
			Type: events.EventCampaignCreated,
			Payload: map[string]any{
				"campaign_id": ev.Id.String(),
				"title":       ev.Title,
				"goal_wei":    ev.Goal.String(),
				"deadline":    ev.Deadline.String(),
				"tx":          l.TxHash.Hex(),
			},
		}
	case crowdfund.EventID(contract.EventDonated):
		ev, err := crowdfund.ParseDonated(l)
		if err != nil {
			log.Error("failed to decode Donated", zap.String("tx", l.TxHash.Hex()), zap.Error(err))
			return
		}
		event = events.Event{
			Type: events.EventDonated,
			Payload: map[string]any{
				"campaign_id": ev.CampaignId.String(),
				"donor":       ev.Donor.Hex(),
				"amount_wei":  ev.Amount.String(),
				"tx":          l.TxHash.Hex(),
			},
		}
	case crowdfund.EventID(contract.EventFundsReleased):
		ev, err := crowdfund.ParseFundsReleased(l)
		if err != nil {
			log.Error("failed to decode FundsReleased", zap.String("tx", l.TxHash.Hex()), zap.Error(err))
			return
		}
		event = events.Event{
			Type: events.EventFundsReleased,
			Payload: map[string]any{
				"campaign_id": ev.CampaignId.String(),
				"amount_wei":  ev.Amount.String(),
				"tx":          l.TxHash.Hex(),
			},
		}
	default:
		return
	}

	if err := publisher.Publish(ctx, events.ChannelCampaign, event); err != nil {
		log.Error("failed to publish event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	rdb.Set(ctx, logKey, event.Type, processedTTL)

	log.Info("event published",
		zap.String("type", event.Type),
		zap.Uint64("block", l.BlockNumber),
		zap.String("tx", l.TxHash.Hex()),
	)
}
