package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/raushankr553/land-block-flow/internal/chain"
	"github.com/raushankr553/land-block-flow/internal/config"
	"github.com/raushankr553/land-block-flow/internal/crowdfund"
	"github.com/raushankr553/land-block-flow/internal/db"
	"github.com/raushankr553/land-block-flow/internal/events"
	apphttp "github.com/raushankr553/land-block-flow/internal/http"
	"github.com/raushankr553/land-block-flow/internal/http/handlers"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis (rate limiting + event bus)
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Wallet session
	sessions := chain.NewManager(cfg, log)
	sessions.SetReloadHook(func() {
		// A contract handle bound to one chain is invalid on another:
		// reconnect from scratch instead of migrating in place.
		if err := sessions.Connect(context.Background()); err != nil {
			log.Error("reconnect after chain change failed", zap.Error(err))
		}
	})
	defer sessions.Disconnect()

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Campaign read model + mutation flows
	readModel := crowdfund.NewReadModel(sessions, log)
	flows := crowdfund.NewFlows(sessions, readModel, publisher, log)

	// Handlers
	sessionHandler := handlers.NewSessionHandler(sessions, log)
	campaignHandler := handlers.NewCampaignHandler(readModel, flows, log)
	contactHandler := handlers.NewContactHandler(log)
	wsHub := handlers.NewWSHub(subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, log, rdb, sessionHandler, campaignHandler, contactHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting web server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
