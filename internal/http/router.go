package http

import (
	"net/http"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/raushankr553/land-block-flow/internal/http/handlers"
	"github.com/raushankr553/land-block-flow/internal/middleware"
	"github.com/raushankr553/land-block-flow/web"
)

func SetupRouter(
	app *fiber.App,
	log *zap.Logger,
	rdb *redis.Client,
	sessionHandler *handlers.SessionHandler,
	campaignHandler *handlers.CampaignHandler,
	contactHandler *handlers.ContactHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(rdb, 100, time.Minute))

	// Wallet session
	api.Post("/session/connect", sessionHandler.Connect)
	api.Delete("/session", sessionHandler.Disconnect)
	api.Get("/session", sessionHandler.Get)

	// Campaigns
	api.Get("/campaigns", campaignHandler.List)
	api.Post("/campaigns", campaignHandler.Create)
	api.Get("/campaigns/:id", campaignHandler.Get)
	api.Post("/campaigns/:id/donate", campaignHandler.Donate)
	api.Get("/campaigns/:id/contribution", campaignHandler.Contribution)

	// Marketing contact form
	api.Post("/contact", contactHandler.Submit)

	// WebSocket (campaign event fanout)
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))

	// Static pages (marketing site + crowdfund page)
	app.Get("/crowdfund", func(c *fiber.Ctx) error {
		data, err := web.StaticFS.ReadFile("static/crowdfund.html")
		if err != nil {
			return fiber.ErrNotFound
		}
		c.Type("html")
		return c.Send(data)
	})
	app.Use("/", filesystem.New(filesystem.Config{
		Root:       http.FS(web.StaticFS),
		PathPrefix: "static",
		Index:      "index.html",
	}))
}
