package app

import (
	"fmt"

	"github.com/DIMO-Network/server-garage/pkg/fibercommon"
	_ "github.com/DIMO-Network/whatsapp-webhook/docs" // Import Swagger docs
	"github.com/DIMO-Network/whatsapp-webhook/internal/config"
	"github.com/DIMO-Network/whatsapp-webhook/internal/controllers/webhook"
	"github.com/DIMO-Network/whatsapp-webhook/internal/services/ingestion"
	"github.com/DIMO-Network/whatsapp-webhook/internal/services/verification"
	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog"
)

const homePage = `
    <h1>WhatsApp Cloud API Webhook Service</h1>
    <p>✅ Service is running successfully!</p>
    <p><strong>Webhook endpoint:</strong> <code>/webhook</code></p>
    <p>This service is ready to receive WhatsApp webhook calls from Meta.</p>
    `

// webhookBodyLimit is the largest notification body accepted. Larger bodies are
// rejected by the server with 413 before reaching the webhook handler.
const webhookBodyLimit = 32 * 1024 * 1024

// CreateServers validates the settings and builds the webhook server.
func CreateServers(settings *config.Settings, logger zerolog.Logger) (*fiber.App, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return CreateFiberApp(logger, settings), nil
}

// CreateFiberApp sets up the API routes.
func CreateFiberApp(logger zerolog.Logger, settings *config.Settings) *fiber.App {
	logger.Info().Msg("Starting WhatsApp webhook service...")

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return fibercommon.ErrorHandler(c, err)
		},
		DisableStartupMessage: true,
		BodyLimit:             webhookBodyLimit,
	})
	app.Use(fiberrecover.New())
	app.Use(fibercommon.ContextLoggerMiddleware)

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/", func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return c.SendString(homePage)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"data": "Server is up and running",
		})
	})

	webhookController := webhook.NewWebhookController(
		verification.NewVerifier(settings.VerifyToken),
		ingestion.NewIngester(),
	)
	logger.Info().Msg("Registering routes...")

	app.Get("/webhook", webhookController.VerifySubscription)
	app.Post("/webhook", webhookController.ReceiveEvent)

	return app
}
