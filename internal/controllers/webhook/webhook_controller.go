package webhook

import (
	"context"

	"github.com/DIMO-Network/whatsapp-webhook/internal/services/ingestion"
	"github.com/DIMO-Network/whatsapp-webhook/internal/services/verification"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// EventReceivedBody acknowledges every event notification.
const EventReceivedBody = "EVENT_RECEIVED"

// Query parameters of the subscription verification handshake.
const (
	queryMode        = "hub.mode"
	queryVerifyToken = "hub.verify_token"
	queryChallenge   = "hub.challenge"
)

type Verifier interface {
	Verify(ctx context.Context, req verification.Request) verification.Result
}

type Ingester interface {
	Ingest(ctx context.Context, body []byte) ingestion.Result
}

// WebhookController serves the WhatsApp Cloud API callback endpoint.
type WebhookController struct {
	verifier Verifier
	ingester Ingester
}

// NewWebhookController creates a new WebhookController.
func NewWebhookController(verifier Verifier, ingester Ingester) *WebhookController {
	return &WebhookController{
		verifier: verifier,
		ingester: ingester,
	}
}

// VerifySubscription godoc
// @Summary      Verify webhook subscription
// @Description  Answers the platform's one-time verification handshake. Echoes hub.challenge when hub.mode is "subscribe" and hub.verify_token matches the configured secret.
// @Tags         Webhook
// @Produce      plain
// @Param        hub.mode          query     string  false  "Must be subscribe"
// @Param        hub.verify_token  query     string  false  "Shared verification secret"
// @Param        hub.challenge     query     string  false  "Value to echo back"
// @Success      200               {string}  string  "The challenge"
// @Failure      403               {string}  string  "Forbidden"
// @Router       /webhook [get]
func (w *WebhookController) VerifySubscription(c *fiber.Ctx) error {
	req := verification.Request{
		Mode:      c.Query(queryMode),
		Token:     c.Query(queryVerifyToken),
		Challenge: c.Query(queryChallenge),
	}
	result := w.verifier.Verify(c.UserContext(), req)
	return c.Status(result.StatusCode()).SendString(result.Body)
}

// ReceiveEvent godoc
// @Summary      Receive event notification
// @Description  Accepts a notification envelope and logs every inbound message it carries. Always acknowledged with 200 so the platform does not retry, even when the payload cannot be processed.
// @Tags         Webhook
// @Accept       json
// @Produce      plain
// @Param        request  body      object  true  "Notification envelope"
// @Success      200      {string}  string  "EVENT_RECEIVED"
// @Router       /webhook [post]
func (w *WebhookController) ReceiveEvent(c *fiber.Ctx) error {
	result := w.ingester.Ingest(c.UserContext(), c.Body())
	zerolog.Ctx(c.UserContext()).Debug().
		Stringer("outcome", result.Outcome).
		Int("messages", len(result.Messages)).
		Msg("Webhook event acknowledged")
	return c.Status(fiber.StatusOK).SendString(EventReceivedBody)
}
