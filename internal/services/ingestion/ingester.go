package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/DIMO-Network/whatsapp-webhook/internal/whatsapp"
	"github.com/rs/zerolog"
)

// Outcome tells whether a notification was processed cleanly. The platform is
// acknowledged either way.
type Outcome int

const (
	// OutcomeProcessed means every part of the notification was handled.
	OutcomeProcessed Outcome = iota
	// OutcomeFailed means at least one processing error was recorded.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeProcessed:
		return "processed"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is the result of ingesting one notification.
type Result struct {
	Outcome Outcome
	// Messages are the extracted messages in envelope order.
	Messages []whatsapp.ExtractedMessage
	// Errors are the processing errors that were logged and absorbed.
	Errors []error
}

// Err joins the recorded processing errors, or returns nil.
func (r Result) Err() error {
	return errors.Join(r.Errors...)
}

// Ingester turns notification bodies into logged messages.
type Ingester struct{}

// NewIngester creates a new Ingester.
func NewIngester() *Ingester {
	return &Ingester{}
}

// Ingest logs the raw notification and one line per message it carries.
// It never fails: decoding problems and panics are logged and recorded in the
// returned Result so the caller can still acknowledge the delivery.
func (i *Ingester) Ingest(ctx context.Context, body []byte) (result Result) {
	logger := zerolog.Ctx(ctx)
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("panic while processing webhook: %v", rec)
			logger.Error().Err(err).Str("stack", string(debug.Stack())).Msg("Error processing webhook")
			result.Errors = append(result.Errors, err)
		}
		if len(result.Errors) > 0 {
			result.Outcome = OutcomeFailed
		}
		notificationsTotal.WithLabelValues(result.Outcome.String()).Inc()
	}()

	logPayload(logger, body)

	env, errs := whatsapp.Decode(body)
	for _, err := range errs {
		logger.Error().Err(err).Msg("Error processing webhook")
	}
	result.Errors = errs

	for _, msg := range env.Messages() {
		extracted := whatsapp.Extract(msg)
		messagesTotal.WithLabelValues(typeLabel(extracted.Type)).Inc()
		logger.Info().
			Str("sender", extracted.Sender).
			Str("text", extracted.Text).
			Str("type", extracted.Type).
			Str("messageId", extracted.ID).
			Msg("New message")
		result.Messages = append(result.Messages, extracted)
	}
	return result
}

func logPayload(logger *zerolog.Logger, body []byte) {
	event := logger.Info().Int("bodySize", len(body))
	var compact bytes.Buffer
	if json.Compact(&compact, body) == nil {
		event = event.RawJSON("payload", compact.Bytes())
	} else {
		event = event.Str("payload", string(body))
	}
	event.Msg("Incoming webhook payload")
}
