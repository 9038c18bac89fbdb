package verification

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

const (
	// ModeSubscribe is the only hub.mode that can be verified.
	ModeSubscribe = "subscribe"
	// ForbiddenBody is returned for every rejected verification.
	ForbiddenBody = "Forbidden"
)

var verificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "whatsapp_webhook_verifications_total",
	Help: "Subscription verification requests by result.",
}, []string{"result"})

// Request is the subscription verification handshake sent by the platform as
// hub.mode, hub.verify_token and hub.challenge query parameters.
type Request struct {
	Mode      string
	Token     string
	Challenge string
}

// Result is the response to a verification request.
type Result struct {
	Verified bool
	Body     string
}

// StatusCode returns the HTTP status for the result.
func (r Result) StatusCode() int {
	if r.Verified {
		return http.StatusOK
	}
	return http.StatusForbidden
}

// Verifier answers verification handshakes against a configured secret.
type Verifier struct {
	verifyToken string
}

// NewVerifier creates a Verifier for the given shared secret.
func NewVerifier(verifyToken string) *Verifier {
	return &Verifier{verifyToken: verifyToken}
}

// Verify echoes the challenge when the mode is subscribe and the token matches
// the configured secret. A missing mode or token never matches.
func (v *Verifier) Verify(ctx context.Context, req Request) Result {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("mode", req.Mode).
		Bool("tokenProvided", req.Token != "").
		Msg("Webhook verification requested")

	if req.Mode == ModeSubscribe && v.tokenMatches(req.Token) {
		verificationsTotal.WithLabelValues("success").Inc()
		logger.Info().Msg("Webhook verification successful")
		return Result{Verified: true, Body: req.Challenge}
	}

	verificationsTotal.WithLabelValues("failure").Inc()
	logger.Warn().Str("mode", req.Mode).Msg("Webhook verification failed: invalid token or mode")
	return Result{Verified: false, Body: ForbiddenBody}
}

func (v *Verifier) tokenMatches(token string) bool {
	if token == "" || v.verifyToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(v.verifyToken)) == 1
}
