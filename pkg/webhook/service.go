// pkg/webhook/service.go

package webhook

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/receipt-microservice/pkg/config"
	ierr "github.com/receipt-microservice/pkg/errors"
	"github.com/receipt-microservice/pkg/logger"
	"github.com/receipt-microservice/pkg/metrics"
)

// FallbackLink is sent when no public base URL is configured.
const FallbackLink = "https://google.com"

// Notifier delivers the access link to a buyer.
type Notifier interface {
	SendAccessEmail(ctx context.Context, to, link string) error
}

// Outcome is the acknowledgement returned for a handled event.
type Outcome struct {
	// Ignored is set when the status is not an approval; nothing was sent.
	Ignored bool
	// Status is the raw status value from the payload.
	Status any
	Email  string
	Link   string
}

// Service handles payment provider webhooks. It keeps no state between calls.
type Service struct {
	verifier *Verifier
	notifier Notifier
	link     string
	validate *validator.Validate
	logger   *logger.Logger
}

func NewService(cfg *config.Configuration, notifier Notifier, logger *logger.Logger) *Service {
	link := cfg.App.BaseURL
	if link == "" {
		link = FallbackLink
	}

	return &Service{
		verifier: NewVerifier(cfg.Webhook.Secret),
		notifier: notifier,
		link:     link,
		validate: validator.New(),
		logger:   logger.With("component", "webhook"),
	}
}

// Handle verifies, parses and acts on one webhook delivery. Errors are marked
// ErrUnauthorized (bad signature), ErrValidation (no buyer email) or
// ErrSystem (the email could not be sent). A buyer email that is present but
// not a valid address counts as missing: it is rejected with ErrValidation
// before any send is attempted, so it never surfaces as a send failure.
func (s *Service) Handle(ctx context.Context, body []byte, signature string) (*Outcome, error) {
	if err := s.verifier.Verify(body, signature); err != nil {
		s.logger.Warnw("rejected webhook with invalid signature",
			"signature_present", signature != "")
		metrics.ObserveWebhook(metrics.WebhookUnauthorized)
		return nil, err
	}

	event := ParseEvent(body)

	if event.Email == "" || s.validate.Var(event.Email, "email") != nil {
		s.logger.Warnw("webhook without a usable buyer email",
			"status", event.Status)
		metrics.ObserveWebhook(metrics.WebhookInvalid)
		return nil, ierr.NewError("buyer email not found in payload").
			WithHint("email not found").
			Mark(ierr.ErrValidation)
	}

	if !event.Approved() {
		s.logger.Infow("ignoring webhook with non approved status",
			"status", event.Status)
		metrics.ObserveWebhook(metrics.WebhookIgnored)
		return &Outcome{
			Ignored: true,
			Status:  event.RawStatus,
			Email:   event.Email,
		}, nil
	}

	if err := s.notifier.SendAccessEmail(ctx, event.Email, s.link); err != nil {
		s.logger.Errorw("failed to send access email",
			"error", err,
			"buyer", event.Email)
		metrics.ObserveWebhook(metrics.WebhookFailed)
		return nil, ierr.WithError(err).
			WithMessage("sending access email").
			WithHint("failed to send email").
			Mark(ierr.ErrSystem)
	}

	s.logger.Infow("access email sent",
		"buyer", event.Email,
		"sent_link", s.link)
	metrics.ObserveWebhook(metrics.WebhookSent)

	return &Outcome{
		Status: event.RawStatus,
		Email:  event.Email,
		Link:   s.link,
	}, nil
}
