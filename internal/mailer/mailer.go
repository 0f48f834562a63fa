package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bookmint/inkwell/internal/config"
	"github.com/bookmint/inkwell/internal/entity"
)

// DownloadSettings is the template snapshot consumed by a single send. Callers
// fetch it from site settings at call time so the dispatcher never caches
// stale configuration.
type DownloadSettings struct {
	Subject string
	Heading string
	Body    string
	Links   []entity.DownloadLink
	URLs    []string
}

// DownloadEmail carries everything needed to deliver the e-book after an
// order completes.
type DownloadEmail struct {
	To        string
	BuyerName string
	OrderID   string
	Settings  DownloadSettings
}

// ReviewThankYou is the confirmation sent after a review is accepted.
type ReviewThankYou struct {
	To        string
	BuyerName string
	Rating    float64
	Content   string
}

// Client sends templated transactional email. Implementations must report
// transport failures as errors; workflow callers decide whether a failure is
// fatal (it is not for order completion).
type Client interface {
	SendDownloadEmail(ctx context.Context, email DownloadEmail) error
	SendReviewThankYou(ctx context.Context, email ReviewThankYou) error
}

// Module wires the mail client.
var Module = fx.Provide(NewClient)

// NewClient builds a mail client based on configuration (resend or noop).
func NewClient(cfg config.Config, logger *zap.Logger) (Client, error) {
	switch cfg.Mail.Driver {
	case "noop":
		logger.Info("mail disabled; using noop client")

		return noopClient{logger: logger}, nil
	case "resend":
		return &resendClient{
			client:      resend.NewClient(cfg.Mail.APIKey),
			from:        cfg.Mail.From,
			fallbackURL: cfg.Mail.FallbackDownloadURL,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported mail driver: %s", cfg.Mail.Driver)
	}
}

// noopClient logs instead of sending; used in local/dev setups.
type noopClient struct {
	logger *zap.Logger
}

func (n noopClient) SendDownloadEmail(_ context.Context, email DownloadEmail) error {
	n.logger.Info("skipping download email",
		zap.String("to", email.To),
		zap.String("order_id", ShortOrderID(email.OrderID)),
	)

	return nil
}

func (n noopClient) SendReviewThankYou(_ context.Context, email ReviewThankYou) error {
	n.logger.Info("skipping review thank-you email", zap.String("to", email.To))

	return nil
}

// resendClient delivers mail through the Resend API.
type resendClient struct {
	client      *resend.Client
	from        string
	fallbackURL string
}

func (r *resendClient) SendDownloadEmail(ctx context.Context, email DownloadEmail) error {
	subject, html := composeDownloadEmail(email, r.fallbackURL)
	return r.send(ctx, email.To, subject, html)
}

func (r *resendClient) SendReviewThankYou(ctx context.Context, email ReviewThankYou) error {
	subject, html := composeReviewThankYou(email)
	return r.send(ctx, email.To, subject, html)
}

func (r *resendClient) send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	if _, err := r.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	return nil
}
