// pkg/notify/mailer.go

package notify

import (
	"context"
	"fmt"

	"github.com/receipt-microservice/pkg/config"
	ierr "github.com/receipt-microservice/pkg/errors"
	"github.com/receipt-microservice/pkg/logger"
	"github.com/wneessen/go-mail"
)

const accessBody = `Hello!

Thank you for your purchase. Access your product here:
%s

If you have any questions, just reply to this email.
Enjoy!`

// Mailer sends the access email over SMTP. Every send opens its own
// connection, upgrades it with STARTTLS and authenticates before submitting.
type Mailer struct {
	cfg     config.SMTPConfig
	appName string
	logger  *logger.Logger
}

func NewMailer(cfg config.SMTPConfig, appName string, logger *logger.Logger) *Mailer {
	return &Mailer{
		cfg:     cfg,
		appName: appName,
		logger:  logger.With("component", "mailer"),
	}
}

// Subject is the subject line of the access email.
func (m *Mailer) Subject() string {
	return "Your access to " + m.appName
}

// BuildMessage composes the access email for to.
func (m *Mailer) BuildMessage(to, link string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, ierr.WithError(err).
			WithHint("invalid sender address").
			Mark(ierr.ErrNotConfigured)
	}
	if err := msg.To(to); err != nil {
		return nil, ierr.WithError(err).
			WithHint("invalid recipient address").
			Mark(ierr.ErrValidation)
	}
	msg.Subject(m.Subject())
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(accessBody, link))
	return msg, nil
}

// SendAccessEmail delivers the link to one buyer. It fails before dialling
// when the SMTP credentials are incomplete and never retries.
func (m *Mailer) SendAccessEmail(ctx context.Context, to, link string) error {
	if !m.cfg.Complete() {
		return ierr.NewError("smtp host, port, user and password must all be set").
			WithHint("email delivery is not configured").
			Mark(ierr.ErrNotConfigured)
	}

	msg, err := m.BuildMessage(to, link)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.User),
		mail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to send email").
			Mark(ierr.ErrSystem)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return ierr.WithError(err).
			WithHint("failed to send email").
			Mark(ierr.ErrSystem)
	}

	m.logger.Debugw("smtp submission finished",
		"host", m.cfg.Host,
		"to", to)
	return nil
}
