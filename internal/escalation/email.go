package escalation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
)

// ErrNotConfigured is returned when SMTP credentials are missing.
var ErrNotConfigured = errors.New("email escalation not configured")

// EmailConfig holds SMTP settings for escalation email.
type EmailConfig struct {
	Server   string
	Port     int
	Username string
	Password string
	To       string
	Timeout  time.Duration
}

// sender is the part of *mail.Client used to deliver messages.
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// EmailChannel escalates by mailing the inquiry to the assistance address
// over SMTP with STARTTLS and plain auth.
type EmailChannel struct {
	cfg    EmailConfig
	logger *slog.Logger
	now    func() time.Time

	// newSender is swapped in tests.
	newSender func(EmailConfig) (sender, error)
}

// NewEmailChannel creates an EmailChannel. Credentials are checked on Send so a
// misconfigured channel degrades to the failure reply instead of stopping startup.
func NewEmailChannel(cfg EmailConfig, logger *slog.Logger) *EmailChannel {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &EmailChannel{
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		newSender: newSMTPClient,
	}
}

func newSMTPClient(cfg EmailConfig) (sender, error) {
	client, err := mail.NewClient(cfg.Server,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Send implements Channel.
func (c *EmailChannel) Send(ctx context.Context, inquiry string) bool {
	if err := c.send(ctx, inquiry); err != nil {
		c.logger.Warn("Escalation email failed", "error", err, "to", c.cfg.To)
		return false
	}
	c.logger.Info("Escalation email sent", "to", c.cfg.To)
	return true
}

func (c *EmailChannel) send(ctx context.Context, inquiry string) error {
	if c.cfg.Username == "" || c.cfg.Password == "" {
		return ErrNotConfigured
	}

	msg, err := c.buildMessage(inquiry, c.now())
	if err != nil {
		return err
	}

	client, err := c.newSender(c.cfg)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

func (c *EmailChannel) buildMessage(inquiry string, at time.Time) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(c.cfg.Username); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", c.cfg.Username, err)
	}
	if err := msg.To(c.cfg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", c.cfg.To, err)
	}
	msg.Subject(Subject(at))
	msg.SetDateWithValue(at)
	msg.SetBodyString(mail.TypeTextPlain, Body(inquiry, at))
	return msg, nil
}

// Subject returns the escalation email subject for a request made at t.
func Subject(t time.Time) string {
	return "Customer Service Assistance Request - " + t.Format("2006-01-02 15:04")
}

// Body returns the plain-text escalation email body.
func Body(inquiry string, t time.Time) string {
	return fmt.Sprintf(`Customer Inquiry Summary:
%s

This inquiry could not be answered by the automated chatbot and requires human assistance.

Timestamp: %s
`, inquiry, t.Format(time.RFC3339))
}
