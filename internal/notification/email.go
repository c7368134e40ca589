package notification

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"

	"admissions_crm_backend/platform/config"
)

// EmailSender delivers internal ops emails over SMTP.
type EmailSender struct {
	host         string
	port         int
	username     string
	password     string
	fromName     string
	fromEmail    string
	opsRecipient string
}

// NewEmailSender returns nil when SMTP is not configured; the ops email
// step is then skipped entirely.
func NewEmailSender(cfg config.EmailConfig) *EmailSender {
	if !cfg.IsEmailEnabled() {
		return nil
	}

	return &EmailSender{
		host:         cfg.GetSMTPHost(),
		port:         cfg.GetSMTPPort(),
		username:     cfg.GetSMTPUsername(),
		password:     cfg.GetSMTPPassword(),
		fromName:     cfg.GetEmailFromName(),
		fromEmail:    cfg.GetEmailFromAddress(),
		opsRecipient: cfg.GetOpsRecipientEmail(),
	}
}

// SendOpsEmail sends a plain-text notification to the ops mailbox.
func (s *EmailSender) SendOpsEmail(ctx context.Context, subject, body string) error {
	if s == nil {
		return fmt.Errorf("smtp not configured")
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(s.opsRecipient); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
