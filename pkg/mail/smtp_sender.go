package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gomail "github.com/wneessen/go-mail"
	"github.com/tendant/simple-account/pkg/utils"
)

// SMTPConfig holds the connection settings of the outgoing mail server.
type SMTPConfig struct {
	Host     string
	Port     int
	TLS      bool
	Username string
	Password string
	From     string
}

// SMTPSender delivers messages through an SMTP server.
type SMTPSender struct {
	config SMTPConfig
	client *gomail.Client
}

// NewSMTPSender creates a sender for config. No connection is made until the first Send.
func NewSMTPSender(config SMTPConfig) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(config.Port),
		gomail.WithTimeout(30 * time.Second),
	}

	// Only add authentication if username and password are provided
	if config.Username != "" && config.Password != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthLogin),
			gomail.WithUsername(config.Username),
			gomail.WithPassword(config.Password),
		)
	}

	if config.TLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	}

	slog.Info("Creating mail client", "host", config.Host, "port", config.Port, "tls", config.TLS)
	client, err := gomail.NewClient(config.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &SMTPSender{config: config, client: client}, nil
}

// Send implements Sender.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("mail requires a recipient")
	}

	rendered, err := Render(msg)
	if err != nil {
		return err
	}

	m := gomail.NewMsg()
	if err := m.From(s.config.From); err != nil {
		return fmt.Errorf("failed to set from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("failed to set to address: %w", err)
	}
	m.Subject(rendered.Subject)
	m.SetBodyString(gomail.TypeTextPlain, rendered.Text)
	m.AddAlternativeString(gomail.TypeTextHTML, rendered.HTML)

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	slog.Info("Email sent successfully", "kind", msg.Kind, "to", utils.MaskEmail(msg.To))
	return nil
}
