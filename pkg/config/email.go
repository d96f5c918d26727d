package config

import (
	"github.com/tendant/simple-account/pkg/mail"
)

// Mail delivery modes.
const (
	MailModeInProcess = "inprocess"
	MailModeQueue     = "queue"
	MailModeLog       = "log"
)

// EmailConfig holds SMTP email configuration
type EmailConfig struct {
	Mode     string `env:"MAIL_MODE" env-default:"inprocess" env-description:"inprocess, queue or log"`
	Host     string `env:"EMAIL_HOST" env-default:"localhost"`
	Port     uint16 `env:"EMAIL_PORT" env-default:"1025"`
	Username string `env:"EMAIL_USERNAME"`
	Password string `env:"EMAIL_PASSWORD"`
	From     string `env:"EMAIL_FROM" env-default:"noreply@example.com"`
	TLS      bool   `env:"EMAIL_TLS" env-default:"false"`

	QueueConcurrency int `env:"MAIL_QUEUE_CONCURRENCY" env-default:"4" env-description:"asynq worker concurrency"`
}

// ToSMTPConfig converts the config to a mail.SMTPConfig
func (e EmailConfig) ToSMTPConfig() mail.SMTPConfig {
	return mail.SMTPConfig{
		Host:     e.Host,
		Port:     int(e.Port),
		Username: e.Username,
		Password: e.Password,
		From:     e.From,
		TLS:      e.TLS,
	}
}
