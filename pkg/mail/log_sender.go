package mail

import (
	"context"
	"log/slog"

	"github.com/tendant/simple-account/pkg/utils"
)

// LogSender drops messages after logging their kind and recipient. It is
// meant for local development without an SMTP server.
type LogSender struct{}

// Send implements Sender.
func (LogSender) Send(ctx context.Context, msg Message) error {
	if _, err := Render(msg); err != nil {
		return err
	}
	slog.Info("Mail delivery disabled, message not sent", "kind", msg.Kind, "to", utils.MaskEmail(msg.To))
	return nil
}
