package mailer

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/orderdesk/orderdesk/internal/config"
)

// Module exposes the mailer client implementation to the fx graph. Without a
// configured provider address the disabled client is wired, so the service
// still starts and email endpoints report the missing configuration.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	if p.Config.MailerAddress == "" {
		p.Logger.Warn("mailer address not configured, email delivery disabled")
		return Disabled{}, nil
	}
	return NewHTTPClient(p.Config.MailerAddress, p.Config.MailerFrom, p.Logger)
}
