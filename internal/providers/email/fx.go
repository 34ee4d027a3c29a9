package email

import (
	"github.com/resend/resend-go/v2"
	"github.com/smallbiznis/clubhouse/internal/config"
	obsmetrics "github.com/smallbiznis/clubhouse/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.email",
	fx.Provide(NewFromConfig),
)

type Params struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Metrics *obsmetrics.SagaMetrics `optional:"true"`
}

func NewFromConfig(p Params) Mailer {
	ec := p.Config.Email
	cfg := MailerConfig{
		From:     ec.From,
		FromName: ec.FromName,
		Subject:  ec.Subject,
	}
	return NewMailer(newSender(ec, p.Log), cfg, p.Metrics, p.Log)
}

func newSender(ec config.EmailConfig, log *zap.Logger) Sender {
	switch ec.Provider {
	case config.EmailProviderSMTP:
		if ec.SMTPHost == "" {
			log.Warn("smtp email provider selected without SMTP_HOST")
			return unconfigured{reason: "SMTP_HOST is not set"}
		}
		return NewSMTP(SMTPConfig{
			Host:     ec.SMTPHost,
			Port:     ec.SMTPPort,
			Username: ec.SMTPUsername,
			Password: ec.SMTPPassword,
		})
	case config.EmailProviderResend, "":
		if ec.ResendAPIKey == "" {
			log.Warn("resend email provider selected without RESEND_API_KEY")
			return unconfigured{reason: "RESEND_API_KEY is not set"}
		}
		return NewResend(resend.NewClient(ec.ResendAPIKey).Emails)
	default:
		log.Warn("unknown email provider", zap.String("provider", ec.Provider))
		return unconfigured{reason: "unknown email provider " + ec.Provider}
	}
}
