package pdf

import (
	"github.com/smallbiznis/clubhouse/internal/config"
	obsmetrics "github.com/smallbiznis/clubhouse/internal/observability/metrics"
	"github.com/smallbiznis/clubhouse/pkg/qrcode"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.pdf",
	fx.Provide(NewFromConfig),
)

type Params struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	QR      *qrcode.Encoder
	Metrics *obsmetrics.Metrics `optional:"true"`
}

func NewFromConfig(p Params) Provider {
	return New(p.Log,
		WithFontLocator(NewFontLocator(p.Config.Fonts.Dir, p.Log)),
		WithQREncoder(p.QR),
		WithPageObserver(LoggingPageObserver(p.Log.Named("pdf.layout"), p.Metrics)),
	)
}
