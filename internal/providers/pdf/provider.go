package pdf

import (
	"context"

	obsmetrics "github.com/smallbiznis/clubhouse/internal/observability/metrics"
	"github.com/smallbiznis/clubhouse/pkg/qrcode"
	"go.uber.org/zap"
)

type Provider interface {
	RenderCertificate(ctx context.Context, data CertificateData) (*Document, error)
	RenderRoster(ctx context.Context, data RosterData) (*Document, error)
}

// PageObserver is told how many pages a single-page document came out as.
type PageObserver func(ctx context.Context, document string, pages int)

type PDFProvider struct {
	fonts    *FontLocator
	qr       *qrcode.Encoder
	observer PageObserver
	log      *zap.Logger
}

type Option func(*PDFProvider)

func WithFontLocator(l *FontLocator) Option {
	return func(p *PDFProvider) { p.fonts = l }
}

func WithPageObserver(o PageObserver) Option {
	return func(p *PDFProvider) { p.observer = o }
}

func WithQREncoder(e *qrcode.Encoder) Option {
	return func(p *PDFProvider) { p.qr = e }
}

func New(log *zap.Logger, opts ...Option) *PDFProvider {
	if log == nil {
		log = zap.NewNop()
	}
	p := &PDFProvider{
		qr:  qrcode.NewEncoder(),
		log: log.Named("pdf.provider"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *PDFProvider) observePages(ctx context.Context, document string, pages int) {
	if p.observer != nil {
		p.observer(ctx, document, pages)
	}
}

// LoggingPageObserver records the page count and flags anything other than
// exactly one page as a layout defect.
func LoggingPageObserver(log *zap.Logger, m *obsmetrics.Metrics) PageObserver {
	return func(ctx context.Context, document string, pages int) {
		m.RecordCertificatePages(ctx, pages)
		if pages != 1 {
			log.Warn("single-page layout overflowed",
				zap.String("document", document),
				zap.Int("pages", pages),
			)
		}
	}
}
