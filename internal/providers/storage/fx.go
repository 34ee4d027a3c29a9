package storage

import (
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/smallbiznis/clubhouse/internal/config"
	obsmetrics "github.com/smallbiznis/clubhouse/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.storage",
	fx.Provide(
		fx.Annotate(NewFromConfig, fx.As(new(ArtifactStore))),
	),
)

type Params struct {
	fx.In

	Config  config.Config
	Policy  *config.IntakePolicyHolder
	Log     *zap.Logger
	Metrics *obsmetrics.SagaMetrics `optional:"true"`
}

// NewFromConfig ranks Cloudinary first when credentials exist; the local
// filesystem is always the last resort.
func NewFromConfig(p Params) (*Ranked, error) {
	var stores []Store

	sc := p.Config.Storage
	if sc.CloudinaryEnabled() {
		cld, err := cloudinary.NewFromParams(sc.CloudinaryCloudName, sc.CloudinaryAPIKey, sc.CloudinaryAPISecret)
		if err != nil {
			return nil, err
		}
		stores = append(stores, NewCloudinary(&cld.Upload, sc.BookingFolder, sc.ResourceTypes, p.Log))
	}

	stores = append(stores, NewLocal(sc.UploadsDir, sc.PublicPrefix, func() int {
		return p.Policy.Get().SlugMaxLength
	}, p.Log))

	ranked := NewRanked(p.Log, p.Metrics, stores...)
	p.Log.Info("artifact storage configured", zap.Strings("strategies", ranked.Strategies()))
	return ranked, nil
}
