package providers

import (
	"github.com/smallbiznis/clubhouse/internal/providers/email"
	"github.com/smallbiznis/clubhouse/internal/providers/pdf"
	"github.com/smallbiznis/clubhouse/internal/providers/storage"
	"github.com/smallbiznis/clubhouse/pkg/qrcode"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	fx.Provide(qrcode.NewEncoder),
	email.Module,
	pdf.Module,
	storage.Module,
)
