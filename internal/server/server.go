package server

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	bookingdomain "github.com/smallbiznis/clubhouse/internal/booking/domain"
	"github.com/smallbiznis/clubhouse/internal/config"
	"github.com/smallbiznis/clubhouse/internal/observability"
	obsmiddleware "github.com/smallbiznis/clubhouse/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/clubhouse/internal/observability/metrics"
	obstracing "github.com/smallbiznis/clubhouse/internal/observability/tracing"
	"github.com/smallbiznis/clubhouse/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	bookingSvc    bookingdomain.Service
	intakeLimiter *ratelimit.IntakeLimiter
	obsMetrics    *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	BookingSvc    bookingdomain.Service
	IntakeLimiter *ratelimit.IntakeLimiter `optional:"true"`
	ObsMetrics    *obsmetrics.Metrics      `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		bookingSvc:    p.BookingSvc,
		intakeLimiter: p.IntakeLimiter,
		obsMetrics:    p.ObsMetrics,
	}

	svc.registerAPIRoutes()
	svc.registerPublicRoutes()
	svc.registerAdminRoutes()
	svc.registerUploads()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.POST("/bookings", s.IntakeRateLimit(), s.CreateBooking)
	api.GET("/bookings/:id/qrcode", s.GetBookingQRCode)
}

func (s *Server) registerPublicRoutes() {
	s.engine.GET("/verify-booking", s.VerifyBooking)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(s.AdminRequired())

	admin.GET("/events/:id/bookings", s.ListEventBookings)
	admin.GET("/events/:id/roster.pdf", s.DownloadEventRoster)
}

// registerUploads serves locally stored confirmation PDFs under the same
// prefix the local artifact store hands out.
func (s *Server) registerUploads() {
	prefix := strings.TrimRight(strings.TrimSpace(s.cfg.Storage.PublicPrefix), "/")
	dir := strings.TrimSpace(s.cfg.Storage.UploadsDir)
	if prefix == "" || dir == "" {
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return
		}
	}
	s.engine.StaticFS(prefix, gin.Dir(dir, false))
}
