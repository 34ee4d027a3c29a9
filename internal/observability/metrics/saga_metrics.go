package metrics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const (
	StageReasonNone             = "none"
	StageReasonDeadlineExceeded = "deadline_exceeded"
	StageReasonCanceled         = "canceled"
	StageReasonUniqueViolation  = "unique_violation"
	StageReasonDBLockTimeout    = "db_lock_timeout"
	StageReasonNotFound         = "not_found"
	StageReasonUnknown          = "unknown"
)

// Reasoner lets domain errors pick their own low-cardinality metric reason.
type Reasoner interface {
	MetricReason() string
}

// SagaMetrics captures per-stage health of the registration pipeline.
type SagaMetrics struct {
	stageDuration   *prometheus.HistogramVec
	stageErrors     *prometheus.CounterVec
	storageAttempts *prometheus.CounterVec
	emailSends      *prometheus.CounterVec
}

var (
	sagaMetricsOnce sync.Once
	sagaMetrics     *SagaMetrics
)

// Saga returns the singleton registration pipeline metrics.
func Saga() *SagaMetrics {
	return SagaWithConfig(Config{})
}

// SagaWithConfig returns the singleton pipeline metrics using config labels.
func SagaWithConfig(cfg Config) *SagaMetrics {
	sagaMetricsOnce.Do(func() {
		sagaMetrics = newSagaMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return sagaMetrics
}

// ResetSagaMetricsForTest resets the pipeline metrics singleton for tests.
func ResetSagaMetricsForTest() {
	sagaMetricsOnce = sync.Once{}
	sagaMetrics = nil
}

func newSagaMetrics(registerer prometheus.Registerer, cfg Config) *SagaMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "clubhouse"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	stageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "clubhouse_registration_stage_duration_seconds",
		Help:        "Registration pipeline stage latency.",
		Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		ConstLabels: constLabels,
	}, []string{"stage"})
	stageErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "clubhouse_registration_stage_errors_total",
		Help:        "Registration pipeline stage failures by low-cardinality reason.",
		ConstLabels: constLabels,
	}, []string{"stage", "reason"})
	storageAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "clubhouse_artifact_store_attempts_total",
		Help:        "Artifact upload attempts by strategy and result.",
		ConstLabels: constLabels,
	}, []string{"strategy", "result"})
	emailSends := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "clubhouse_confirmation_emails_total",
		Help:        "Confirmation email sends by provider and result.",
		ConstLabels: constLabels,
	}, []string{"provider", "result"})

	registerer.MustRegister(stageDuration, stageErrors, storageAttempts, emailSends)

	return &SagaMetrics{
		stageDuration:   stageDuration,
		stageErrors:     stageErrors,
		storageAttempts: storageAttempts,
		emailSends:      emailSends,
	}
}

// ObserveStage records a stage duration and, when err is non-nil, its failure reason.
func (m *SagaMetrics) ObserveStage(stage string, d time.Duration, err error) {
	if m == nil {
		return
	}
	stage = normalizeLabel(stage)
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(stage, ClassifyStageReason(err)).Inc()
	}
}

func (m *SagaMetrics) RecordStorageAttempt(strategy string, err error) {
	if m == nil {
		return
	}
	m.storageAttempts.WithLabelValues(normalizeLabel(strategy), resultLabel(err)).Inc()
}

func (m *SagaMetrics) RecordEmailSend(provider string, err error) {
	if m == nil {
		return
	}
	result := resultLabel(err)
	if err != nil {
		result = ClassifyStageReason(err)
	}
	m.emailSends.WithLabelValues(normalizeLabel(provider), result).Inc()
}

// ClassifyStageReason maps an error to a bounded reason label.
func ClassifyStageReason(err error) string {
	if err == nil {
		return StageReasonNone
	}
	var reasoner Reasoner
	if errors.As(err, &reasoner) {
		if reason := strings.TrimSpace(reasoner.MetricReason()); reason != "" {
			return reason
		}
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return StageReasonDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return StageReasonCanceled
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return StageReasonUniqueViolation
	case errors.Is(err, gorm.ErrRecordNotFound):
		return StageReasonNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return StageReasonUniqueViolation
		case "55P03":
			return StageReasonDBLockTimeout
		}
	}
	return StageReasonUnknown
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return value
}
