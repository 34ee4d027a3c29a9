package service

import (
	"context"
	"fmt"
	"time"

	"github.com/smallbiznis/clubhouse/internal/booking/domain"
	eventdomain "github.com/smallbiznis/clubhouse/internal/event/domain"
	notificationdomain "github.com/smallbiznis/clubhouse/internal/notification/domain"
	obscontext "github.com/smallbiznis/clubhouse/internal/observability/context"
	"github.com/smallbiznis/clubhouse/internal/observability/tracing"
	"github.com/smallbiznis/clubhouse/internal/providers/email"
	"github.com/smallbiznis/clubhouse/internal/providers/pdf"
	"github.com/smallbiznis/clubhouse/internal/providers/storage"
	"github.com/smallbiznis/clubhouse/pkg/textsafe"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// finalize renders, stores, mails and commits a provisional booking. Any
// failure, panics included, deletes the booking before returning.
func (s *Service) finalize(ctx context.Context, log *zap.Logger, b *domain.Booking, event *eventdomain.Event) (result domain.Result) {
	stage := domain.StageRender
	var artifact *storage.Artifact

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("registration panicked",
				zap.String("stage", stage),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
			result = s.compensate(ctx, log, b, artifact, stage, fmt.Errorf("%w: %v", domain.ErrInternal, rec))
		}
	}()

	link := s.verificationURL(b)

	var doc *pdf.Document
	err := s.stage(ctx, stage, func(ctx context.Context) error {
		var err error
		doc, err = s.pdf.RenderCertificate(ctx, s.certificate(b, event, link))
		return err
	})
	if err != nil {
		return s.compensate(ctx, log, b, nil, stage, err)
	}

	stage = domain.StageStore
	err = s.stage(ctx, stage, func(ctx context.Context) error {
		var err error
		artifact, err = s.store.Put(ctx, storage.Object{
			Key:         b.RegistrationCode,
			BookingID:   b.ID.String(),
			EventTitle:  event.Title,
			ContentType: "application/pdf",
			Bytes:       doc.Bytes,
		})
		return err
	})
	if err != nil {
		return s.compensate(ctx, log, b, nil, stage, err)
	}

	stage = domain.StageMail
	err = s.stage(ctx, stage, func(ctx context.Context) error {
		return s.mailer.SendConfirmation(ctx, s.confirmation(b, event, link, artifact, doc))
	})
	if err != nil {
		return s.compensate(ctx, log, b, artifact, stage, err)
	}

	stage = domain.StageCommit
	now := s.clock.Now()
	err = s.stage(ctx, stage, func(ctx context.Context) error {
		return s.repo.MarkCommitted(ctx, s.db, b.ID, artifact.Locator, now)
	})
	if err != nil {
		return s.compensate(ctx, log, b, artifact, stage, err)
	}

	locator := artifact.Locator
	b.Status = domain.StatusCommitted
	b.ArtifactRef = &locator
	b.UpdatedAt = now
	return domain.Committed{Booking: b, Locator: locator}
}

// compensate deletes the provisional booking and, best effort, the stored
// artifact. The original failure is what the caller sees.
func (s *Service) compensate(ctx context.Context, log *zap.Logger, b *domain.Booking, artifact *storage.Artifact, stage string, reason error) domain.RolledBack {
	log.Warn("registration rolled back", zap.String("stage", stage), zap.Error(reason))
	s.metrics.RecordRollback(ctx, stage)

	rb := domain.RolledBack{Stage: stage, Reason: reason}
	if err := s.repo.Delete(ctx, s.db, b.ID); err != nil {
		rb.CompensationErr = err
		log.Error("compensating delete failed, provisional booking left behind", zap.Error(err))
	}
	if artifact != nil {
		if err := s.store.Remove(ctx, artifact); err != nil {
			log.Warn("artifact cleanup failed",
				zap.String("strategy", artifact.Strategy),
				zap.String("locator", artifact.Locator),
				zap.Error(err),
			)
		}
	}
	return rb
}

// stage runs fn inside its own span and records its latency and outcome.
func (s *Service) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := tracing.StartStage(ctx, name, attribute.String("event.id", obscontext.EventIDFromContext(ctx)))
	start := time.Now()
	err := fn(ctx)
	s.saga.ObserveStage(name, time.Since(start), err)
	tracing.EndStage(span, err)
	return err
}

func (s *Service) certificate(b *domain.Booking, event *eventdomain.Event, link string) pdf.CertificateData {
	return pdf.CertificateData{
		Organization:     s.organization,
		RegistrationCode: b.RegistrationCode,
		BookingID:        b.ID.String(),
		EventTitle:       event.Title,
		EventDate:        event.DateLabel(s.loc),
		EventTime:        event.TimeLabel(),
		Venue:            event.VenueLabel(),
		Eligibility:      event.Eligibility,
		EventDescription: event.Summary(),
		Name:             b.Name,
		School:           b.School,
		Email:            b.Email,
		Phone:            b.Phone,
		ParentsPhone:     b.ParentsPhone,
		Information:      b.Information,
		VerificationURL:  link,
		IssuedAt:         b.CreatedAt,
	}
}

func (s *Service) confirmation(b *domain.Booking, event *eventdomain.Event, link string, artifact *storage.Artifact, doc *pdf.Document) email.Confirmation {
	return email.Confirmation{
		To:               b.Email,
		Organization:     s.organization,
		Name:             textsafe.Line(b.Name),
		School:           textsafe.Line(b.School),
		Email:            textsafe.Line(b.Email),
		Phone:            textsafe.Line(b.Phone),
		ParentsPhone:     textsafe.Line(b.ParentsPhone),
		RegistrationCode: b.RegistrationCode,
		BookingID:        b.ID.String(),
		EventTitle:       textsafe.Line(event.Title),
		EventDate:        event.DateLabel(s.loc),
		EventTime:        textsafe.Line(event.TimeLabel()),
		Venue:            textsafe.Line(event.VenueLabel()),
		VerificationURL:  link,
		ArtifactURL:      s.absoluteURL(artifact.Locator),
		Attachment:       doc.Bytes,
	}
}

// notify publishes the committed registration to the shared feed. Failures
// are logged only; the registration already succeeded.
func (s *Service) notify(ctx context.Context, log *zap.Logger, b *domain.Booking, event *eventdomain.Event) {
	if s.sink == nil {
		return
	}
	err := s.sink.Notify(ctx, notificationdomain.Notification{
		Type:  notificationdomain.TypeBookingConfirmed,
		Title: "New registration for " + textsafe.Line(event.Title),
		Body:  textsafe.Line(b.Name) + " from " + textsafe.Line(b.School) + " registered.",
		Payload: datatypes.JSONMap{
			"booking_id":      b.ID.String(),
			"event_id":        b.EventID,
			"registration_id": b.RegistrationCode,
		},
		CreatedAt: s.clock.Now(),
	})
	if err != nil {
		log.Warn("registration notification failed", zap.Error(err))
	}
}
