package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clubhouse/internal/booking/domain"
	"github.com/smallbiznis/clubhouse/internal/clock"
	"github.com/smallbiznis/clubhouse/internal/config"
	eventdomain "github.com/smallbiznis/clubhouse/internal/event/domain"
	notificationdomain "github.com/smallbiznis/clubhouse/internal/notification/domain"
	obscontext "github.com/smallbiznis/clubhouse/internal/observability/context"
	"github.com/smallbiznis/clubhouse/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/clubhouse/internal/observability/metrics"
	"github.com/smallbiznis/clubhouse/internal/providers/email"
	"github.com/smallbiznis/clubhouse/internal/providers/pdf"
	"github.com/smallbiznis/clubhouse/internal/providers/storage"
	"github.com/smallbiznis/clubhouse/pkg/db/pagination"
	"github.com/smallbiznis/clubhouse/pkg/qrcode"
	"github.com/smallbiznis/clubhouse/pkg/textsafe"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const rosterBatchSize = pagination.MaxPageSize

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Config  config.Config
	Policy  *config.IntakePolicyHolder
	Repo    domain.Repository
	Events  eventdomain.Reader
	PDF     pdf.Provider
	Store   storage.ArtifactStore
	Mailer  email.Mailer
	QR      *qrcode.Encoder
	Sink    notificationdomain.Sink `optional:"true"`
	Metrics *obsmetrics.Metrics     `optional:"true"`
	Saga    *obsmetrics.SagaMetrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	policy  *config.IntakePolicyHolder
	repo    domain.Repository
	events  eventdomain.Reader
	pdf     pdf.Provider
	store   storage.ArtifactStore
	mailer  email.Mailer
	qr      *qrcode.Encoder
	sink    notificationdomain.Sink
	metrics *obsmetrics.Metrics
	saga    *obsmetrics.SagaMetrics
	codes   *domain.CodeGenerator

	organization string
	baseURL      string
	loc          *time.Location
}

func New(p Params) domain.Service {
	log := p.Log.Named("booking.service")

	loc, err := time.LoadLocation(strings.TrimSpace(p.Config.Site.Timezone))
	if err != nil {
		log.Warn("invalid site timezone, using UTC", zap.String("timezone", p.Config.Site.Timezone), zap.Error(err))
		loc = time.UTC
	}

	return &Service{
		db:           p.DB,
		log:          log,
		genID:        p.GenID,
		clock:        p.Clock,
		policy:       p.Policy,
		repo:         p.Repo,
		events:       p.Events,
		pdf:          p.PDF,
		store:        p.Store,
		mailer:       p.Mailer,
		qr:           p.QR,
		sink:         p.Sink,
		metrics:      p.Metrics,
		saga:         p.Saga,
		codes:        domain.NewCodeGenerator(loc),
		organization: p.Config.Site.Organization,
		baseURL:      strings.TrimRight(p.Config.Site.BaseURL, "/"),
		loc:          loc,
	}
}

// Register runs the whole registration. It returns a committed booking or
// an error; on error no booking for this intake remains.
func (s *Service) Register(ctx context.Context, in domain.Intake) (*domain.Booking, error) {
	var intake domain.Intake
	err := s.stage(ctx, domain.StageValidate, func(context.Context) error {
		var err error
		intake, err = domain.Validate(in, s.policy.Get())
		return err
	})
	if err != nil {
		s.metrics.RecordRegistration(ctx, obsmetrics.OutcomeRejected)
		return nil, err
	}

	ctx = obscontext.WithEventID(ctx, intake.EventID)
	log := logger.WithContext(ctx, s.log)
	emailKey := domain.NormalizeEmail(intake.Email)

	err = s.stage(ctx, domain.StageDuplicate, func(ctx context.Context) error {
		exists, err := s.repo.ExistsByEventEmail(ctx, s.db, intake.EventID, emailKey)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAlreadyRegistered
		}
		return nil
	})
	if err != nil {
		return nil, s.rejected(ctx, log, domain.StageDuplicate, err)
	}

	var event *eventdomain.Event
	err = s.stage(ctx, domain.StageEvent, func(ctx context.Context) error {
		var err error
		event, err = s.events.GetByID(ctx, intake.EventID)
		if errors.Is(err, eventdomain.ErrNotFound) {
			return domain.ErrEventNotFound
		}
		return err
	})
	if err != nil {
		return nil, s.rejected(ctx, log, domain.StageEvent, err)
	}

	now := s.clock.Now()
	code, err := s.codes.Generate(now)
	if err != nil {
		return nil, s.rejected(ctx, log, domain.StageCode, err)
	}

	booking := &domain.Booking{
		ID:               s.genID.Generate(),
		EventID:          event.ID,
		RegistrationCode: code,
		Name:             intake.Name,
		School:           intake.School,
		Email:            intake.Email,
		EmailNormalized:  emailKey,
		Phone:            intake.Phone,
		ParentsPhone:     intake.ParentsPhone,
		Information:      intake.Information,
		Status:           domain.StatusProvisional,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	log = logger.WithBooking(log, booking.ID.String(), code)

	err = s.stage(ctx, domain.StagePersist, func(ctx context.Context) error {
		return s.repo.Insert(ctx, s.db, booking)
	})
	if err != nil {
		return nil, s.rejected(ctx, log, domain.StagePersist, err)
	}

	// From here on the run completes even if the caller goes away, so the
	// provisional row is always either committed or deleted.
	result := s.finalize(context.WithoutCancel(ctx), log, booking, event)

	switch r := result.(type) {
	case domain.Committed:
		s.metrics.RecordRegistration(ctx, obsmetrics.OutcomeCommitted)
		log.Info("registration committed",
			zap.String("to", email.MaskAddress(r.Booking.Email)),
			zap.String("artifact", r.Locator),
		)
		s.notify(context.WithoutCancel(ctx), log, r.Booking, event)
		return r.Booking, nil
	case domain.RolledBack:
		s.metrics.RecordRegistration(ctx, obsmetrics.OutcomeRolledBack)
		return nil, &domain.StageError{Stage: r.Stage, Err: r.Reason}
	default:
		return nil, domain.ErrInternal
	}
}

// rejected records a failure that happened before anything was written.
func (s *Service) rejected(ctx context.Context, log *zap.Logger, stage string, err error) error {
	outcome := obsmetrics.OutcomeRejected
	switch {
	case errors.Is(err, domain.ErrAlreadyRegistered):
		outcome = obsmetrics.OutcomeDuplicate
		log.Info("duplicate registration rejected", zap.String("stage", stage))
	case errors.Is(err, domain.ErrEventNotFound):
		log.Info("registration for unknown event rejected")
	default:
		log.Error("registration failed", zap.String("stage", stage), zap.Error(err))
	}
	s.metrics.RecordRegistration(ctx, outcome)
	return err
}

func (s *Service) Verify(ctx context.Context, bookingID, registrationCode string) (*domain.Verification, error) {
	booking, err := s.committed(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(registrationCode), booking.RegistrationCode) {
		return nil, domain.ErrNotFound
	}

	v := &domain.Verification{
		BookingID:        booking.ID.String(),
		RegistrationCode: booking.RegistrationCode,
		EventID:          booking.EventID,
		Name:             textsafe.Line(booking.Name),
		School:           textsafe.Line(booking.School),
		RegisteredAt:     booking.CreatedAt,
	}
	event, err := s.events.GetByID(ctx, booking.EventID)
	switch {
	case err == nil:
		v.EventTitle = textsafe.Line(event.Title)
		v.EventDate = event.DateLabel(s.loc)
	case errors.Is(err, eventdomain.ErrNotFound):
		// The event was removed after registration; the booking still verifies.
	default:
		return nil, err
	}
	return v, nil
}

func (s *Service) QRCode(ctx context.Context, bookingID string) (*domain.QRCode, error) {
	booking, err := s.committed(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	link := s.verificationURL(booking)
	dataURL, err := s.qr.DataURL(link)
	if err != nil {
		return nil, err
	}
	return &domain.QRCode{URL: link, DataURL: dataURL}, nil
}

func (s *Service) List(ctx context.Context, eventID string, page pagination.Pagination) (*domain.ListResponse, error) {
	if _, err := s.event(ctx, eventID); err != nil {
		return nil, err
	}

	filter := domain.ListFilter{EventID: strings.TrimSpace(eventID)}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		afterID, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		filter.AfterID = afterID
	}

	limit := page.Limit()
	filter.Limit = limit + 1
	items, err := s.repo.ListCommittedByEvent(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	items, pageInfo := pagination.BuildCursorPageInfo(items, limit, func(b *domain.Booking) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: b.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})

	resp := &domain.ListResponse{
		Bookings: make([]domain.Summary, 0, len(items)),
		PageInfo: *pageInfo,
	}
	for _, b := range items {
		resp.Bookings = append(resp.Bookings, toSummary(b))
	}
	return resp, nil
}

// Roster renders every committed booking of an event as a PDF table.
func (s *Service) Roster(ctx context.Context, eventID string) ([]byte, error) {
	event, err := s.event(ctx, eventID)
	if err != nil {
		return nil, err
	}

	roster := pdf.RosterData{
		Organization: s.organization,
		EventTitle:   event.Title,
		EventDate:    event.DateLabel(s.loc),
		GeneratedAt:  s.clock.Now(),
	}

	filter := domain.ListFilter{EventID: event.ID, Limit: rosterBatchSize}
	for {
		batch, err := s.repo.ListCommittedByEvent(ctx, s.db, filter)
		if err != nil {
			return nil, err
		}
		for _, b := range batch {
			roster.Rows = append(roster.Rows, pdf.RosterRow{
				RegistrationCode: b.RegistrationCode,
				Name:             b.Name,
				School:           b.School,
				Email:            b.Email,
				ParentsPhone:     b.ParentsPhone,
				RegisteredAt:     b.CreatedAt,
			})
		}
		if len(batch) < rosterBatchSize {
			break
		}
		filter.AfterID = batch[len(batch)-1].ID
	}

	doc, err := s.pdf.RenderRoster(ctx, roster)
	if err != nil {
		return nil, err
	}
	return doc.Bytes, nil
}

func (s *Service) committed(ctx context.Context, bookingID string) (*domain.Booking, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(bookingID))
	if err != nil || id == 0 {
		return nil, domain.ErrNotFound
	}
	return s.repo.FindCommitted(ctx, s.db, id)
}

func (s *Service) event(ctx context.Context, eventID string) (*eventdomain.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if errors.Is(err, eventdomain.ErrNotFound) {
		return nil, domain.ErrEventNotFound
	}
	return event, err
}

// verificationURL is both emailed and encoded into the certificate QR.
func (s *Service) verificationURL(b *domain.Booking) string {
	return s.baseURL + "/verify-booking?registrationId=" + url.QueryEscape(b.RegistrationCode) +
		"&bookingId=" + url.QueryEscape(b.ID.String())
}

// absoluteURL turns a site-relative locator into a link usable in email.
func (s *Service) absoluteURL(locator string) string {
	if strings.HasPrefix(locator, "/") {
		return s.baseURL + locator
	}
	return locator
}

func toSummary(b *domain.Booking) domain.Summary {
	out := domain.Summary{
		BookingID:        b.ID.String(),
		RegistrationCode: b.RegistrationCode,
		Name:             b.Name,
		School:           b.School,
		Email:            b.Email,
		ParentsPhone:     b.ParentsPhone,
		RegisteredAt:     b.CreatedAt,
	}
	if b.ArtifactRef != nil {
		out.ArtifactRef = *b.ArtifactRef
	}
	return out
}
