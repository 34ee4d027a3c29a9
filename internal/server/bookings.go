package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/smallbiznis/clubhouse/internal/booking/domain"
	"github.com/smallbiznis/clubhouse/internal/observability/logger"
	"github.com/smallbiznis/clubhouse/pkg/db/pagination"
	"go.uber.org/zap"
)

type registrationResponse struct {
	Success   bool                            `json:"success"`
	BookingID string                          `json:"bookingId,omitempty"`
	Error     string                          `json:"error,omitempty"`
	Errors    []bookingdomain.ValidationError `json:"errors,omitempty"`
}

// CreateBooking runs the registration pipeline for one intake form.
func (s *Server) CreateBooking(c *gin.Context) {
	var req bookingdomain.Intake
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondRegistrationError(c, ErrInvalidRequest)
		return
	}

	booking, err := s.bookingSvc.Register(c.Request.Context(), req)
	if err != nil {
		s.respondRegistrationError(c, err)
		return
	}

	bookingID := booking.ID.String()
	c.Set("booking_id", bookingID)
	c.JSON(http.StatusCreated, registrationResponse{
		Success:   true,
		BookingID: bookingID,
	})
}

func (s *Server) respondRegistrationError(c *gin.Context, err error) {
	_ = c.Error(err)
	var stageErr *bookingdomain.StageError
	if errors.As(err, &stageErr) {
		logger.FromContext(c.Request.Context()).Warn("registration rolled back",
			zap.String("stage", stageErr.Stage),
			zap.Error(err),
		)
	}
	status, resp := registrationError(err)
	c.JSON(status, resp)
}

func (s *Server) VerifyBooking(c *gin.Context) {
	code := strings.TrimSpace(c.Query("registrationId"))
	bookingID := strings.TrimSpace(c.Query("bookingId"))
	if code == "" || bookingID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	verification, err := s.bookingSvc.Verify(c.Request.Context(), bookingID, code)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set("booking_id", verification.BookingID)
	c.JSON(http.StatusOK, gin.H{"data": verification})
}

func (s *Server) GetBookingQRCode(c *gin.Context) {
	bookingID := strings.TrimSpace(c.Param("id"))
	if bookingID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	qr, err := s.bookingSvc.QRCode(c.Request.Context(), bookingID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set("booking_id", bookingID)
	c.JSON(http.StatusOK, qr)
}

func (s *Server) ListEventBookings(c *gin.Context) {
	eventID := strings.TrimSpace(c.Param("id"))
	if eventID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.bookingSvc.List(c.Request.Context(), eventID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DownloadEventRoster(c *gin.Context) {
	eventID := strings.TrimSpace(c.Param("id"))
	if eventID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	doc, err := s.bookingSvc.Roster(c.Request.Context(), eventID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="roster-`+safeFilename(eventID)+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

func safeFilename(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "event"
	}
	return b.String()
}
