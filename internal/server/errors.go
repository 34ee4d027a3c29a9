package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/smallbiznis/clubhouse/internal/booking/domain"
	"github.com/smallbiznis/clubhouse/internal/providers/email"
	"github.com/smallbiznis/clubhouse/internal/providers/pdf"
	"github.com/smallbiznis/clubhouse/internal/providers/storage"
)

type errorPayload struct {
	Type    string                          `json:"type"`
	Message string                          `json:"message"`
	Errors  []bookingdomain.ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRateLimited    = errors.New("rate_limited")
	ErrInternal       = errors.New("internal_error")
)

const (
	msgEventNotFound     = "Event not found"
	msgAlreadyRegistered = "This email is already registered for this event."
	msgRateLimited       = "Too many registration attempts. Please wait a moment and try again."
	msgRenderFailed      = "We could not generate your confirmation document. Please try again later."
	msgStorageFailed     = "We could not save your confirmation document. Please try again later."
	msgInvalidRequest    = "Invalid registration request."
	msgRegistrationError = "Registration failed. Please try again later."
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	switch {
	case err == nil:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, bookingdomain.ErrInvalidPageToken):
		return http.StatusBadRequest, errorPayload{Type: "validation_error", Message: err.Error()}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{Type: "unauthorized", Message: "unauthorized"}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{Type: "rate_limited", Message: msgRateLimited}
	case errors.Is(err, bookingdomain.ErrAlreadyRegistered):
		return http.StatusConflict, errorPayload{Type: "conflict", Message: msgAlreadyRegistered}
	case errors.Is(err, bookingdomain.ErrEventNotFound):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: msgEventNotFound}
	case errors.Is(err, ErrNotFound),
		errors.Is(err, bookingdomain.ErrNotFound):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: "not found"}
	default:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}
	}
}

// registrationError maps a Register failure onto the public intake contract.
// Mail failures carry the provider-specific message since the organizer can act on it.
func registrationError(err error) (int, registrationResponse) {
	resp := registrationResponse{Success: false}

	if vErr := asValidationErrors(err); vErr != nil {
		resp.Error = vErr.Error()
		resp.Errors = vErr.Errors
		return http.StatusBadRequest, resp
	}

	switch {
	case errors.Is(err, ErrInvalidRequest):
		resp.Error = msgInvalidRequest
		return http.StatusBadRequest, resp
	case errors.Is(err, ErrRateLimited):
		resp.Error = msgRateLimited
		return http.StatusTooManyRequests, resp
	case errors.Is(err, bookingdomain.ErrAlreadyRegistered):
		resp.Error = msgAlreadyRegistered
		return http.StatusConflict, resp
	case errors.Is(err, bookingdomain.ErrEventNotFound):
		resp.Error = msgEventNotFound
		return http.StatusNotFound, resp
	}

	if msg := email.UserMessage(err); msg != "" {
		resp.Error = msg
		return http.StatusBadGateway, resp
	}

	switch {
	case errors.Is(err, pdf.ErrRender), errors.Is(err, pdf.ErrFontsNotFound):
		resp.Error = msgRenderFailed
	case errors.Is(err, storage.ErrStorage):
		resp.Error = msgStorageFailed
	default:
		resp.Error = msgRegistrationError
	}
	return http.StatusInternalServerError, resp
}

func asValidationErrors(err error) *bookingdomain.ValidationErrors {
	var vErr *bookingdomain.ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

// classifyErrorForLog returns the (error_type, error_code) pair logged per request.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	var stageErr *bookingdomain.StageError
	if errors.As(err, &stageErr) {
		code := "internal_error"
		var de *email.DeliveryError
		switch {
		case errors.As(err, &de):
			code = de.MetricReason()
		case errors.Is(err, pdf.ErrRender), errors.Is(err, pdf.ErrFontsNotFound):
			code = pdf.ErrRender.Error()
		case errors.Is(err, storage.ErrStorage):
			code = storage.ErrStorage.Error()
		}
		return "registration_rolled_back", stageErr.Stage + ":" + code
	}
	if asValidationErrors(err) != nil {
		return "validation_error", bookingdomain.ErrInvalidIntake.Error()
	}
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		return payload.Type, ErrInternal.Error()
	}
	return payload.Type, err.Error()
}
