package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	artifactdomain "github.com/tracera/tracera/internal/artifact/domain"
	projectdomain "github.com/tracera/tracera/internal/project/domain"
	"github.com/tracera/tracera/internal/revstore"
	trackerdomain "github.com/tracera/tracera/internal/tracker/domain"
	trackerfielddomain "github.com/tracera/tracera/internal/trackerfield/domain"
	userdomain "github.com/tracera/tracera/internal/user/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrUnauthorized = errors.New("unauthorized")

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

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

// validationSentinels are the per-kind input rejections. They all map to 400.
var validationSentinels = []error{
	userdomain.ErrInvalidUserName,
	userdomain.ErrInvalidRealName,
	userdomain.ErrInvalidEmail,
	userdomain.ErrInvalidPassword,
	projectdomain.ErrInvalidShortName,
	projectdomain.ErrInvalidFullName,
	trackerdomain.ErrInvalidShortName,
	trackerdomain.ErrInvalidName,
	trackerdomain.ErrInvalidProject,
	trackerfielddomain.ErrInvalidShortName,
	trackerfielddomain.ErrInvalidLabel,
	trackerfielddomain.ErrInvalidFieldType,
	trackerfielddomain.ErrInvalidTracker,
	artifactdomain.ErrInvalidSummary,
	artifactdomain.ErrInvalidTracker,
}

func isValidationError(err error) bool {
	for _, sentinel := range validationSentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return errors.Is(err, revstore.ErrInvalidAttribute)
}

func isConflict(err error) bool {
	return errors.Is(err, revstore.ErrConflict) || errors.Is(err, revstore.ErrNoStateChange)
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	var vErr *ValidationErrors
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, revstore.ErrNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, revstore.ErrConflict):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case errors.Is(err, revstore.ErrNoStateChange):
		return http.StatusConflict, errorPayload{
			Type:    "no_state_change",
			Message: "entity already in requested state",
		}
	case errors.Is(err, revstore.ErrInvalidReference):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "invalid_reference",
			Message: "referenced entity does not exist",
		}
	default:
		// Ambiguous matches and storage failures both surface generically.
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "internal_error", payload.Type
	case payload.Type == "validation_error":
		return "validation_error", payload.Type
	default:
		return "client_error", payload.Type
	}
}
