package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/airnex/internal/aggregation"
	"github.com/smallbiznis/airnex/internal/authorization"
	"github.com/smallbiznis/airnex/internal/classifier"
	companydomain "github.com/smallbiznis/airnex/internal/company/domain"
	dashboarddomain "github.com/smallbiznis/airnex/internal/dashboard/domain"
	emissiondomain "github.com/smallbiznis/airnex/internal/emission/domain"
	"github.com/smallbiznis/airnex/internal/identity"
	"github.com/smallbiznis/airnex/internal/providers/llm"
	recommendationdomain "github.com/smallbiznis/airnex/internal/recommendation/domain"
	reportdomain "github.com/smallbiznis/airnex/internal/report/domain"
	"github.com/smallbiznis/airnex/pkg/validation"
)

type errorResponse struct {
	Error string `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRateLimited    = errors.New("rate_limited")
)

// invalidFields maps single-value sentinel errors onto the request field
// they reject.
var invalidFields = map[error]string{
	emissiondomain.ErrInvalidScope:        "scope",
	emissiondomain.ErrInvalidLimit:        "limit",
	emissiondomain.ErrInvalidCategory:     "categoryKey",
	emissiondomain.ErrInvalidEvidence:     "text",
	emissiondomain.ErrInvalidProject:      "projectId",
	aggregation.ErrInvalidPeriod:          "period",
	reportdomain.ErrInvalidType:           "type",
	recommendationdomain.ErrInvalidID:     "id",
	recommendationdomain.ErrInvalidStatus: "status",
	companydomain.ErrInvalidUser:          "user",
	classifier.ErrEmptyEvidence:           "text",
}

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

		status, message := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, "internal server error"
	}

	if _, ok := validation.Fields(err); ok {
		return http.StatusBadRequest, err.Error()
	}
	if field, ok := invalidField(err); ok {
		return http.StatusBadRequest, validation.Field(field).Error()
	}

	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, "invalid request body"
	case errors.Is(err, identity.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, authorization.ErrForbidden),
		errors.Is(err, authorization.ErrInvalidRole):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, companydomain.ErrNotFound),
		errors.Is(err, emissiondomain.ErrInvalidCompany),
		errors.Is(err, dashboarddomain.ErrInvalidCompany),
		errors.Is(err, recommendationdomain.ErrInvalidCompany),
		errors.Is(err, reportdomain.ErrInvalidCompany):
		return http.StatusNotFound, "company not found"
	case errors.Is(err, recommendationdomain.ErrNotFound):
		return http.StatusNotFound, "recommendation not found"
	case errors.Is(err, recommendationdomain.ErrInvalidTransition):
		return http.StatusConflict, "status transition not allowed"
	case errors.Is(err, companydomain.ErrAlreadyMember):
		return http.StatusConflict, "user already belongs to a company"
	case errors.Is(err, classifier.ErrInvalidClassification):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate limit exceeded"
	case errors.Is(err, llm.ErrUnavailable):
		return http.StatusServiceUnavailable, "ai service unavailable"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func invalidField(err error) (string, bool) {
	for sentinel, field := range invalidFields {
		if errors.Is(err, sentinel) {
			return field, true
		}
	}
	return "", false
}

// classifyErrorForLog gives request logs a stable type/code pair.
func classifyErrorForLog(err error) (string, string) {
	status, _ := mapError(err)
	switch status {
	case http.StatusBadRequest:
		return "validation_error", errorCode(err)
	case http.StatusUnauthorized:
		return "unauthorized", "unauthenticated"
	case http.StatusForbidden:
		return "forbidden", "forbidden"
	case http.StatusNotFound:
		return "not_found", errorCode(err)
	case http.StatusConflict:
		return "conflict", errorCode(err)
	case http.StatusTooManyRequests:
		return "rate_limited", "rate_limited"
	case http.StatusUnprocessableEntity:
		return "unprocessable", "invalid_classification"
	case http.StatusServiceUnavailable:
		return "service_unavailable", "llm_unavailable"
	default:
		return "internal_error", "internal_error"
	}
}

func errorCode(err error) string {
	if _, ok := validation.Fields(err); ok {
		return "missing_or_invalid_fields"
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		if errors.Unwrap(e) == nil {
			return e.Error()
		}
	}
	return "unknown"
}
