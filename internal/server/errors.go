package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	documentdomain "github.com/saralbooks/saralbooks/internal/document/domain"
	dutydomain "github.com/saralbooks/saralbooks/internal/dutyledger/domain"
	partydomain "github.com/saralbooks/saralbooks/internal/party/domain"
	reportdomain "github.com/saralbooks/saralbooks/internal/report/domain"
	stockdomain "github.com/saralbooks/saralbooks/internal/stock/domain"
	"gorm.io/gorm"
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

var (
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
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

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isPartyValidationError(err),
		isStockValidationError(err),
		isDutyLedgerValidationError(err),
		isDocumentValidationError(err),
		isReportValidationError(err):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, partydomain.ErrNotFound),
		errors.Is(err, stockdomain.ErrNotFound),
		errors.Is(err, dutydomain.ErrNotFound),
		errors.Is(err, documentdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isPartyValidationError(err error) bool {
	switch err {
	case partydomain.ErrInvalidCompany,
		partydomain.ErrInvalidName,
		partydomain.ErrInvalidID:
		return true
	default:
		return false
	}
}

func isStockValidationError(err error) bool {
	switch err {
	case stockdomain.ErrInvalidCompany,
		stockdomain.ErrInvalidName,
		stockdomain.ErrInvalidID,
		stockdomain.ErrInvalidTaxRate:
		return true
	default:
		return false
	}
}

func isDutyLedgerValidationError(err error) bool {
	switch err {
	case dutydomain.ErrInvalidCompany,
		dutydomain.ErrInvalidName,
		dutydomain.ErrInvalidID,
		dutydomain.ErrInvalidKind,
		dutydomain.ErrInvalidMethod,
		dutydomain.ErrInvalidApplyOn:
		return true
	default:
		return false
	}
}

func isDocumentValidationError(err error) bool {
	switch err {
	case documentdomain.ErrInvalidCompany,
		documentdomain.ErrInvalidID,
		documentdomain.ErrInvalidType,
		documentdomain.ErrInvalidDate,
		documentdomain.ErrMissingParty,
		documentdomain.ErrMissingNumber:
		return true
	default:
		return false
	}
}

func isReportValidationError(err error) bool {
	switch err {
	case reportdomain.ErrInvalidCompany,
		reportdomain.ErrInvalidWindow:
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	if strings.HasPrefix(code, "missing_") {
		return strings.TrimPrefix(code, "missing_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "missing_party_name":
		return "party name is required"
	case "missing_document_number":
		return "document number is required"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog buckets request errors for the access log.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	switch {
	case asValidationErrors(err) != nil, isValidationError(err):
		return "validation", validationErrorCode(err)
	case isNotFoundError(err):
		return "not_found", "not_found"
	case errors.Is(err, ErrConflict), errors.Is(err, gorm.ErrDuplicatedKey):
		return "conflict", "conflict"
	default:
		return "internal", "internal_error"
	}
}
