package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/pagination"
)

// ErrorResponse documents the error envelope for Swagger.
type ErrorResponse struct {
	Success bool                   `json:"success" example:"false"`
	Message string                 `json:"message"`
	Errors  []apperrors.FieldError `json:"errors,omitempty"`
}

// MessageResponse documents a bare success envelope for Swagger.
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message"`
}

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return 0, apperrors.ErrUnauthorized
	}
	return userID.(uint), nil
}

// parsePathID parses a uint path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return uint(id), nil
}

// respondOK writes a success envelope: {success, message?, data}.
func respondOK(c *gin.Context, status int, message string, data gin.H) {
	body := gin.H{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	c.JSON(status, body)
}

// respondPage writes a paginated success envelope with count/total/page/pages
// beside the data payload.
func respondPage[T any](c *gin.Context, key string, page *pagination.PageResponse[T]) {
	c.JSON(200, gin.H{
		"success": true,
		"count":   page.Count,
		"total":   page.Total,
		"page":    page.Page,
		"pages":   page.Pages,
		"data":    gin.H{key: page.Items},
	})
}

// respondWithError writes a consistent JSON error envelope. If the error is
// an *AppError it uses the error's status code, message, and field details.
// Otherwise it logs the unexpected error and returns a generic internal
// server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		body := gin.H{
			"success": false,
			"message": appErr.Message,
		}
		if len(appErr.Fields) > 0 {
			body["errors"] = appErr.Fields
		}
		c.JSON(appErr.StatusCode, body)
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"success": false,
		"message": apperrors.ErrInternalServer.Message,
	})
}

// bindingError converts a Gin binding failure into a validation AppError
// carrying per-field details.
func bindingError(err error) *apperrors.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperrors.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperrors.FieldError{
				Field:   snakeCase(fe.Field()),
				Message: validationMessage(fe),
				Value:   fe.Value(),
			})
		}
		return apperrors.WithFields(apperrors.ErrValidationFailed, fields)
	}
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

// validationMessage renders a human-readable message for a failed rule.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "gt":
		return "Must be greater than " + fe.Param()
	case "gte":
		return "Must be at least " + fe.Param()
	case "min":
		return "Must be at least " + fe.Param()
	case "max":
		return "Must be at most " + fe.Param()
	default:
		return "Invalid value"
	}
}

// snakeCase converts a Go field name like PaymentMethod to payment_method so
// error details match the JSON payload keys.
func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseBoolQuery parses an optional true/false query parameter.
func parseBoolQuery(c *gin.Context, name string) (*bool, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	switch v {
	case "true":
		b := true
		return &b, nil
	case "false":
		b := false
		return &b, nil
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, name+" must be 'true' or 'false'")
	}
}
