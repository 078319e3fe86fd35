package middleware

import (
	"errors"
	"net/http"

	"quiz-maker/internal/domain"
	"quiz-maker/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse lists every invalid field of a rejected form step.
type ValidationErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Status  int                 `json:"status"`
	Errors  []domain.FieldError `json:"errors"`
}

var domainStatus = map[domain.ErrorCode]int{
	domain.CodeMissingInput:         http.StatusBadRequest,
	domain.CodeValidation:           http.StatusBadRequest,
	domain.CodeUnauthorized:         http.StatusUnauthorized,
	domain.CodeForbidden:            http.StatusForbidden,
	domain.CodeNotFound:             http.StatusNotFound,
	domain.CodeInvalidState:         http.StatusConflict,
	domain.CodeStaleAnswer:          http.StatusConflict,
	domain.CodeConfirmationRequired: http.StatusConflict,
	domain.CodeMalformedResponse:    http.StatusBadGateway,
	domain.CodeExhaustedRetries:     http.StatusBadGateway,
	domain.CodeTransientFailure:     http.StatusServiceUnavailable,
}

// httpCodes names plain HTTP errors raised by Fiber itself or by RequireJSON.
var httpCodes = map[int]domain.ErrorCode{
	http.StatusBadRequest:            domain.CodeValidation,
	http.StatusUnauthorized:          domain.CodeUnauthorized,
	http.StatusForbidden:             domain.CodeForbidden,
	http.StatusNotFound:              domain.CodeNotFound,
	http.StatusMethodNotAllowed:      "METHOD_NOT_ALLOWED",
	http.StatusRequestEntityTooLarge: "PAYLOAD_TOO_LARGE",
	http.StatusUnsupportedMediaType:  "UNSUPPORTED_MEDIA_TYPE",
}

// ErrorHandler renders every error returned by a handler or middleware. Validation errors
// list their fields, domain errors carry their code and context, and anything else is an
// opaque 500.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			validationErrs domain.ValidationErrors
			domainErr      *domain.DomainError
			fiberErr       *fiber.Error
		)
		switch {
		case errors.As(err, &validationErrs):
			return renderValidation(c, validationErrs)
		case errors.As(err, &domainErr):
			return renderDomain(c, domainErr)
		case errors.As(err, &fiberErr):
			return renderHTTP(c, fiberErr)
		default:
			logger.Get().Error("Unhandled error", zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Code:    string(domain.CodeInternal),
				Message: "Internal server error",
				Status:  http.StatusInternalServerError,
			})
		}
	}
}

func renderValidation(c *fiber.Ctx, errs domain.ValidationErrors) error {
	logger.Get().Info("Request rejected by validation",
		zap.String("path", c.Path()),
		zap.Strings("fields", fieldNames(errs)),
	)
	return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
		Code:    string(validationCode(errs)),
		Message: "Request validation failed",
		Status:  http.StatusBadRequest,
		Errors:  errs,
	})
}

func renderDomain(c *fiber.Ctx, err *domain.DomainError) error {
	status := statusForCode(err.Code)
	fields := []zap.Field{
		zap.String("path", c.Path()),
		zap.String("code", string(err.Code)),
		zap.Int("status", status),
	}
	if err.Cause != nil {
		fields = append(fields, zap.Error(err.Cause))
	}
	if status >= http.StatusInternalServerError {
		logger.Get().Error(err.Message, fields...)
	} else {
		logger.Get().Info(err.Message, fields...)
	}

	resp := ErrorResponse{
		Code:    string(err.Code),
		Message: err.Message,
		Status:  status,
	}
	if len(err.Context) > 0 {
		resp.Details = err.Context
	}
	return c.Status(status).JSON(resp)
}

func renderHTTP(c *fiber.Ctx, err *fiber.Error) error {
	code, ok := httpCodes[err.Code]
	if !ok {
		code = "HTTP_ERROR"
	}
	logger.Get().Debug("HTTP error", zap.String("path", c.Path()), zap.Int("status", err.Code), zap.String("message", err.Message))
	return c.Status(err.Code).JSON(ErrorResponse{
		Code:    string(code),
		Message: err.Message,
		Status:  err.Code,
	})
}

// validationCode reports MISSING_INPUT only when every field error is a missing input.
func validationCode(errs domain.ValidationErrors) domain.ErrorCode {
	for _, fe := range errs {
		if fe.Code != domain.CodeMissingInput {
			return domain.CodeValidation
		}
	}
	return domain.CodeMissingInput
}

func statusForCode(code domain.ErrorCode) int {
	if status, ok := domainStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func fieldNames(errs domain.ValidationErrors) []string {
	names := make([]string, 0, len(errs))
	for _, fe := range errs {
		names = append(names, fe.Field)
	}
	return names
}
