package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdffusion/logging"
	"pdffusion/pdf"
)

// ErrorCode is a machine-readable error category
type ErrorCode string

const (
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeValidation       ErrorCode = "VALIDATION_ERROR"
	CodeNoPagesSelected  ErrorCode = "NO_PAGES_SELECTED"
	CodeUnprocessable    ErrorCode = "UNPROCESSABLE"
	CodeTooLarge         ErrorCode = "PAYLOAD_TOO_LARGE"
	CodeRateLimited      ErrorCode = "RATE_LIMITED"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeInvalidSignature ErrorCode = "INVALID_SIGNATURE"
	CodeTimeout          ErrorCode = "TIMEOUT"
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// AppError is an error with the HTTP response it maps to
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return string(e.Code) + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the JSON body of every error
type ErrorResponse struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func newAppError(code ErrorCode, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

func badRequest(message string) *AppError {
	return newAppError(CodeBadRequest, http.StatusBadRequest, message)
}

func internalError(message string, err error) *AppError {
	e := newAppError(CodeInternal, http.StatusInternalServerError, message)
	e.Err = err
	return e
}

// toAppError maps operation errors onto responses
func toAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var noPages *pdf.NoPagesSelectedError
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &noPages):
		e := newAppError(CodeNoPagesSelected, http.StatusUnprocessableEntity, noPages.Error())
		e.Details = map[string]any{"total_pages": noPages.TotalPages}
		return e
	case errors.Is(err, pdf.ErrEmptySpecifier),
		errors.Is(err, pdf.ErrInvalidSpecifier),
		errors.Is(err, pdf.ErrInvalidRotation),
		errors.Is(err, pdf.ErrTooFewInputs),
		errors.Is(err, pdf.ErrRemoveAllPages):
		return newAppError(CodeValidation, http.StatusBadRequest, err.Error())
	case errors.Is(err, pdf.ErrNoWatermarks):
		return newAppError(CodeUnprocessable, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &maxBytes):
		return newAppError(CodeTooLarge, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
	case errors.Is(err, context.DeadlineExceeded):
		return newAppError(CodeTimeout, http.StatusGatewayTimeout, "PDF operation timed out")
	}

	// Truncate long error messages but include key info
	message := "PDF operation failed"
	if errStr := err.Error(); errStr != "" {
		if len(errStr) > MaxErrorDetailLength {
			message = errStr[:MaxErrorDetailLength] + "..."
		} else {
			message = errStr
		}
	}
	return internalError(message, err)
}

// respondError logs err with the request logger and writes the error body
func respondError(c *gin.Context, err error) {
	appErr := toAppError(err)

	logger := logging.FromContext(c.Request.Context())
	fields := []logging.Field{
		logging.F("code", string(appErr.Code)),
		logging.F("status", appErr.HTTPStatus),
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.WithError(err).Error("request failed", fields...)
	} else {
		logger.Debug("request rejected", append(fields, logging.F("message", appErr.Message))...)
	}

	c.AbortWithStatusJSON(appErr.HTTPStatus, ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	})
}
