// Package apperrors carries coded errors for consistent API responses.
package apperrors

import (
	"errors"
	"fmt"
)

// Error codes organized by category
const (
	// General errors (1000-1099)
	CodeSuccess       = 0
	CodeUnknown       = 1000
	CodeInvalidParams = 1001
	CodeNotFound      = 1002

	// Caption validation (1100-1199)
	CodeEmptyText        = 1100
	CodeMissingTimes     = 1101
	CodeInvertedInterval = 1102
	CodeOutOfRange       = 1103
	CodeOverlap          = 1104
	CodeCaptionNotFound  = 1105

	// Session and export (1200-1299)
	CodeSessionNotFound = 1200
	CodeNoVideo         = 1201
	CodeNoCaptions      = 1202
	CodeUnsupportedFmt  = 1203
)

// AppError represents a structured application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code int, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithDetail wraps an error with additional detail
func WrapWithDetail(code int, message string, detail string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Detail:  detail,
		Cause:   cause,
	}
}

// Is checks if the target error is an AppError with the specified code
func Is(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts error code from error, returns CodeUnknown if not AppError
func GetCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetMessage extracts message from error
func GetMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// GetDetail extracts detail from error, empty when absent
func GetDetail(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Detail
	}
	return ""
}

var (
	ErrInvalidParams   = New(CodeInvalidParams, "Invalid parameters")
	ErrNotFound        = New(CodeNotFound, "Resource not found")
	ErrSessionNotFound = New(CodeSessionNotFound, "Session not found")
	ErrNoVideo         = New(CodeNoVideo, "Please load a video first")
	ErrNoCaptions      = New(CodeNoCaptions, "No captions to download")
)
