package errors

import (
	"errors"
	"fmt"
)

// ErrorCode is the machine readable class of an AppError
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeAccessDenied ErrorCode = "ACCESS_DENIED"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeDBError      ErrorCode = "DB_ERROR"
	ErrCodeUpload       ErrorCode = "UPLOAD_ERROR"
)

// AppError is the error type services hand back to controllers
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewNotFound(entity, id string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s %s not found", entity, id), ErrRecordNotFound)
}

func NewValidation(format string, args ...interface{}) *AppError {
	return NewAppError(ErrCodeValidation, fmt.Sprintf(format, args...), nil)
}

func NewAccessDenied(message string) *AppError {
	return NewAppError(ErrCodeAccessDenied, message, ErrForbidden)
}

func NewDBError(message string, err error) *AppError {
	return NewAppError(ErrCodeDBError, message, err)
}

// IsAppError reports whether err is, or wraps, an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError returns the AppError in err's chain, or nil
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func hasCode(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound) || errors.Is(err, ErrRecordNotFound)
}

func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

func IsAccessDenied(err error) bool {
	return hasCode(err, ErrCodeAccessDenied)
}

// Is and As re-export the standard helpers so callers need one import
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

var (
	// Persistence
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")

	// Auth
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Booking
	ErrIllegalTransition = errors.New("illegal booking transition")
	ErrRoomNotAvailable  = errors.New("room not available")
	ErrNoRefundOwed      = errors.New("no refund owed")
	ErrNoExtraPay        = errors.New("no outstanding extra pay")

	// Validation
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")
	ErrInvalidFormat   = errors.New("invalid format")
)
