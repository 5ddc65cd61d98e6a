package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Error codes for the failure taxonomy. Side-effect failures
// (PERSISTENCE_WRITE_FAILED) are swallowed at their own boundary and only
// logged; the codes surfacing here are the primary-operation ones.
const (
	CodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	CodeMalformedResponse = "MALFORMED_RESPONSE"
	CodeNoRecordsToExport = "NO_RECORDS_TO_EXPORT"
	CodeEmailSendFailed   = "EMAIL_SEND_FAILED"
	CodePersistenceFailed = "PERSISTENCE_WRITE_FAILED"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeQuotaExceeded     = "QUOTA_EXCEEDED"
	CodeInternal          = "INTERNAL"
)

// AppError is a user-presentable failure with a stable code. The message
// must always be readable: a failed primary operation never turns into a
// silent no-op.
type AppError struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code string, status int, message string, err error) *AppError {
	return &AppError{Code: code, Status: status, Message: message, Err: err}
}

// ErrorHandlerMiddleware converts AppErrors (and stray errors) into the
// standard envelope so controllers can just `return err`.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *AppError
		if errors.As(err, &appErr) {
			return ctx.Status(appErr.Status).JSON(ErrorResponse(appErr.Code, appErr.Message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(CodeInternal, fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(CodeInternal, err.Error()))
	}
}
