package handler

import (
	"errors"
	"log/slog"
	"net/http"

	autherror "github.com/aryamansrivastava/account-service/internal/errors"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error returned by a handler or middleware as
// {success, error, message, details?}. Internals are logged, never sent.
func ErrorHandler(c *fiber.Ctx, err error) error {
	appErr, ok := autherror.As(err)
	if !ok {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			appErr = fromFiberError(fiberErr)
		} else {
			appErr = autherror.NewInternal(err)
		}
	}

	if appErr.Code >= http.StatusInternalServerError {
		cause := appErr.Message
		if appErr.Internal != nil {
			cause = appErr.Internal.Error()
		}
		slog.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("type", appErr.Type),
			slog.String("error", cause),
		)
	}

	body := fiber.Map{
		"success": false,
		"error":   appErr.Type,
		"message": appErr.Message,
	}
	if appErr.Details != nil {
		body["details"] = appErr.Details
	}
	if retry, ok := appErr.Details.(autherror.RetryDetails); ok {
		body["retryAfterSeconds"] = retry.RetryAfterSeconds
	}

	return c.Status(appErr.Code).JSON(body)
}

func fromFiberError(err *fiber.Error) *autherror.AppError {
	switch {
	case err.Code == http.StatusNotFound:
		return autherror.NewNotFound(err.Message)
	case err.Code < http.StatusInternalServerError:
		appErr := autherror.NewBadRequest(err.Message)
		appErr.Code = err.Code
		return appErr
	}
	return autherror.NewInternal(err)
}
