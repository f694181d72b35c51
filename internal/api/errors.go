package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexanderramin/tutorlog/internal/auth"
	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/labstack/echo/v4"
)

var (
	errMissingToken = echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed bearer token")
	errBadDate      = echo.NewHTTPError(http.StatusBadRequest, "dates must be YYYY-MM-DD")
)

// newHTTPErrorHandler maps store and auth errors onto status codes. Failures
// of the backing table surface as 502 since the request itself was fine.
func newHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code := http.StatusInternalServerError
		var message any = http.StatusText(http.StatusInternalServerError)

		var (
			httpErr  *echo.HTTPError
			valErr   *domain.ValidationError
			loadErr  *domain.LoadError
			writeErr *domain.WriteError
		)
		switch {
		case errors.As(err, &httpErr):
			code = httpErr.Code
			message = httpErr.Message
		case errors.As(err, &valErr):
			fields := make(map[string]string, len(valErr.Problems))
			for _, p := range valErr.Problems {
				fields[p.Field] = p.Message
			}
			code = http.StatusBadRequest
			message = echo.Map{"error": "invalid input", "fields": fields}
		case errors.Is(err, auth.ErrInvalidPasscode), errors.Is(err, auth.ErrInvalidToken):
			code = http.StatusUnauthorized
			message = err.Error()
		case errors.Is(err, auth.ErrForbidden):
			code = http.StatusForbidden
			message = err.Error()
		case errors.Is(err, domain.ErrNotFound):
			code = http.StatusNotFound
			message = err.Error()
		case errors.As(err, &loadErr), errors.As(err, &writeErr):
			code = http.StatusBadGateway
			message = err.Error()
			logger.ErrorContext(ctx.Request().Context(), "storage error", "error", err)
		default:
			logger.ErrorContext(ctx.Request().Context(), "unhandled error", "error", err)
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}
		if ctx.Response().Committed {
			return
		}
		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(code)
		} else {
			err = ctx.JSON(code, message)
		}
		if err != nil {
			logger.Error("writing error response", "error", err)
		}
	}
}
