package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/tetrisparty/internal/api/apierr"
	"github.com/mcoot/tetrisparty/internal/middleware"
)

// Recovery creates panic recovery middleware for the API
// Returns JSON error responses on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

// Logging logs every API request
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}

// RequestID tags every request with an X-Request-Id
func RequestID(next http.Handler) http.Handler {
	return middleware.RequestID(next)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
