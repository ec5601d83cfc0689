package middleware

import (
	"log/slog"
	"net/http"

	"github.com/psn-tools/psnemu/internal/api/apierr"
	"github.com/psn-tools/psnemu/internal/middleware"
)

// Recovery creates panic recovery middleware for the API.
// Returns the JSON 500 envelope on panic.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
