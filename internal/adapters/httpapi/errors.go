package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Overland-East-Bay/itinerary-planner/internal/app/planner"
	"github.com/Overland-East-Bay/itinerary-planner/internal/wire"
)

const msgInternal = "Internal server error"

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError renders {success:false, error, details?}. The error text is shown
// to users by the client as-is.
func writeError(w http.ResponseWriter, status int, message, details string) {
	env := wire.Fail(message)
	if details != "" {
		env = wire.FailWithDetails(message, details)
	}
	writeJSON(w, status, env)
}

// fail maps use-case errors to responses. Unclassified errors are logged and
// reported as a generic 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var pe *planner.Error
	if errors.As(err, &pe) {
		writeError(w, pe.Status, pe.Message, pe.Details)
		return
	}
	s.log.Error("request failed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	writeError(w, http.StatusInternalServerError, msgInternal, "")
}
