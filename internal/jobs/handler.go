package jobs

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/JaimeStill/vantage/pkg/handlers"
	"github.com/JaimeStill/vantage/pkg/routes"
)

// Handler provides admin endpoints for triggering jobs on demand.
type Handler struct {
	runner *Runner
	logger *slog.Logger
}

// NewHandler creates a Handler over the given runner.
func NewHandler(runner *Runner, logger *slog.Logger) *Handler {
	return &Handler{
		runner: runner,
		logger: logger.With("handler", "jobs"),
	}
}

// GenerateBriefRequest optionally pins the week via a reference date
// (YYYY-MM-DD). Empty means today.
type GenerateBriefRequest struct {
	ReferenceDate string `json:"reference_date,omitempty"`
}

// Routes returns the route group definition for admin job endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/admin",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/collect-signals", Handler: h.CollectSignals},
			{Method: "POST", Pattern: "/generate-brief", Handler: h.GenerateBrief},
		},
	}
}

// CollectSignals triggers the signal collection job.
func (h *Handler) CollectSignals(w http.ResponseWriter, r *http.Request) {
	result, err := h.runner.CollectSignals(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// GenerateBrief triggers brief generation for the week ending on the
// requested reference date, defaulting to today.
func (h *Handler) GenerateBrief(w http.ResponseWriter, r *http.Request) {
	referenceDate := time.Now()

	if r.Body != nil && r.ContentLength != 0 {
		var req GenerateBriefRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}

		if req.ReferenceDate != "" {
			parsed, err := time.Parse("2006-01-02", req.ReferenceDate)
			if err != nil {
				handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
				return
			}
			referenceDate = parsed
		}
	}

	result, err := h.runner.GenerateBrief(r.Context(), referenceDate)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
