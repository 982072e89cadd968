package suggestions

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/sajilokaam/docpipe/pkg/handlers"
	"github.com/sajilokaam/docpipe/pkg/routes"
)

// Handler provides HTTP endpoints for listing and resolving suggestions.
// Routes are nested under the run they belong to.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "suggestions"),
	}
}

// Routes returns the route group definition for suggestion endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/runs",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}/suggestions", Handler: h.ListByRun},
			{Method: "POST", Pattern: "/{id}/suggestions/approve", Handler: h.Approve},
			{Method: "POST", Pattern: "/{id}/suggestions/reject", Handler: h.Reject},
		},
	}
}

// ListByRun returns a run's suggestions ordered by confidence descending.
func (h *Handler) ListByRun(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	suggestions, err := h.sys.ListByRun(r.Context(), runID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, suggestions)
}

// Approve resolves the posted suggestion ids as APPROVED and returns the
// tasks created from them.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	runID, cmd, ok := h.decodeResolve(w, r)
	if !ok {
		return
	}

	created, err := h.sys.Approve(r.Context(), runID, cmd.SuggestionIDs)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, created)
}

// Reject resolves the posted suggestion ids as REJECTED.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	runID, cmd, ok := h.decodeResolve(w, r)
	if !ok {
		return
	}

	if err := h.sys.Reject(r.Context(), runID, cmd.SuggestionIDs); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeResolve(w http.ResponseWriter, r *http.Request) (uuid.UUID, ResolveCommand, bool) {
	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return uuid.Nil, ResolveCommand{}, false
	}

	var cmd ResolveCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return uuid.Nil, ResolveCommand{}, false
	}

	if len(cmd.SuggestionIDs) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return uuid.Nil, ResolveCommand{}, false
	}

	return runID, cmd, true
}
