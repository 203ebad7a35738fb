package audit

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

const defaultActivityLimit = 50

// Handler serves the recorded activity trail over HTTP.
type Handler struct {
	repo   *Repository
	logger *slog.Logger
}

func NewHandler(repo *Repository, logger *slog.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// HandleRecent lists the newest entries. Accepts an optional limit query
// parameter; bad values fall back to the default.
func (h *Handler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	entries, err := h.repo.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list activity", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, entries)
}

// HandleByEntity lists the trail of a single entity.
func (h *Handler) HandleByEntity(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	entityID := r.PathValue("entityId")
	if entity == "" || entityID == "" {
		h.writeError(w, http.StatusBadRequest, "missing entity or entity id")
		return
	}

	entries, err := h.repo.ByEntity(r.Context(), entity, entityID)
	if err != nil {
		h.logger.Error("failed to list entity activity", "error", err, "entity", entity, "entity_id", entityID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
