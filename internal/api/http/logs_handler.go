package http

import (
	"net/http"
	"strconv"

	"identity-console/internal/domain"
	"identity-console/internal/service"
)

// LogsHandler exposes the audit trail.
type LogsHandler struct {
	svc service.AuditService
}

func NewLogsHandler(svc service.AuditService) *LogsHandler {
	return &LogsHandler{svc: svc}
}

func (h *LogsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}
	entries, err := h.svc.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}
