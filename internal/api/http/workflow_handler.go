package http

import (
	"errors"
	"net/http"

	"identity-console/internal/domain"
	"identity-console/internal/service"
)

// WorkflowHandler triggers outbound workflow-endpoint operations.
type WorkflowHandler struct {
	svc service.WorkflowService
}

func NewWorkflowHandler(svc service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{svc: svc}
}

func (h *WorkflowHandler) Test(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Test(r.Context()); err != nil {
		respondWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *WorkflowHandler) Pull(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Pull(r.Context())
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// respondWorkflowError keeps the usual mapping for local failures such as a
// missing workflow URL; only errors from the remote endpoint become a 502.
func respondWorkflowError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNotFound) {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
}
