package http

import (
	"net/http"

	"identity-console/internal/domain"
	"identity-console/internal/service"
)

// SettingsHandler exposes the workflow URL and directory configuration.
type SettingsHandler struct {
	svc service.SettingsService
}

func NewSettingsHandler(svc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

type workflowURLPayload struct {
	URL string `json:"url"`
}

func (h *SettingsHandler) GetWorkflowURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.WorkflowURL(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, workflowURLPayload{URL: url})
}

func (h *SettingsHandler) PutWorkflowURL(w http.ResponseWriter, r *http.Request) {
	var in workflowURLPayload
	if !decodeBody(w, r, &in) {
		return
	}
	if err := h.svc.SaveWorkflowURL(r.Context(), in.URL); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, workflowURLPayload{URL: in.URL})
}

func (h *SettingsHandler) GetDirectory(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.DirectorySettings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	// The bind password never leaves the store.
	settings.BindPassword = ""
	respondJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) PutDirectory(w http.ResponseWriter, r *http.Request) {
	var in domain.DirectorySettings
	if !decodeBody(w, r, &in) {
		return
	}
	if err := h.svc.SaveDirectorySettings(r.Context(), &in); err != nil {
		respondError(w, err)
		return
	}
	in.BindPassword = ""
	respondJSON(w, http.StatusOK, &in)
}
