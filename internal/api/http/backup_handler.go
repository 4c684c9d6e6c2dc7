package http

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"identity-console/internal/service"
)

// maxImportSize bounds uploaded backup files.
const maxImportSize = 32 << 20

// BackupHandler exposes backup export and restore.
type BackupHandler struct {
	svc service.BackupService
}

func NewBackupHandler(svc service.BackupService) *BackupHandler {
	return &BackupHandler{svc: svc}
}

func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	data, err := h.svc.Export(r.Context(), format)
	if err != nil {
		respondError(w, err)
		return
	}

	contentType := "application/json"
	if format == "xml" {
		contentType = "application/xml"
	}
	filename := fmt.Sprintf("identity-console-backup-%s.%s", time.Now().UTC().Format("2006-01-02T15-04-05"), format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read upload: " + err.Error()})
		return
	}
	if err := h.svc.Import(r.Context(), data); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}
