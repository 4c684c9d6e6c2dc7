package http

import (
	"net/http"

	"identity-console/internal/service"

	"github.com/gorilla/mux"
)

// Services bundles everything the REST surface needs.
type Services struct {
	Requests   service.AccessRequestService
	Identities service.IdentityService
	Groups     service.GroupService
	Settings   service.SettingsService
	Workflow   service.WorkflowService
	Backup     service.BackupService
	Audit      service.AuditService
}

// NewRouter wires every console endpoint onto a mux router.
func NewRouter(svcs Services) *mux.Router {
	router := mux.NewRouter()

	requests := NewAccessRequestHandler(svcs.Requests)
	identities := NewIdentityHandler(svcs.Identities)
	groups := NewGroupHandler(svcs.Groups)
	settings := NewSettingsHandler(svcs.Settings)
	workflow := NewWorkflowHandler(svcs.Workflow)
	backup := NewBackupHandler(svcs.Backup)
	logs := NewLogsHandler(svcs.Audit)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/requests", requests.Submit).Methods(http.MethodPost)
	api.HandleFunc("/requests", requests.List).Methods(http.MethodGet)
	api.HandleFunc("/requests/{id}", requests.Get).Methods(http.MethodGet)
	api.HandleFunc("/requests/{id}/approve", requests.Approve).Methods(http.MethodPost)
	api.HandleFunc("/requests/{id}/reject", requests.Reject).Methods(http.MethodPost)

	api.HandleFunc("/identities", identities.List).Methods(http.MethodGet)
	api.HandleFunc("/identities", identities.Provision).Methods(http.MethodPost)
	api.HandleFunc("/identities/bulk", identities.ProvisionBulk).Methods(http.MethodPost)

	api.HandleFunc("/groups", groups.Create).Methods(http.MethodPost)
	api.HandleFunc("/groups", groups.List).Methods(http.MethodGet)
	api.HandleFunc("/groups/{id}", groups.Get).Methods(http.MethodGet)
	api.HandleFunc("/groups/{id}", groups.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/groups/{id}/members", groups.AddMember).Methods(http.MethodPost)
	api.HandleFunc("/groups/{id}/members/{email}", groups.RemoveMember).Methods(http.MethodDelete)

	api.HandleFunc("/logs", logs.Recent).Methods(http.MethodGet)

	api.HandleFunc("/settings/workflow-url", settings.GetWorkflowURL).Methods(http.MethodGet)
	api.HandleFunc("/settings/workflow-url", settings.PutWorkflowURL).Methods(http.MethodPut)
	api.HandleFunc("/settings/directory", settings.GetDirectory).Methods(http.MethodGet)
	api.HandleFunc("/settings/directory", settings.PutDirectory).Methods(http.MethodPut)

	api.HandleFunc("/workflow/test", workflow.Test).Methods(http.MethodPost)
	api.HandleFunc("/workflow/pull", workflow.Pull).Methods(http.MethodPost)

	api.HandleFunc("/backup/export", backup.Export).Methods(http.MethodGet)
	api.HandleFunc("/backup/import", backup.Import).Methods(http.MethodPost)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return router
}
