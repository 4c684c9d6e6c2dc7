package http

import (
	"net/http"

	"identity-console/internal/domain"
	"identity-console/internal/service"

	"github.com/gorilla/mux"
)

// AccessRequestHandler exposes the access-request workflow over REST.
type AccessRequestHandler struct {
	svc service.AccessRequestService
}

func NewAccessRequestHandler(svc service.AccessRequestService) *AccessRequestHandler {
	return &AccessRequestHandler{svc: svc}
}

func (h *AccessRequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in service.SubmitRequestInput
	if !decodeBody(w, r, &in) {
		return
	}
	req, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, req)
}

func (h *AccessRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.svc.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if reqs == nil {
		reqs = []domain.AccessRequest{}
	}
	respondJSON(w, http.StatusOK, reqs)
}

func (h *AccessRequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	req, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}

func (h *AccessRequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	req, err := h.svc.Approve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}

func (h *AccessRequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	req, err := h.svc.Reject(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}
