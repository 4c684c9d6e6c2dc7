package http

import (
	"net/http"

	"identity-console/internal/domain"
	"identity-console/internal/service"
)

// IdentityHandler exposes the identity store over REST.
type IdentityHandler struct {
	svc service.IdentityService
}

func NewIdentityHandler(svc service.IdentityService) *IdentityHandler {
	return &IdentityHandler{svc: svc}
}

func (h *IdentityHandler) List(w http.ResponseWriter, r *http.Request) {
	identities, err := h.svc.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if identities == nil {
		identities = []domain.Identity{}
	}
	respondJSON(w, http.StatusOK, identities)
}

func (h *IdentityHandler) Provision(w http.ResponseWriter, r *http.Request) {
	var in service.ProvisionInput
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Source == "" {
		in.Source = domain.IdentitySourceManual
	}
	identity, err := h.svc.Provision(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, identity)
}

func (h *IdentityHandler) ProvisionBulk(w http.ResponseWriter, r *http.Request) {
	var ins []service.ProvisionInput
	if !decodeBody(w, r, &ins) {
		return
	}
	result, err := h.svc.ProvisionBulk(r.Context(), ins)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
