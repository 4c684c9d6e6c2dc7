package http

import (
	"net/http"

	"identity-console/internal/domain"
	"identity-console/internal/service"

	"github.com/gorilla/mux"
)

// GroupHandler exposes group membership management over REST.
type GroupHandler struct {
	svc service.GroupService
}

func NewGroupHandler(svc service.GroupService) *GroupHandler {
	return &GroupHandler{svc: svc}
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type memberRequest struct {
	Email string `json:"email"`
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in createGroupRequest
	if !decodeBody(w, r, &in) {
		return
	}
	group, err := h.svc.Create(r.Context(), in.Name, in.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if groups == nil {
		groups = []domain.Group{}
	}
	respondJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	group, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var in memberRequest
	if !decodeBody(w, r, &in) {
		return
	}
	group, err := h.svc.AddMember(r.Context(), mux.Vars(r)["id"], in.Email)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	group, err := h.svc.RemoveMember(r.Context(), vars["id"], vars["email"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}
