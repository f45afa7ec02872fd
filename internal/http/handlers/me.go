package handlers

import (
	"net/http"

	"farmaai/internal/domain"
	"farmaai/internal/policy"
)

type profileResponse struct {
	User   userDTO     `json:"user"`
	Limits limitsDTO   `json:"limits"`
	Quota  decisionDTO `json:"quota"`
}

type updateMeRequest struct {
	Name string `json:"name"`
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	a.profile(w, r, user)
}

func (a *App) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	var req updateMeRequest
	if !a.decode(w, r, &req) {
		return
	}
	updated, err := a.Identity.UpdateName(r.Context(), user.ID, req.Name)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.profile(w, r, updated)
}

// Subscribe activates premium. There is no payment step.
func (a *App) Subscribe(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	updated, err := a.Identity.Subscribe(r.Context(), user.ID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.profile(w, r, updated)
}

func (a *App) profile(w http.ResponseWriter, r *http.Request, user *domain.User) {
	limits, err := policy.LimitsFor(user.Tier())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	decision, err := a.Consults.TryConsult(r.Context(), *user)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, profileResponse{User: toUserDTO(user), Limits: toLimitsDTO(limits), Quota: toDecisionDTO(decision)})
}
