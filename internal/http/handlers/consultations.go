package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"farmaai/internal/domain"
	"farmaai/internal/i18n"
	"farmaai/internal/policy"
)

type createConsultationRequest struct {
	Symptoms string `json:"symptoms"`
}

type consultationResponse struct {
	Consultation consultationDTO         `json:"consultation"`
	Outcome      domain.DiagnosisOutcome `json:"outcome"`
	Quota        decisionDTO             `json:"quota"`
}

// Quota reports whether the user may start a consultation now.
func (a *App) Quota(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	decision, err := a.Consults.TryConsult(r.Context(), *user)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toDecisionDTO(decision))
}

func (a *App) CreateConsultation(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	var req createConsultationRequest
	if !a.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Symptoms) == "" {
		a.error(w, r, http.StatusBadRequest, i18n.KeyBadRequest, i18n.KeySymptomsRequired)
		return
	}
	res, err := a.Consults.Consult(r.Context(), *user, req.Symptoms)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, consultationResponse{
		Consultation: toConsultationDTO(res.Consultation),
		Outcome:      res.Outcome,
		Quota:        toDecisionDTO(res.Decision),
	})
}

func (a *App) ListConsultations(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	limits, err := policy.LimitsFor(user.Tier())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	items, err := a.Consults.History(r.Context(), user.ID, user.Tier())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]consultationDTO, 0, len(items))
	for _, c := range items {
		out = append(out, toConsultationDTO(c))
	}
	a.json(w, http.StatusOK, map[string]any{
		"items":         out,
		"tier":          user.Tier(),
		"history_limit": bounded(limits.HistoryLimit),
	})
}

// ListMessages returns the chat transcript of one consultation, oldest first.
func (a *App) ListMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if !validID(id) {
		a.fail(w, r, domain.ErrNotFound)
		return
	}
	if _, err := a.Consults.Get(r.Context(), user.ID, id); err != nil {
		a.fail(w, r, err)
		return
	}
	msgs, err := a.Transcripts.List(r.Context(), user.ID, id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]messageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageDTO(m))
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}
