package handlers

import (
	"net/http"

	"farmaai/internal/policy"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Plans lists the limits of every tier.
func (a *App) Plans(w http.ResponseWriter, r *http.Request) {
	tiers := policy.Tiers()
	out := make([]limitsDTO, 0, len(tiers))
	for _, l := range tiers {
		out = append(out, toLimitsDTO(l))
	}
	a.json(w, http.StatusOK, map[string]any{"plans": out})
}
