package handlers

import (
	"net/http"

	"farmaai/internal/domain"
	"farmaai/internal/policy"
)

type ocrRequest struct {
	Image string `json:"image"`
}

// OCR reads a medication name from a prescription image. Premium only.
func (a *App) OCR(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	limits, err := policy.LimitsFor(user.Tier())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if !limits.OCREnabled {
		a.fail(w, r, domain.ErrFeatureLocked)
		return
	}
	var req ocrRequest
	if !a.decode(w, r, &req) {
		return
	}
	name, err := a.Scanner.ExtractMedication(r.Context(), req.Image)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"medication": name})
}
