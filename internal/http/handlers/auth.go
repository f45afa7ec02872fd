package handlers

import (
	"errors"
	"net/http"

	"farmaai/internal/domain"
	"farmaai/internal/i18n"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

func (a *App) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !a.decode(w, r, &req) {
		return
	}
	sess, err := a.Identity.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, sessionResponse{Token: sess.Token, User: toUserDTO(sess.User)})
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !a.decode(w, r, &req) {
		return
	}
	sess, err := a.Identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			a.error(w, r, http.StatusUnauthorized, i18n.KeyInvalidCredentials, i18n.KeyInvalidCredentials)
			return
		}
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, sessionResponse{Token: sess.Token, User: toUserDTO(sess.User)})
}
