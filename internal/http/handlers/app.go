package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"farmaai/internal/consult"
	"farmaai/internal/domain"
	"farmaai/internal/i18n"
	"farmaai/internal/identity"
	"farmaai/internal/middleware"
	"farmaai/internal/providers/assistant"
)

// maxBodyBytes leaves room for a base64 prescription image.
const maxBodyBytes = 8 << 20

type App struct {
	Users       domain.UserRepository
	Identity    *identity.Service
	Consults    *consult.Service
	Transcripts domain.ChatRepository
	Responder   assistant.Responder
	Scanner     assistant.OCR
	Logger      zerolog.Logger
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error writes the standard error envelope. The message is key rendered in
// the request locale.
func (a *App) error(w http.ResponseWriter, r *http.Request, status int, code, key string, args ...any) {
	locale := middleware.LocaleFromContext(r.Context())
	a.json(w, status, errorBody{Error: errorDetail{Code: code, Message: i18n.Text(locale, key, args...)}})
}

// fail maps a service error onto an HTTP response.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrDailyQuotaExceeded):
		a.error(w, r, http.StatusForbidden, i18n.KeyQuotaExceeded, i18n.KeyQuotaExceeded)
	case errors.Is(err, domain.ErrFeatureLocked):
		a.error(w, r, http.StatusForbidden, i18n.KeyFeatureLocked, i18n.KeyFeatureLocked)
	case errors.Is(err, identity.ErrPasswordTooShort):
		a.error(w, r, http.StatusBadRequest, i18n.KeyBadRequest, i18n.KeyPasswordTooShort, identity.MinPasswordLength)
	case errors.Is(err, identity.ErrPasswordTooLong):
		a.error(w, r, http.StatusBadRequest, i18n.KeyBadRequest, i18n.KeyPasswordTooLong, identity.MaxPasswordBytes)
	case errors.Is(err, domain.ErrInvalidInput):
		a.error(w, r, http.StatusBadRequest, i18n.KeyBadRequest, i18n.KeyBadRequest)
	case errors.Is(err, domain.ErrEmailTaken):
		a.error(w, r, http.StatusConflict, i18n.KeyEmailTaken, i18n.KeyEmailTaken)
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, r, http.StatusNotFound, i18n.KeyNotFound, i18n.KeyNotFound)
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, r, http.StatusUnauthorized, i18n.KeyUnauthorized, i18n.KeyUnauthorized)
	default:
		a.Logger.Error().Err(err).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
		a.error(w, r, http.StatusInternalServerError, i18n.KeyInternal, i18n.KeyInternal)
	}
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		a.error(w, r, http.StatusBadRequest, i18n.KeyBadRequest, i18n.KeyBadRequest)
		return false
	}
	return true
}

// currentUser loads the authenticated user from the store on every call so
// tier changes apply to the very next request.
func (a *App) currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	id := middleware.UserIDFromContext(r.Context())
	if id == "" {
		a.Unauthorized(w, r)
		return nil, false
	}
	user, err := a.Users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.Unauthorized(w, r)
			return nil, false
		}
		a.fail(w, r, err)
		return nil, false
	}
	return user, true
}

// Unauthorized is the response for missing or rejected credentials.
func (a *App) Unauthorized(w http.ResponseWriter, r *http.Request) {
	a.error(w, r, http.StatusUnauthorized, i18n.KeyUnauthorized, i18n.KeyUnauthorized)
}

// TooManyRequests is the response for rate-limited clients.
func (a *App) TooManyRequests(w http.ResponseWriter, r *http.Request) {
	a.error(w, r, http.StatusTooManyRequests, i18n.KeyRateLimited, i18n.KeyRateLimited)
}

func (a *App) NotFound(w http.ResponseWriter, r *http.Request) {
	a.error(w, r, http.StatusNotFound, i18n.KeyNotFound, i18n.KeyNotFound)
}

// validID reports whether id looks like a record id. Malformed ids are
// answered as not found without reaching the store.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
