// Package i18n holds the user-facing API messages in Portuguese and English.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. They double as the error codes returned by the API.
const (
	KeyBadRequest         = "bad_request"
	KeyUnauthorized       = "unauthorized"
	KeyInvalidCredentials = "invalid_credentials"
	KeyNotFound           = "not_found"
	KeyQuotaExceeded      = "quota_exceeded"
	KeyFeatureLocked      = "feature_locked"
	KeyEmailTaken         = "email_taken"
	KeyPasswordTooShort   = "password_too_short"
	KeyPasswordTooLong    = "password_too_long"
	KeySymptomsRequired   = "symptoms_required"
	KeyRateLimited        = "rate_limited"
	KeyInternal           = "internal_error"
)

// Supported lists the locales with a full catalog; the first is the default.
var Supported = []language.Tag{language.Portuguese, language.English}

var entries = map[string][2]string{
	KeyBadRequest:         {"Requisição inválida.", "Invalid request."},
	KeyUnauthorized:       {"Faça login para continuar.", "Sign in to continue."},
	KeyInvalidCredentials: {"Verifique suas credenciais e tente novamente.", "Check your credentials and try again."},
	KeyNotFound:           {"Recurso não encontrado.", "Resource not found."},
	KeyQuotaExceeded:      {"Limite diário atingido. Assine o plano Premium para consultas ilimitadas.", "Daily limit reached. Subscribe to Premium for unlimited consultations."},
	KeyFeatureLocked:      {"OCR de receitas está disponível apenas no plano Premium.", "Prescription OCR is only available on the Premium plan."},
	KeyEmailTaken:         {"Este e-mail já está cadastrado.", "This email is already registered."},
	KeyPasswordTooShort:   {"A senha deve ter pelo menos %d caracteres.", "Password must be at least %d characters."},
	KeyPasswordTooLong:    {"A senha deve ter no máximo %d bytes.", "Password must be at most %d bytes."},
	KeySymptomsRequired:   {"Por favor, descreva seus sintomas.", "Please describe your symptoms."},
	KeyRateLimited:        {"Muitas requisições. Tente novamente em instantes.", "Too many requests. Try again shortly."},
	KeyInternal:           {"Erro interno. Tente novamente mais tarde.", "Internal error. Try again later."},
}

var cat = build()

func build() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.Portuguese))
	for key, msgs := range entries {
		_ = b.SetString(language.Portuguese, key, msgs[0])
		_ = b.SetString(language.English, key, msgs[1])
	}
	return b
}

var matcher = language.NewMatcher(Supported)

// Match picks the supported locale closest to the given tag strings. It
// returns "" when none of them is a usable match.
func Match(tags ...string) string {
	var parsed []language.Tag
	for _, t := range tags {
		if tag, err := language.Parse(t); err == nil {
			parsed = append(parsed, tag)
		}
	}
	if len(parsed) == 0 {
		return ""
	}
	_, idx, conf := matcher.Match(parsed...)
	if conf == language.No {
		return ""
	}
	return baseOf(Supported[idx])
}

// MatchAcceptLanguage parses an Accept-Language header and matches it.
func MatchAcceptLanguage(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return ""
	}
	return baseOf(Supported[idx])
}

// Text renders key in locale. Unknown locales use Portuguese and unknown keys
// are returned as-is.
func Text(locale, key string, args ...any) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Portuguese
	}
	p := message.NewPrinter(tag, message.Catalog(cat))
	return p.Sprintf(key, args...)
}

func baseOf(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}
