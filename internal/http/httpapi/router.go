package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"farmaai/internal/http/handlers"
	"farmaai/internal/middleware"
)

// Options configures the middleware chain.
type Options struct {
	JWTSecret       string
	CORSOrigins     []string
	RateLimitPerMin int
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	Logger          zerolog.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
		middleware.RateLimit(opts.RateLimitPerMin, time.Minute, http.HandlerFunc(app.TooManyRequests)),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		app.NotFound(w, req)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/plans", app.Plans)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", app.Signup)
			r.Post("/login", app.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(opts.JWTSecret, http.HandlerFunc(app.Unauthorized)))

			r.Get("/me", app.Me)
			r.Patch("/me", app.UpdateMe)
			r.Post("/premium/subscribe", app.Subscribe)

			r.Route("/consultations", func(r chi.Router) {
				r.Get("/quota", app.Quota)
				r.Post("/", app.CreateConsultation)
				r.Get("/", app.ListConsultations)
				r.Get("/{id}/messages", app.ListMessages)
			})

			r.Post("/chat", app.Chat)
			r.Post("/ocr", app.OCR)
		})
	})

	return r
}
