package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"farmaai/internal/adapter/memory"
	"farmaai/internal/adapter/repo"
	"farmaai/internal/adapter/sqlite"
	"farmaai/internal/consult"
	"farmaai/internal/domain"
	"farmaai/internal/http/handlers"
	httpapi "farmaai/internal/http/httpapi"
	"farmaai/internal/identity"
	"farmaai/internal/infra"
	"farmaai/internal/infra/credentials"
	"farmaai/internal/infra/geoip"
	"farmaai/internal/middleware"
	"farmaai/internal/providers/assistant"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("api stopped with error")
	}
	logger.Info().Msg("server stopped")
}

type stores struct {
	users       domain.UserRepository
	ledger      domain.ConsultationLedger
	chat        domain.ChatRepository
	credentials *credentials.Store
	close       func()
}

func openStores(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case infra.StoreDriverPostgres:
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		runner := infra.NewSQLRunner(pool, logger.With().Str("component", "sql").Logger())
		return &stores{
			users:       repo.NewUserRepository(runner),
			ledger:      repo.NewConsultationRepository(runner),
			chat:        repo.NewChatRepository(runner),
			credentials: credentials.NewStore(runner),
			close:       pool.Close,
		}, nil
	case infra.StoreDriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:  sqlite.NewUserStore(db),
			ledger: sqlite.NewLedger(db, nil),
			chat:   sqlite.NewChatStore(db, nil),
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil
	default:
		logger.Warn().Msg("memory store selected: data is lost on restart")
		return &stores{
			users:  memory.NewUserStore(nil),
			ledger: memory.NewLedger(nil),
			chat:   memory.NewChatStore(nil),
			close:  func() {},
		}, nil
	}
}

// chatResponder serves basic depth from templates and advanced depth from
// OpenAI when a key is configured in the environment or the database.
func chatResponder(ctx context.Context, cfg *infra.Config, st *stores, logger zerolog.Logger) assistant.Responder {
	static := assistant.NewStaticResponder()
	key, model := cfg.OpenAIAPIKey, cfg.OpenAIModel
	if key == "" && st.credentials != nil {
		stored, err := st.credentials.OpenAI(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("load openai key from integration_tokens")
		}
		key = stored.Token
		// a model saved with the key wins over the default
		if stored.Model != "" {
			model = stored.Model
		}
	}
	if key == "" {
		logger.Info().Msg("openai key not configured, advanced chat uses templates")
		return assistant.DepthRouter{Basic: static}
	}

	log := logger.With().Str("provider", "openai").Logger()
	openAI, err := assistant.NewOpenAIResponder(assistant.OpenAIOptions{
		APIKey:       key,
		Model:        model,
		BaseURL:      cfg.OpenAIBaseURL,
		Organization: cfg.OpenAIOrg,
		Fallback:     static,
		OnFallback: func(err error) {
			log.Warn().Err(err).Msg("openai reply failed, using template")
		},
	})
	if err != nil {
		logger.Warn().Err(err).Msg("openai responder disabled")
		return assistant.DepthRouter{Basic: static}
	}
	log.Info().Str("model", openAI.Model()).Msg("openai responder enabled")
	return assistant.DepthRouter{Basic: static, Advanced: openAI}
}

func run(cfg *infra.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer st.close()

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		defer resolver.Close()
		lookup = resolver.CountryCode
	}

	mode, err := consult.ParseMode(cfg.QuotaMode)
	if err != nil {
		return err
	}
	consults, err := consult.NewService(consult.Options{
		Ledger:    st.ledger,
		Diagnoser: assistant.NewStaticDiagnoser(),
		Mode:      mode,
		Location:  cfg.Timezone,
		Logger:    &logger,
	})
	if err != nil {
		return err
	}

	issue := func(userID string, now time.Time) (string, error) {
		return middleware.SignToken(cfg.JWTSecret, userID, cfg.TokenTTL, now)
	}
	app := &handlers.App{
		Users:       st.users,
		Identity:    identity.NewService(st.users, issue, 0, logger.With().Str("component", "identity").Logger()),
		Consults:    consults,
		Transcripts: st.chat,
		Responder:   chatResponder(ctx, cfg, st, logger),
		Scanner:     assistant.NewStaticOCR(),
		Logger:      logger,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:       cfg.JWTSecret,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   lookup,
		Logger:          logger,
	})

	server := infra.NewHTTPServer(cfg, router)
	logger.Info().
		Str("addr", server.Addr()).
		Str("store", cfg.StoreDriver).
		Str("quota_mode", string(consults.Mode())).
		Str("timezone", cfg.Timezone.String()).
		Msg("API listening")
	return server.Run(ctx, cfg.HTTPIdleTimeout)
}
