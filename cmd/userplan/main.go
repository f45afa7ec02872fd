package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"farmaai/internal/adapter/repo"
	"farmaai/internal/domain"
	"farmaai/internal/infra"
	"farmaai/internal/policy"
)

func main() {
	_ = godotenv.Load()

	var (
		idFlag    string
		emailFlag string
		tierFlag  string
	)

	flag.StringVar(&idFlag, "id", "", "user ID to update (UUID)")
	flag.StringVar(&emailFlag, "email", "", "user email to update")
	flag.StringVar(&tierFlag, "tier", string(domain.TierPremium), "tier to assign (free, premium)")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	email := strings.TrimSpace(emailFlag)

	if userID == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}
	tier, err := policy.ParseTier(tierFlag)
	if err != nil {
		exitWithError(err)
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "userplan").Logger()
	users := repo.NewUserRepository(infra.NewSQLRunner(pool, logger))

	premium := tier == domain.TierPremium
	var user *domain.User
	if userID != "" {
		user, err = users.SetPremium(ctx, userID, premium)
	} else {
		user, err = users.SetPremiumByEmail(ctx, email, premium)
	}
	if err != nil {
		exitWithError(fmt.Errorf("failed to update user tier: %w", err))
	}

	limits, err := policy.LimitsFor(user.Tier())
	if err != nil {
		exitWithError(err)
	}

	fmt.Printf("User %s (%s) updated to tier %s\n", user.ID, user.Email, user.Tier())
	fmt.Printf("daily_quota=%s\n", formatLimit(limits.DailyQuota))
	fmt.Printf("history_limit=%s\n", formatLimit(limits.HistoryLimit))
}

func formatLimit(n int) string {
	if n == policy.Unbounded {
		return "unbounded"
	}
	return fmt.Sprint(n)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
