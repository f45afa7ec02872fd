// Package consult gates consultations on the user's daily quota and records
// each diagnosis in the ledger.
package consult

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"farmaai/internal/domain"
	"farmaai/internal/policy"
)

// Mode selects how the gate and the append are coordinated.
type Mode string

const (
	// ModeAdvisory checks the quota and appends as two independent steps.
	// Concurrent requests for the same user may both pass the check.
	ModeAdvisory Mode = "advisory"
	// ModeStrict serializes gate and append per user and, when the ledger
	// supports it, appends through domain.GuardedAppender.
	ModeStrict Mode = "strict"
)

// ParseMode validates a quota mode name. Empty selects ModeAdvisory.
func ParseMode(v string) (Mode, error) {
	switch m := Mode(strings.TrimSpace(strings.ToLower(v))); m {
	case "":
		return ModeAdvisory, nil
	case ModeAdvisory, ModeStrict:
		return m, nil
	}
	return "", fmt.Errorf("unsupported quota mode %q", v)
}

// Diagnoser produces a diagnosis outcome for free-text symptoms.
type Diagnoser interface {
	Diagnose(ctx context.Context, symptoms string, tier domain.Tier) (*domain.DiagnosisOutcome, error)
}

// Options configures a Service.
type Options struct {
	Ledger    domain.ConsultationLedger
	Diagnoser Diagnoser
	Mode      Mode
	// Location defines the calendar day used for the daily quota.
	Location *time.Location
	Now      func() time.Time
	Logger   *zerolog.Logger
}

// Service implements the quota gate and consultation lifecycle.
type Service struct {
	ledger    domain.ConsultationLedger
	diagnoser Diagnoser
	mode      Mode
	loc       *time.Location
	now       func() time.Time
	logger    zerolog.Logger
	locks     *userLocks
}

// NewService validates options and builds a Service.
func NewService(opts Options) (*Service, error) {
	if opts.Ledger == nil {
		return nil, errors.New("consult: ledger is required")
	}
	if opts.Diagnoser == nil {
		return nil, errors.New("consult: diagnoser is required")
	}
	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}
	s := &Service{
		ledger:    opts.Ledger,
		diagnoser: opts.Diagnoser,
		mode:      mode,
		loc:       opts.Location,
		now:       opts.Now,
		logger:    zerolog.Nop(),
		locks:     newUserLocks(),
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.Logger != nil {
		s.logger = opts.Logger.With().Str("component", "consult").Logger()
	}
	return s, nil
}

// Mode reports the configured quota mode.
func (s *Service) Mode() Mode { return s.mode }

// DenyReason explains a denied decision.
type DenyReason string

const ReasonDailyQuotaExceeded DenyReason = "daily_quota_exceeded"

// Decision is the outcome of the quota gate.
type Decision struct {
	Allowed   bool        `json:"allowed"`
	Reason    DenyReason  `json:"reason,omitempty"`
	Tier      domain.Tier `json:"tier"`
	UsedToday int         `json:"used_today"`
	Quota     int         `json:"daily_quota"`
	Remaining int         `json:"remaining"`
}

// Err returns domain.ErrDailyQuotaExceeded for denied decisions.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return domain.ErrDailyQuotaExceeded
}

// DayStart returns local midnight of the current day.
func (s *Service) DayStart() time.Time {
	now := s.now().In(s.loc)
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

// TryConsult decides whether the user may start a new consultation now. The
// tier comes from the user value passed in, so callers must load the user
// fresh for every check.
func (s *Service) TryConsult(ctx context.Context, user domain.User) (Decision, error) {
	limits, err := policy.LimitsFor(user.Tier())
	if err != nil {
		return Decision{}, err
	}
	return s.decide(ctx, user.ID, limits)
}

func (s *Service) decide(ctx context.Context, userID string, limits policy.Limits) (Decision, error) {
	count, err := s.DailyCount(ctx, userID)
	if err != nil {
		return Decision{}, err
	}
	d := Decision{
		Allowed:   limits.Allows(count),
		Tier:      limits.Tier,
		UsedToday: count,
		Quota:     limits.DailyQuota,
		Remaining: limits.Remaining(count),
	}
	if !d.Allowed {
		d.Reason = ReasonDailyQuotaExceeded
	}
	return d, nil
}

// DailyCount returns how many consultations the user recorded today.
func (s *Service) DailyCount(ctx context.Context, userID string) (int, error) {
	n, err := s.ledger.CountSince(ctx, userID, s.DayStart())
	if err != nil {
		return 0, fmt.Errorf("count consultations: %w", err)
	}
	return n, nil
}

// History returns the consultations visible to the tier, newest first.
func (s *Service) History(ctx context.Context, userID string, tier domain.Tier) ([]domain.Consultation, error) {
	limits, err := policy.LimitsFor(tier)
	if err != nil {
		return nil, err
	}
	items, err := s.ledger.History(ctx, userID, limits.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return items, nil
}

// Get returns one of the user's consultations, or domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, userID, id string) (*domain.Consultation, error) {
	return s.ledger.Get(ctx, userID, id)
}

// RecordConsultation validates and appends a consultation built from a
// diagnosis outcome. It does not consult the quota gate.
func (s *Service) RecordConsultation(ctx context.Context, userID, symptoms string, outcome domain.DiagnosisOutcome) (string, error) {
	c, err := newRecord(userID, symptoms, outcome)
	if err != nil {
		return "", err
	}
	return s.ledger.Append(ctx, c)
}

func newRecord(userID, symptoms string, outcome domain.DiagnosisOutcome) (*domain.Consultation, error) {
	return domain.NewConsultation(userID, symptoms, outcome.Diagnosis, outcome.Severity, outcome.MedicationNames(), outcome.Recommendations)
}

// Result is a completed consultation together with the full diagnosis
// outcome and the quota state after recording it.
type Result struct {
	Consultation domain.Consultation     `json:"consultation"`
	Outcome      domain.DiagnosisOutcome `json:"outcome"`
	Decision     Decision                `json:"quota"`
}

// Consult runs the full lifecycle for one user action. Nothing is recorded
// unless the final append succeeds.
func (s *Service) Consult(ctx context.Context, user domain.User, symptoms string) (*Result, error) {
	symptoms = strings.TrimSpace(symptoms)
	if symptoms == "" {
		return nil, fmt.Errorf("%w: symptoms are required", domain.ErrInvalidInput)
	}
	limits, err := policy.LimitsFor(user.Tier())
	if err != nil {
		return nil, err
	}
	if s.mode == ModeStrict {
		unlock := s.locks.lock(user.ID)
		defer unlock()
	}

	decision, err := s.decide(ctx, user.ID, limits)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		s.logger.Debug().Str("user_id", user.ID).Int("used_today", decision.UsedToday).Msg("consultation denied")
		return nil, decision.Err()
	}

	outcome, err := s.diagnoser.Diagnose(ctx, symptoms, limits.Tier)
	if err != nil {
		return nil, fmt.Errorf("diagnose: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	record, err := newRecord(user.ID, symptoms, *outcome)
	if err != nil {
		return nil, err
	}

	var id string
	if guarded, ok := s.ledger.(domain.GuardedAppender); ok && s.mode == ModeStrict {
		id, err = guarded.AppendWithinQuota(ctx, record, s.DayStart(), limits.DailyQuota)
	} else {
		id, err = s.ledger.Append(ctx, record)
	}
	if err != nil {
		return nil, err
	}

	// The append has committed; from here on nothing may turn this into a
	// reported failure.
	saved, err := s.ledger.Get(ctx, user.ID, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Str("consultation_id", id).Msg("reload after append failed")
		saved = record
		saved.ID = id
		saved.CreatedAt = s.now()
	}
	used, err := s.DailyCount(ctx, user.ID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("recount after append failed")
		used = decision.UsedToday + 1
	}
	decision.UsedToday = used
	decision.Remaining = limits.Remaining(used)

	s.logger.Info().Str("user_id", user.ID).Str("consultation_id", id).Str("severity", string(saved.Severity)).Msg("consultation recorded")
	return &Result{Consultation: *saved, Outcome: *outcome, Decision: decision}, nil
}
