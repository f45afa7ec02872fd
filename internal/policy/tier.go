// Package policy maps subscription tiers to the limits they grant.
package policy

import (
	"fmt"
	"strings"

	"farmaai/internal/domain"
)

// Unbounded marks a limit with no cap.
const Unbounded = -1

const (
	FreeDailyQuota   = 3
	FreeHistoryLimit = 5
)

// ChatDepth enumerates assistant response depths.
type ChatDepth string

const (
	ChatDepthBasic    ChatDepth = "basic"
	ChatDepthAdvanced ChatDepth = "advanced"
)

// Limits describes what a tier may do.
type Limits struct {
	Tier         domain.Tier `json:"tier"`
	DailyQuota   int         `json:"daily_quota"`
	HistoryLimit int         `json:"history_limit"`
	ChatDepth    ChatDepth   `json:"chat_depth"`
	OCREnabled   bool        `json:"ocr_enabled"`
}

// LimitsFor returns the limits of a tier. Unknown tiers fail closed with
// domain.ErrInvalidTier instead of falling back to free.
func LimitsFor(tier domain.Tier) (Limits, error) {
	switch tier {
	case domain.TierFree:
		return Limits{
			Tier:         domain.TierFree,
			DailyQuota:   FreeDailyQuota,
			HistoryLimit: FreeHistoryLimit,
			ChatDepth:    ChatDepthBasic,
			OCREnabled:   false,
		}, nil
	case domain.TierPremium:
		return Limits{
			Tier:         domain.TierPremium,
			DailyQuota:   Unbounded,
			HistoryLimit: Unbounded,
			ChatDepth:    ChatDepthAdvanced,
			OCREnabled:   true,
		}, nil
	}
	return Limits{}, fmt.Errorf("%w: %q", domain.ErrInvalidTier, tier)
}

// ParseTier validates a tier name.
func ParseTier(v string) (domain.Tier, error) {
	tier := domain.Tier(strings.TrimSpace(strings.ToLower(v)))
	if _, err := LimitsFor(tier); err != nil {
		return "", err
	}
	return tier, nil
}

// Tiers lists every known tier with its limits, free first.
func Tiers() []Limits {
	free, _ := LimitsFor(domain.TierFree)
	premium, _ := LimitsFor(domain.TierPremium)
	return []Limits{free, premium}
}

// Allows reports whether another consultation fits after count recorded today.
func (l Limits) Allows(count int) bool {
	return l.DailyQuota == Unbounded || count < l.DailyQuota
}

// Remaining returns the consultations left today, or Unbounded.
func (l Limits) Remaining(count int) int {
	if l.DailyQuota == Unbounded {
		return Unbounded
	}
	if left := l.DailyQuota - count; left > 0 {
		return left
	}
	return 0
}
