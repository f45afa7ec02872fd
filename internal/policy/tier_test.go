package policy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"farmaai/internal/domain"
)

func TestLimitsFor(t *testing.T) {
	tests := []struct {
		tier domain.Tier
		want Limits
	}{
		{
			tier: domain.TierFree,
			want: Limits{Tier: domain.TierFree, DailyQuota: 3, HistoryLimit: 5, ChatDepth: ChatDepthBasic},
		},
		{
			tier: domain.TierPremium,
			want: Limits{Tier: domain.TierPremium, DailyQuota: Unbounded, HistoryLimit: Unbounded, ChatDepth: ChatDepthAdvanced, OCREnabled: true},
		},
	}
	for _, tc := range tests {
		t.Run(string(tc.tier), func(t *testing.T) {
			got, err := LimitsFor(tc.tier)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestLimitsForUnknownTierFailsClosed(t *testing.T) {
	for _, tier := range []domain.Tier{"", "gold", "FREE"} {
		_, err := LimitsFor(tier)
		require.Truef(t, errors.Is(err, domain.ErrInvalidTier), "tier %q: got %v", tier, err)
	}
}

func TestHistoryLimitIsPositiveOrUnbounded(t *testing.T) {
	for _, l := range Tiers() {
		require.True(t, l.HistoryLimit == Unbounded || l.HistoryLimit > 0, "tier %s history limit %d", l.Tier, l.HistoryLimit)
	}
}

func TestAllowsAndRemaining(t *testing.T) {
	free, _ := LimitsFor(domain.TierFree)
	require.True(t, free.Allows(2))
	require.False(t, free.Allows(3))
	require.False(t, free.Allows(7))
	require.Equal(t, 1, free.Remaining(2))
	require.Equal(t, 0, free.Remaining(5))

	premium, _ := LimitsFor(domain.TierPremium)
	for _, n := range []int{0, 3, 1000} {
		require.True(t, premium.Allows(n))
		require.Equal(t, Unbounded, premium.Remaining(n))
	}
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier(" Premium ")
	require.NoError(t, err)
	require.Equal(t, domain.TierPremium, tier)

	_, err = ParseTier("pro")
	require.ErrorIs(t, err, domain.ErrInvalidTier)
}
