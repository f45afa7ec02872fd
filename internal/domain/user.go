package domain

import "time"

// Tier enumerates subscription levels.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// User represents an authenticated account. The tier is derived from the
// premium flag each time it is needed and is never stored on its own.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Premium      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Tier reports the subscription tier implied by the premium flag.
func (u User) Tier() Tier {
	if u.Premium {
		return TierPremium
	}
	return TierFree
}

// IsFree reports whether the user is on the free tier.
func (u User) IsFree() bool {
	return u.Tier() == TierFree
}
