package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidTier        = errors.New("invalid tier")
	ErrDailyQuotaExceeded = errors.New("daily quota exceeded")
	ErrPersistence        = errors.New("persistence failure")
	ErrFeatureLocked      = errors.New("feature requires premium")
	ErrEmailTaken         = errors.New("email already registered")
)
