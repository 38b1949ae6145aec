package services

import "errors"

// Typed service errors — handlers map these onto HTTP statuses so a missing
// row is never conflated with a storage failure.
var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrAlreadyEnrolled     = errors.New("challenge already in progress")
	ErrAlreadyClaimed      = errors.New("already claimed")
	ErrNotUnlocked         = errors.New("achievement not unlocked")
	ErrNotPurchasable      = errors.New("item not available for purchase")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrOutOfStock          = errors.New("out of stock")
	ErrLevelTooLow         = errors.New("level requirement not met")
	ErrXPTooLow            = errors.New("xp requirement not met")
	ErrEventFull           = errors.New("event is at capacity")
	ErrAlreadyRegistered   = errors.New("already registered")
	ErrNegativeAmount      = errors.New("amount must not be negative")
)
