package scheduling

import "errors"

var (
	// ErrInvalidTier is returned when a start tier is not part of the elimination cascade.
	ErrInvalidTier = errors.New("tier is not a valid elimination start tier")
	// ErrInvalidPoolSize is returned for negative pool sizes.
	ErrInvalidPoolSize = errors.New("pool size must not be negative")
	// ErrInvalidRoundCount is returned when fewer than one cycle is requested.
	ErrInvalidRoundCount = errors.New("round count must be at least 1")
	// ErrInvalidTimeslot is returned for field timeslots that cannot produce slots.
	ErrInvalidTimeslot = errors.New("invalid field timeslot")
)
