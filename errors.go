package muxtimer

import (
	"errors"
)

// Fatal conditions are raised as panics, using errors wrapping the values
// below, so that they may be identified via errors.Is, after recover.
var (
	// ErrOrdinalOutOfRange indicates an event ordinal outside [0, N).
	ErrOrdinalOutOfRange = errors.New(`muxtimer: ordinal out of range`)

	// ErrNotArmed indicates an attempt to wait for (or fire) the next event,
	// while there were no pending events.
	ErrNotArmed = errors.New(`muxtimer: not armed`)

	// ErrInconsistent indicates that an internal invariant was violated,
	// which is a bug in this package (or in a custom Alarm).
	ErrInconsistent = errors.New(`muxtimer: inconsistent state`)
)
