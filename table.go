package muxtimer

import (
	"time"
)

type (
	// Slot models the state of a single event, see Timer.Deadlines.
	Slot struct {
		// Deadline is the time at which the event will fire, and is only
		// meaningful if Pending is true.
		Deadline time.Time

		// Pending is true if the event has a deadline, i.e. it has been
		// registered, and has not yet fired.
		Pending bool
	}

	// deadlineTable is a fixed capacity mapping of ordinal to (optional)
	// deadline, where the ordinal is the index
	deadlineTable []Slot
)

func newDeadlineTable(size int) deadlineTable {
	return make(deadlineTable, size)
}

// set will occupy the slot for ordinal, if it's empty, or overwrite it, if
// deadline is strictly before the existing deadline, returning true in either
// case, or false if the existing deadline was kept (earliest wins)
func (x deadlineTable) set(ordinal int, deadline time.Time) bool {
	slot := &x[ordinal]
	if slot.Pending && !deadline.Before(slot.Deadline) {
		return false
	}
	*slot = Slot{Deadline: deadline, Pending: true}
	return true
}

// clear empties the slot for ordinal, returning the previous value
func (x deadlineTable) clear(ordinal int) (deadline time.Time, ok bool) {
	slot := &x[ordinal]
	deadline, ok = slot.Deadline, slot.Pending
	*slot = Slot{}
	return
}

// soonest finds the pending slot with the minimum deadline, with ties broken
// by the lowest ordinal
func (x deadlineTable) soonest() (ordinal int, deadline time.Time, ok bool) {
	for i := range x {
		if x[i].Pending && (!ok || x[i].Deadline.Before(deadline)) {
			ordinal, deadline, ok = i, x[i].Deadline, true
		}
	}
	return
}

// snapshot appends all slots to dst
func (x deadlineTable) snapshot(dst []Slot) []Slot {
	return append(dst, x...)
}
