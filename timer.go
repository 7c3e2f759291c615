package muxtimer

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/joeycumines/logiface"
	"golang.org/x/exp/constraints"
)

// Timer waits for the soonest of a fixed set of events, represented by their
// ordinals, multiplexed over a single Alarm. Deadlines for the same event are
// coalesced to the sooner one, if it has not yet fired.
//
// Instances must be initialized using the New factory.
type Timer[O constraints.Integer] struct {
	deadlines deadlineTable
	alarm     Alarm
	clock     clock.Clock
	logger    *logiface.Logger[logiface.Event]
	// deadline the alarm was last programmed with, valid if armed
	armedDeadline time.Time
	// ordinal of the event the alarm is armed for, or len(deadlines) if not armed
	armedOrdinal int
}

// New initializes a Timer supporting size events, with ordinals in the range
// [0, size). The capacity is fixed. A panic will occur if size is not
// positive.
//
// The Timer starts unarmed.
func New[O constraints.Integer](size int, options ...Option) *Timer[O] {
	if size <= 0 {
		panic(fmt.Errorf(`muxtimer: invalid size: %d`, size))
	}
	cfg := resolveTimerOptions(options)
	return &Timer[O]{
		deadlines:    newDeadlineTable(size),
		alarm:        cfg.alarm,
		clock:        cfg.clock,
		logger:       cfg.logger,
		armedOrdinal: size,
	}
}

// Len returns the number of supported events, i.e. one greater than the
// maximum ordinal.
func (x *Timer[O]) Len() int {
	return len(x.deadlines)
}

// FireAfter registers the event identified by ordinal, to fire after timeout,
// relative to the current time, per the configured clock. See also FireAt.
func (x *Timer[O]) FireAfter(ordinal O, timeout time.Duration) bool {
	return x.FireAt(ordinal, x.clock.Now().Add(timeout))
}

// FireAt registers the event identified by ordinal, to fire at deadline.
//
// Returns true if the deadline was accepted, or false if the event was
// already pending, with a deadline that is the same or sooner, in which case
// the call has no effect. Note that an accepted deadline only reprograms the
// underlying alarm if it's the soonest of all pending events.
//
// A panic will occur if ordinal is outside the range [0, Len()).
func (x *Timer[O]) FireAt(ordinal O, deadline time.Time) bool {
	i := x.index(ordinal)

	if !x.deadlines.set(i, deadline) {
		x.logger.Trace().
			Int(`ordinal`, i).
			Time(`existing`, x.deadlines[i].Deadline).
			Time(`requested`, deadline).
			Log(`deadline rejected`)
		return false
	}

	if !x.IsArmed() || deadline.Before(x.armedDeadline) {
		x.arm(i, deadline)
	}

	return true
}

// IsArmed returns true if there are one or more pending events.
func (x *Timer[O]) IsArmed() bool {
	return x.armedOrdinal < len(x.deadlines)
}

// Deadline returns the deadline of the next event to fire, if armed.
func (x *Timer[O]) Deadline() (time.Time, bool) {
	if !x.IsArmed() {
		return time.Time{}, false
	}
	return x.armedDeadline, true
}

// Deadlines returns a copy of the state of all events, indexed by ordinal.
func (x *Timer[O]) Deadlines() []Slot {
	return x.deadlines.snapshot(make([]Slot, 0, len(x.deadlines)))
}

// C returns the channel of the underlying alarm, or nil if not armed, for
// use in select statements. Each value received must be followed by a call
// to Fire, prior to any other method call, e.g.:
//
//	select {
//	case <-timer.C():
//		handle(timer.Fire())
//	case msg := <-inbound:
//		// ...
//	}
//
// Since a nil channel is never ready, an unarmed timer will not be selected.
// See also Wait.
func (x *Timer[O]) C() <-chan time.Time {
	if !x.IsArmed() {
		return nil
	}
	return x.alarm.C()
}

// Wait blocks until the next event fires, returning its ordinal. If ctx is
// canceled first, ctx.Err() will be returned, and the Timer will be left
// unchanged.
//
// Wait may be called repeatedly, to receive each event in turn, so long as
// the Timer is armed. A panic will occur if it is called while not armed, or
// if ctx is nil.
func (x *Timer[O]) Wait(ctx context.Context) (O, error) {
	if ctx == nil {
		panic(`muxtimer: nil context`)
	}
	x.mustBeArmed()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-x.alarm.C():
	}

	return x.Fire(), nil
}

// Fire processes the next event, which must have already elapsed, clearing
// its deadline, and rearming for the soonest remaining event, if any. The
// ordinal of the fired event will be returned.
//
// This method is intended for use alongside C, see also Wait.
// A panic will occur if called while not armed.
func (x *Timer[O]) Fire() O {
	x.mustBeArmed()

	fired := x.armedOrdinal
	x.armedOrdinal = len(x.deadlines)

	deadline, ok := x.deadlines.clear(fired)
	if !ok || !deadline.Equal(x.armedDeadline) {
		panic(fmt.Errorf(`%w: ordinal %d cleared deadline %v (pending=%t) but alarm was armed for %v`, ErrInconsistent, fired, deadline, ok, x.armedDeadline))
	}

	x.logger.Trace().
		Int(`ordinal`, fired).
		Time(`deadline`, deadline).
		Log(`fired`)

	if ordinal, deadline, ok := x.deadlines.soonest(); ok {
		x.arm(ordinal, deadline)
	} else {
		x.logger.Trace().Log(`disarmed`)
	}

	return O(fired)
}

// Stop discards all pending events, and cancels the underlying alarm,
// leaving the Timer unarmed. The Timer may continue to be used.
func (x *Timer[O]) Stop() {
	x.alarm.Stop()
	clear(x.deadlines)
	x.armedOrdinal = len(x.deadlines)
	x.armedDeadline = time.Time{}
}

func (x *Timer[O]) arm(ordinal int, deadline time.Time) {
	x.alarm.Reset(deadline)
	x.armedOrdinal = ordinal
	x.armedDeadline = deadline
	x.logger.Trace().
		Int(`ordinal`, ordinal).
		Time(`deadline`, deadline).
		Log(`armed`)
}

// index validates and converts ordinal, the value must be within [0, Len())
func (x *Timer[O]) index(ordinal O) int {
	if ordinal < 0 || uint64(ordinal) >= uint64(len(x.deadlines)) {
		panic(fmt.Errorf(`%w: %d not in [0, %d)`, ErrOrdinalOutOfRange, ordinal, len(x.deadlines)))
	}
	return int(ordinal)
}

func (x *Timer[O]) mustBeArmed() {
	if !x.IsArmed() {
		panic(ErrNotArmed)
	}
}
