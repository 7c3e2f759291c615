package muxtimer

import (
	"time"

	"github.com/benbjohnson/clock"
)

type (
	// Alarm models a single, reusable, single-shot countdown, which may be
	// reprogrammed in place. A Timer owns exactly one Alarm.
	//
	// Implementations must deliver at most one value on C, per call to
	// Reset, and must not deliver any value programmed prior to the most
	// recent call to Reset or Stop.
	Alarm interface {
		// Reset cancels any pending wakeup, and programs the alarm to elapse
		// at deadline. Deadlines in the past elapse as soon as possible.
		Reset(deadline time.Time)

		// Stop cancels any pending wakeup.
		Stop()

		// C returns the channel on which the alarm elapses. It may return
		// nil, if the alarm has never been programmed.
		C() <-chan time.Time
	}

	// clockAlarm implements Alarm using a single clock.Timer, which is
	// initialized on first use
	clockAlarm struct {
		clock clock.Clock
		timer *clock.Timer
	}
)

var _ Alarm = (*clockAlarm)(nil)

// NewAlarm returns an Alarm backed by a single timer, from the given clock.
// This is the default Alarm implementation, used by New.
// A panic will occur if c is nil.
func NewAlarm(c clock.Clock) Alarm {
	if c == nil {
		panic(`muxtimer: nil clock`)
	}
	return &clockAlarm{clock: c}
}

func (x *clockAlarm) Reset(deadline time.Time) {
	d := deadline.Sub(x.clock.Now())
	if x.timer == nil {
		x.timer = x.clock.Timer(d)
		return
	}
	x.stop()
	x.timer.Reset(d)
}

func (x *clockAlarm) Stop() {
	if x.timer != nil {
		x.stop()
	}
}

func (x *clockAlarm) C() <-chan time.Time {
	if x.timer == nil {
		return nil
	}
	return x.timer.C
}

// stop stops the timer, then discards any expiry that wasn't received, which
// is necessary for clock implementations (e.g. clock.Mock) that buffer C
func (x *clockAlarm) stop() {
	x.timer.Stop()
	select {
	case <-x.timer.C:
	default:
	}
}
