package muxtimer

import (
	"github.com/benbjohnson/clock"
	"github.com/joeycumines/logiface"
)

type (
	// Option configures a Timer, see New.
	Option interface {
		applyTimer(*timerOptions)
	}

	timerOptions struct {
		clock  clock.Clock
		alarm  Alarm
		logger *logiface.Logger[logiface.Event]
	}

	optionImpl struct {
		applyTimerFunc func(*timerOptions)
	}
)

func (o *optionImpl) applyTimer(opts *timerOptions) {
	o.applyTimerFunc(opts)
}

// WithClock configures the time source, used to resolve relative timeouts,
// see Timer.FireAfter, and (unless WithAlarm is also provided) to create the
// Alarm. Defaults to the system clock. A panic will occur if c is nil.
//
// This is primarily useful for testing, e.g. using clock.NewMock.
func WithClock(c clock.Clock) Option {
	if c == nil {
		panic(`muxtimer: nil clock`)
	}
	return &optionImpl{func(opts *timerOptions) {
		opts.clock = c
	}}
}

// WithAlarm configures a custom Alarm, replacing the default, see NewAlarm.
// The Alarm must not be shared. A panic will occur if alarm is nil.
func WithAlarm(alarm Alarm) Option {
	if alarm == nil {
		panic(`muxtimer: nil alarm`)
	}
	return &optionImpl{func(opts *timerOptions) {
		opts.alarm = alarm
	}}
}

// WithLogger configures a structured logger, which will receive trace level
// events, as deadlines are registered, and events fire. Logging is disabled
// by default, or if logger is nil.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *timerOptions) {
		opts.logger = logger
	}}
}

func resolveTimerOptions(options []Option) *timerOptions {
	cfg := &timerOptions{}
	for _, o := range options {
		if o == nil {
			continue
		}
		o.applyTimer(cfg)
	}
	if cfg.clock == nil {
		cfg.clock = clock.New()
	}
	if cfg.alarm == nil {
		cfg.alarm = NewAlarm(cfg.clock)
	}
	return cfg
}
