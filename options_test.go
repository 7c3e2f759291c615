package muxtimer

import (
	"io"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

func TestResolveTimerOptions_defaults(t *testing.T) {
	cfg := resolveTimerOptions(nil)
	if cfg.clock == nil {
		t.Fatal(`expected default clock`)
	}
	if _, ok := cfg.alarm.(*clockAlarm); !ok {
		t.Fatalf(`expected default alarm, got %T`, cfg.alarm)
	}
	if cfg.logger != nil {
		t.Fatal(`expected logging to be disabled`)
	}
}

func TestResolveTimerOptions_nilOption(t *testing.T) {
	mock := clock.NewMock()
	cfg := resolveTimerOptions([]Option{nil, WithClock(mock), nil})
	if cfg.clock != mock {
		t.Fatal(`expected mock clock`)
	}
	if alarm, ok := cfg.alarm.(*clockAlarm); !ok || alarm.clock != mock {
		t.Fatalf(`expected alarm using the mock clock, got %#v`, cfg.alarm)
	}
}

func TestWithAlarm(t *testing.T) {
	alarm := &recordingAlarm{}
	mock := clock.NewMock()
	// order independent
	for _, options := range [][]Option{
		{WithAlarm(alarm), WithClock(mock)},
		{WithClock(mock), WithAlarm(alarm)},
	} {
		cfg := resolveTimerOptions(options)
		if cfg.alarm != alarm {
			t.Errorf(`unexpected alarm: %#v`, cfg.alarm)
		}
		if cfg.clock != mock {
			t.Errorf(`unexpected clock: %#v`, cfg.clock)
		}
	}
}

func TestWithLogger(t *testing.T) {
	var events int
	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(io.Discard)),
		stumpy.L.WithWriter(logiface.WriterFunc[*stumpy.Event](func(*stumpy.Event) error {
			events++
			return nil
		})),
		stumpy.L.WithLevel(logiface.LevelTrace),
	).Logger()
	timer := New[int](2, WithClock(clock.NewMock()), WithLogger(logger))
	if timer.logger != logger {
		t.Fatal(`logger not configured`)
	}
	timer.FireAfter(0, time.Second)
	if events != 1 {
		t.Fatalf(`expected 1 event, got %d`, events)
	}
}

func TestWithLogger_nil(t *testing.T) {
	timer := New[int](1, WithLogger(nil))
	timer.FireAfter(0, time.Hour)
	timer.Stop()
}

func TestOptions_nilPanics(t *testing.T) {
	for name, fn := range map[string]func(){
		`clock`: func() { WithClock(nil) },
		`alarm`: func() { WithAlarm(nil) },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error(`expected panic`)
				}
			}()
			fn()
		})
	}
}
