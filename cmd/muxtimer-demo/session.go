package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/joeycumines/go-muxtimer"
	"github.com/joeycumines/logiface"
)

type event uint8

const (
	eventHeartbeat event = iota
	eventRetry
	eventIdle
	numEvents
)

const (
	msgAck  = `ack`
	msgData = `data`
)

var (
	errRetriesExhausted = errors.New(`retries exhausted`)
	errIdle             = errors.New(`idle timeout`)
)

type (
	sessionConfig struct {
		// Heartbeat is the interval between outbound heartbeats.
		Heartbeat time.Duration
		// Retry is the initial retry backoff, doubled for each attempt.
		Retry time.Duration
		// MaxRetries limits the number of retries of the request.
		MaxRetries int
		// Idle is the maximum duration without any inbound messages.
		Idle time.Duration
	}

	sessionStats struct {
		Heartbeats int
		Requests   int
		Received   int
	}

	// session simulates a connection with a single outstanding request, which
	// must be acknowledged, with all timeouts multiplexed on one timer
	session struct {
		config       sessionConfig
		clock        clock.Clock
		logger       *logiface.Logger[logiface.Event]
		timer        *muxtimer.Timer[event]
		send         func(msg string)
		lastActivity time.Time
		attempt      int
		pending      bool
		stats        sessionStats
	}
)

func (e event) String() string {
	switch e {
	case eventHeartbeat:
		return `heartbeat`
	case eventRetry:
		return `retry`
	case eventIdle:
		return `idle`
	default:
		return fmt.Sprintf(`event(%d)`, uint8(e))
	}
}

func newSession(config sessionConfig, c clock.Clock, logger *logiface.Logger[logiface.Event], send func(msg string)) *session {
	return &session{
		config: config,
		clock:  c,
		logger: logger,
		timer:  muxtimer.New[event](int(numEvents), muxtimer.WithClock(c), muxtimer.WithLogger(logger)),
		send:   send,
	}
}

// run drives the session until ctx is canceled, or it fails
func (x *session) run(ctx context.Context, inbound <-chan string) error {
	defer x.timer.Stop()
	x.start()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg, ok := <-inbound:
			if !ok {
				inbound = nil
				continue
			}
			x.receive(msg)

		case <-x.timer.C():
			if err := x.handle(x.timer.Fire()); err != nil {
				return err
			}
		}
	}
}

func (x *session) start() {
	x.lastActivity = x.clock.Now()
	x.pending = true
	x.request()
	x.timer.FireAfter(eventHeartbeat, x.config.Heartbeat)
	x.timer.FireAfter(eventIdle, x.config.Idle)
}

func (x *session) request() {
	x.stats.Requests++
	x.send(`request`)
	backoff := x.config.Retry << x.attempt
	x.timer.FireAfter(eventRetry, backoff)
	x.logger.Debug().
		Int(`attempt`, x.attempt).
		Dur(`backoff`, backoff).
		Log(`sent request`)
}

func (x *session) receive(msg string) {
	x.stats.Received++
	x.lastActivity = x.clock.Now()
	if msg == msgAck && x.pending {
		// the retry deadline is left to fire, and ignored
		x.pending = false
		x.logger.Info().Int(`attempt`, x.attempt).Log(`request acknowledged`)
	}
}

func (x *session) handle(e event) error {
	switch e {
	case eventHeartbeat:
		x.stats.Heartbeats++
		x.send(`heartbeat`)
		x.timer.FireAfter(eventHeartbeat, x.config.Heartbeat)
		x.logger.Debug().Log(`sent heartbeat`)

	case eventRetry:
		if !x.pending {
			return nil
		}
		if x.attempt >= x.config.MaxRetries {
			return fmt.Errorf(`%w: %d attempts`, errRetriesExhausted, x.attempt+1)
		}
		x.attempt++
		x.request()

	case eventIdle:
		// deadlines only move sooner, so activity is applied lazily
		deadline := x.lastActivity.Add(x.config.Idle)
		if x.clock.Now().Before(deadline) {
			x.timer.FireAt(eventIdle, deadline)
			return nil
		}
		return fmt.Errorf(`%w: no activity since %s`, errIdle, x.lastActivity.Format(time.RFC3339Nano))

	default:
		panic(fmt.Errorf(`unexpected event: %v`, e))
	}
	return nil
}
