// Command muxtimer-demo simulates a connection, multiplexing its heartbeat,
// retry and idle timeouts onto a single timer.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"
)

var (
	config = sessionConfig{
		Heartbeat:  time.Second,
		Retry:      200 * time.Millisecond,
		MaxRetries: 3,
		Idle:       5 * time.Second,
	}
	trafficInterval time.Duration
	runDuration     time.Duration
	verbose         bool
)

var flags = []cli.Flag{
	cli.DurationFlag{
		Name:        "heartbeat",
		Usage:       "interval between outbound heartbeats",
		Value:       config.Heartbeat,
		Destination: &config.Heartbeat,
	},
	cli.DurationFlag{
		Name:        "retry",
		Usage:       "initial retry backoff for the request, doubled per attempt",
		Value:       config.Retry,
		Destination: &config.Retry,
	},
	cli.IntFlag{
		Name:        "max-retries",
		Usage:       "maximum number of retries before the session fails",
		Value:       config.MaxRetries,
		Destination: &config.MaxRetries,
	},
	cli.DurationFlag{
		Name:        "idle",
		Usage:       "maximum duration without inbound traffic",
		Value:       config.Idle,
		Destination: &config.Idle,
	},
	cli.DurationFlag{
		Name:        "traffic, t",
		Usage:       "interval between simulated inbound messages (0 disables)",
		Value:       700 * time.Millisecond,
		Destination: &trafficInterval,
	},
	cli.DurationFlag{
		Name:        "duration, d",
		Usage:       "how long to run the simulation for",
		Value:       10 * time.Second,
		Destination: &runDuration,
	},
	cli.BoolFlag{
		Name:        "verbose, v",
		Usage:       "enable trace logging, including the timer",
		Destination: &verbose,
	},
}

func main() {
	app := cli.App{
		Name:      "muxtimer-demo",
		Usage:     "simulate a connection driven by a multiplexed timer",
		UsageText: "muxtimer-demo [options]",
		Flags:     flags,
		Action:    run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(*cli.Context) error {
	if err := validateConfig(config); err != nil {
		return cli.NewExitError(err, 2)
	}

	level := logiface.LevelInformational
	if verbose {
		level = logiface.LevelTrace
	}
	logger := newLogger(os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runDuration)
	defer cancel()

	stats, err := simulate(ctx, config, clock.New(), logger, trafficInterval)
	logger.Notice().
		Int(`heartbeats`, stats.Heartbeats).
		Int(`requests`, stats.Requests).
		Int(`received`, stats.Received).
		Log(`session ended`)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newLogger(w io.Writer, level logiface.Level) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(level),
	).Logger()
}

func validateConfig(c sessionConfig) error {
	switch {
	case c.Heartbeat <= 0:
		return errors.New(`heartbeat must be positive`)
	case c.Retry <= 0:
		return errors.New(`retry must be positive`)
	case c.MaxRetries < 0:
		return errors.New(`max-retries must not be negative`)
	case c.Idle <= 0:
		return errors.New(`idle must be positive`)
	}
	return nil
}

// simulate runs a session alongside a generator of inbound traffic, the
// first message of which acknowledges the request
func simulate(ctx context.Context, config sessionConfig, c clock.Clock, logger *logiface.Logger[logiface.Event], traffic time.Duration) (sessionStats, error) {
	g, ctx := errgroup.WithContext(ctx)
	inbound := make(chan string)

	s := newSession(config, c, logger, func(msg string) {
		logger.Trace().Str(`body`, msg).Log(`outbound`)
	})

	g.Go(func() error {
		return s.run(ctx, inbound)
	})

	g.Go(func() error {
		defer close(inbound)
		if traffic <= 0 {
			return nil
		}
		ticker := c.Ticker(traffic)
		defer ticker.Stop()
		msg := msgAck
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
			select {
			case <-ctx.Done():
				return nil
			case inbound <- msg:
				msg = msgData
			}
		}
	})

	err := g.Wait()
	return s.stats, err
}
