package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"gmocoin/pkg/core"
)

// Handler runs a call to completion.
type Handler func(ctx context.Context, c *Call) error

// Middleware decorates a Handler.
type Middleware func(Handler) Handler

// Chain wraps h so that the first middleware is the outermost.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Retry re-runs next while it fails with a rate limit rejection, pausing a
// fixed interval between attempts. Any other outcome ends the call.
// After maxAttempts the last rate limit error is returned.
func Retry(interval time.Duration, maxAttempts int, sleep Sleeper, logger zerolog.Logger) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if sleep == nil {
		sleep = SleepContext
	}
	return func(next Handler) Handler {
		return func(ctx context.Context, c *Call) error {
			for attempt := 1; ; attempt++ {
				err := next(ctx, c)
				if err == nil || !core.IsRateLimitError(err) {
					return err
				}
				if attempt >= maxAttempts {
					return fmt.Errorf("%s: rate limited after %d attempts: %w", c.Name, attempt, err)
				}

				logger.Warn().
					Str("call_id", c.ID).
					Str("call", c.Name).
					Int("attempt", attempt).
					Dur("retry_in", interval).
					Msg("rate limited, retrying")

				if serr := sleep(ctx, interval); serr != nil {
					return fmt.Errorf("%s: retry wait: %w", c.Name, serr)
				}
			}
		}
	}
}

// Logging emits the start and end of every call.
func Logging(logger zerolog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, c *Call) error {
			c.Started = time.Now()
			var schema core.Schema
			if c.Request != nil {
				schema = c.Request.Schema
			}
			logger.Debug().
				Str("call_id", c.ID).
				Str("call", c.Name).
				Str("site", c.Site).
				Str("schema", string(schema)).
				Msg("start")

			err := next(ctx, c)

			ev := logger.Debug()
			msg := "end"
			if err != nil {
				ev = logger.Error().Err(err)
				msg = "failed"
			}
			ev.Str("call_id", c.ID).
				Str("call", c.Name).
				Str("site", c.Site).
				Int("attempts", c.Attempts).
				Dur("elapsed", time.Since(c.Started)).
				Msg(msg)
			return err
		}
	}
}
