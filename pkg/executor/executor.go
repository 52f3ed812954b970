// Package executor runs exchange calls: it paces, signs, sends, decodes and
// retries rate-limited attempts.
package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"

	"gmocoin/internal/circuitbreaker"
	"gmocoin/internal/ratelimit"
	"gmocoin/internal/transport"
	"gmocoin/pkg/core"
)

// Transport sends one HTTP request. *transport.Client implements it.
type Transport interface {
	Send(ctx context.Context, method, url string, headers map[string]string, body []byte) (*transport.Response, error)
}

// SignFunc returns the authentication headers for one attempt.
type SignFunc func(method, path string, body []byte) (map[string]string, error)

// Executor is safe for concurrent use. It holds no per-call state.
type Executor struct {
	exchange   string
	publicURL  string
	privateURL string
	transport  Transport
	sign       SignFunc
	pacer      *ratelimit.Pacer
	breaker    *circuitbreaker.Breaker
	logger     zerolog.Logger
	handler    Handler
}

// Option configures an Executor.
type Option func(*options)

type options struct {
	sign        SignFunc
	sleep       Sleeper
	logger      zerolog.Logger
	middlewares []Middleware
}

// WithSigner enables private calls.
func WithSigner(sign SignFunc) Option {
	return func(o *options) {
		o.sign = sign
	}
}

// WithSleeper replaces the pause between retries, mainly for tests.
func WithSleeper(sleep Sleeper) Option {
	return func(o *options) {
		o.sleep = sleep
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMiddleware adds middlewares between logging and retry. They run once per call.
func WithMiddleware(mws ...Middleware) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, mws...)
	}
}

// New builds an Executor from a validated config.
func New(config *core.Config, tr Transport, opts ...Option) (*Executor, error) {
	if tr == nil {
		return nil, errors.New("transport is required")
	}

	o := &options{logger: zerolog.Nop(), sleep: SleepContext}
	for _, opt := range opts {
		opt(o)
	}

	var pacer *ratelimit.Pacer
	if config.RateLimitRequests > 0 {
		p, err := ratelimit.New(config.RateLimitRequests, config.RateLimitPeriod)
		if err != nil {
			return nil, fmt.Errorf("create pacer: %w", err)
		}
		pacer = p
	}

	var breaker *circuitbreaker.Breaker
	if config.CircuitBreakerEnabled {
		breaker = circuitbreaker.New(circuitbreaker.Config{
			FailThreshold:    config.CircuitBreakerFailThreshold,
			SuccessThreshold: config.CircuitBreakerSuccessThreshold,
			Timeout:          config.CircuitBreakerTimeout,
		})
	}

	e := &Executor{
		exchange:   config.Exchange,
		publicURL:  strings.TrimRight(config.PublicURL, "/"),
		privateURL: strings.TrimRight(config.PrivateURL, "/"),
		transport:  tr,
		sign:       o.sign,
		pacer:      pacer,
		breaker:    breaker,
		logger:     o.logger,
	}

	mws := []Middleware{Logging(o.logger)}
	mws = append(mws, o.middlewares...)
	mws = append(mws, Retry(config.RetryInterval, config.MaxAttempts, o.sleep, o.logger))
	e.handler = Chain(e.attempt, mws...)

	return e, nil
}

// Do runs c through the middleware chain.
func (e *Executor) Do(ctx context.Context, c *Call) error {
	if c.Request.Private && e.sign == nil {
		err := core.NewValidationError(e.exchange, "credentials", "private endpoint requires credentials").
			WithCode(core.ErrCodeNoCredentials)
		err.Err = core.ErrNoCredentials
		return err
	}

	if c.Request.Body != nil && c.Body == nil {
		body, err := sonic.Marshal(c.Request.Body)
		if err != nil {
			return fmt.Errorf("%s: marshal body: %w", c.Name, err)
		}
		c.Body = body
	}

	return e.handler(ctx, c)
}

// Execute runs c and returns the typed envelope produced by decode.
func Execute[T any](ctx context.Context, e *Executor, c *Call, decode func(body []byte) (*core.Response[T], error)) (*core.Response[T], error) {
	var out *core.Response[T]
	c.Decode = func(body []byte) error {
		resp, err := decode(body)
		if err != nil {
			return err
		}
		out = resp
		return nil
	}
	if err := e.Do(ctx, c); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Executor) attempt(ctx context.Context, c *Call) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Attempts++

	req := c.Request
	scope, base := ratelimit.ScopePublic, e.publicURL
	if req.Private {
		scope, base = ratelimit.ScopePrivate, e.privateURL
	}

	if e.pacer != nil {
		if err := e.pacer.Wait(ctx, scope); err != nil {
			return fmt.Errorf("%s: pace: %w", c.Name, err)
		}
	}

	if e.breaker != nil {
		if err := e.breaker.Allow(); err != nil {
			ex := core.NewExchangeError(e.exchange, core.ErrorTypeNetwork, 0, "request not sent").
				WithCode(core.ErrCodeCircuitBreaker)
			ex.Err = err
			return ex
		}
	}

	var headers map[string]string
	if req.Private {
		h, err := e.sign(req.Method, req.Path, c.Body)
		if err != nil {
			return fmt.Errorf("%s: sign: %w", c.Name, err)
		}
		headers = h
	}

	resp, err := e.transport.Send(ctx, req.Method, base+req.URL(), headers, c.Body)
	if err != nil {
		if errors.Is(err, core.ErrClientClosed) {
			return err
		}
		if ctx.Err() == nil {
			e.record(false)
		}
		return core.NewNetworkError(e.exchange, err)
	}

	if !resp.IsSuccess() {
		e.record(false)
		return core.NewTransportError(e.exchange, resp.StatusCode, string(resp.Body))
	}
	e.record(true)

	return c.Decode(resp.Body)
}

// record feeds the breaker with transport outcomes only. Cancelled and
// locally refused calls are not recorded.
func (e *Executor) record(success bool) {
	if e.breaker != nil {
		e.breaker.Record(success)
	}
}

// Pacer returns the client-side pacer, nil when pacing is off.
func (e *Executor) Pacer() *ratelimit.Pacer {
	return e.pacer
}

// Breaker returns the circuit breaker, nil when disabled.
func (e *Executor) Breaker() *circuitbreaker.Breaker {
	return e.breaker
}
