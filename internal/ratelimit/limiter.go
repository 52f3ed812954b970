// Package ratelimit paces outgoing calls on the client side.
//
// Pacing only spreads calls out so the exchange's own limiter is hit less
// often. It never predicts the server's quota: ERR-5003 rejections are still
// handled by the executor's retry loop.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Scope selects an independent token bucket. The exchange counts public and
// private calls separately.
type Scope string

const (
	ScopePublic  Scope = "public"
	ScopePrivate Scope = "private"
)

// Pacer holds one token bucket per scope, created on first use.
type Pacer struct {
	limit   rate.Limit
	burst   int
	mu      sync.Mutex
	buckets map[Scope]*rate.Limiter
	metrics *Metrics
}

// Metrics tracks how often callers had to wait.
type Metrics struct {
	waits   atomic.Int64
	delayed atomic.Int64
	denied  atomic.Int64
}

// New creates a Pacer that allows requests calls per period in every scope,
// with a burst of requests.
func New(requests int, period time.Duration) (*Pacer, error) {
	if requests <= 0 || period <= 0 {
		return nil, fmt.Errorf("ratelimit: invalid pace %d per %s", requests, period)
	}
	return &Pacer{
		limit:   rate.Limit(float64(requests) / period.Seconds()),
		burst:   requests,
		buckets: make(map[Scope]*rate.Limiter),
		metrics: &Metrics{},
	}, nil
}

// Wait blocks until the scope's bucket yields a token or ctx is done.
func (p *Pacer) Wait(ctx context.Context, scope Scope) error {
	p.metrics.waits.Add(1)
	limiter := p.bucket(scope)

	r := limiter.Reserve()
	if !r.OK() {
		p.metrics.denied.Add(1)
		return fmt.Errorf("ratelimit: %s bucket cannot grant a token", scope)
	}
	delay := r.Delay()
	if delay == 0 {
		return nil
	}

	p.metrics.delayed.Add(1)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		p.metrics.denied.Add(1)
		return ctx.Err()
	}
}

// Allow takes a token from the scope's bucket without waiting.
func (p *Pacer) Allow(scope Scope) bool {
	return p.bucket(scope).Allow()
}

func (p *Pacer) bucket(scope Scope) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.buckets[scope]
	if !ok {
		l = rate.NewLimiter(p.limit, p.burst)
		p.buckets[scope] = l
	}
	return l
}

// Metrics returns a snapshot of the pacer statistics.
func (p *Pacer) Metrics() MetricsSnapshot {
	p.mu.Lock()
	scopes := len(p.buckets)
	p.mu.Unlock()
	return MetricsSnapshot{
		Waits:   p.metrics.waits.Load(),
		Delayed: p.metrics.delayed.Load(),
		Denied:  p.metrics.denied.Load(),
		Scopes:  scopes,
	}
}

// MetricsSnapshot is a point-in-time capture of pacer statistics.
type MetricsSnapshot struct {
	// Waits counts calls to Wait.
	Waits int64
	// Delayed counts waits that had to sleep for a token.
	Delayed int64
	// Denied counts waits abandoned because of cancellation.
	Denied int64
	// Scopes is the number of buckets in use.
	Scopes int
}
