package executor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmocoin/pkg/core"
)

func TestChain_Order(t *testing.T) {
	var trace []string
	mw := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(ctx context.Context, c *Call) error {
				trace = append(trace, name)
				return next(ctx, c)
			}
		}
	}
	h := Chain(func(context.Context, *Call) error {
		trace = append(trace, "handler")
		return nil
	}, mw("outer"), mw("inner"))

	require.NoError(t, h(context.Background(), &Call{}))
	assert.Equal(t, []string{"outer", "inner", "handler"}, trace)
}

func TestRetry_StopsOnNonRateLimitError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	h := Retry(time.Second, 5, func(context.Context, time.Duration) error {
		t.Fatal("must not sleep")
		return nil
	}, zerolog.Nop())(func(context.Context, *Call) error {
		calls++
		return boom
	})

	err := h(context.Background(), &Call{Name: "X"})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRetry_MinimumOneAttempt(t *testing.T) {
	calls := 0
	rateLimited := core.NewBusinessError("test", 200, 4, []core.Message{{Code: string(core.ErrCodeTooManyRequests)}})
	h := Retry(time.Second, 0, nil, zerolog.Nop())(func(context.Context, *Call) error {
		calls++
		return rateLimited
	})

	err := h(context.Background(), &Call{Name: "X"})

	assert.True(t, core.IsRateLimitError(err))
	assert.Equal(t, 1, calls)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, SleepContext(context.Background(), time.Millisecond))
	assert.NoError(t, SleepContext(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, SleepContext(ctx, time.Hour), context.Canceled)
}

func TestLogging_StartAndFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	h := Logging(logger)(func(_ context.Context, c *Call) error {
		c.Attempts = 3
		return errors.New("bad")
	})

	req := core.NewRequest(core.Endpoint{Op: core.OpGetStatus, Method: "GET", Path: "/v1/status", Schema: core.SchemaStatus})
	c := &Call{ID: "id-1", Name: "GET_STATUS", Site: "main.go:42", Request: req}
	_ = h(context.Background(), c)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"message":"start"`)
	assert.Contains(t, lines[0], `"site":"main.go:42"`)
	assert.Contains(t, lines[0], `"schema":"status"`)
	assert.Contains(t, lines[1], `"level":"error"`)
	assert.Contains(t, lines[1], `"message":"failed"`)
	assert.Contains(t, lines[1], `"attempts":3`)
	assert.Contains(t, lines[1], `"call_id":"id-1"`)
}

func TestCallerSite(t *testing.T) {
	site := CallerSite(0)
	assert.True(t, strings.HasPrefix(site, "middleware_test.go:"), site)
}

func TestNewCall(t *testing.T) {
	req := core.NewRequest(core.Endpoint{Op: core.OpCancelOrder, Method: "POST", Path: "/v1/cancelOrder", Private: true})

	a := NewCall(req, "x.go:1")
	b := NewCall(req, "x.go:1")

	assert.Equal(t, "CANCEL_ORDER", a.Name)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
