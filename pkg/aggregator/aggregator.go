// Package aggregator combines account data from every client registered in
// an exchange.Container. Calls fan out concurrently; one failing account does
// not hide the others.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/rs/zerolog"

	"gmocoin/pkg/core"
	"gmocoin/pkg/exchange"
)

// ErrNoAccounts is returned when the container is empty.
var ErrNoAccounts = errors.New("no accounts registered")

type Aggregator struct {
	accounts   *exchange.Container
	logger     zerolog.Logger
	mu         sync.RWMutex
	lastUpdate time.Time
}

func NewAggregator(accounts *exchange.Container) *Aggregator {
	return NewAggregatorWithLogger(accounts, zerolog.Nop())
}

func NewAggregatorWithLogger(accounts *exchange.Container, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		accounts: accounts,
		logger:   logger.With().Str("component", "aggregator").Logger(),
	}
}

// LastUpdate reports when the last fan-out finished.
func (a *Aggregator) LastUpdate() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastUpdate
}

// Result is the outcome of one call against one account.
type Result[T any] struct {
	Account string `json:"account"`
	Value   T      `json:"value,omitempty"`
	Err     error  `json:"-"`
}

// fanOut calls fn for every registered account and returns the results
// sorted by account name.
func fanOut[T any](ctx context.Context, a *Aggregator, what string, fn func(context.Context, exchange.Exchange) (T, error)) []Result[T] {
	accounts := a.accounts.Snapshot()

	resultChan := make(chan Result[T], len(accounts))
	var wg sync.WaitGroup

	for name, ex := range accounts {
		wg.Add(1)
		go func(account string, ex exchange.Exchange) {
			defer wg.Done()

			result := Result[T]{Account: account}

			select {
			case <-ctx.Done():
				result.Err = ctx.Err()
				resultChan <- result
				return
			default:
			}

			v, err := fn(ctx, ex)
			if err != nil {
				a.logger.Warn().Err(err).Str("account", account).Msgf("%s failed", what)
				result.Err = fmt.Errorf("%s: %w", what, err)
			} else {
				result.Value = v
			}
			resultChan <- result
		}(name, ex)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]Result[T], 0, len(accounts))
	for r := range resultChan {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Account < results[j].Account })

	a.mu.Lock()
	a.lastUpdate = time.Now()
	a.mu.Unlock()

	return results
}

// GetAssets fetches the balances of every account.
func (a *Aggregator) GetAssets(ctx context.Context) []Result[[]core.Asset] {
	return fanOut(ctx, a, "get assets", func(ctx context.Context, ex exchange.Exchange) ([]core.Asset, error) {
		resp, err := ex.GetAssets(ctx)
		if err != nil {
			return nil, err
		}
		return resp.Data, nil
	})
}

// GetPositionSummaries fetches position summaries of every account.
// An empty symbol covers all symbols.
func (a *Aggregator) GetPositionSummaries(ctx context.Context, symbol core.Symbol) []Result[[]core.PositionSummary] {
	return fanOut(ctx, a, "get position summary", func(ctx context.Context, ex exchange.Exchange) ([]core.PositionSummary, error) {
		resp, err := ex.GetPositionSummary(ctx, symbol)
		if err != nil {
			return nil, err
		}
		return resp.Data, nil
	})
}

// Balance is the total of one currency across accounts.
type Balance struct {
	Symbol    core.Symbol `json:"symbol"`
	Amount    apd.Decimal `json:"amount"`
	Available apd.Decimal `json:"available"`
	Accounts  []string    `json:"accounts"`
}

// Balances is the combined asset view.
type Balances struct {
	Balances []Balance `json:"balances"`
	// Failed lists accounts whose assets could not be fetched.
	Failed    []string  `json:"failed,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// GetBalances sums Amount and Available per currency over every account that
// answered. It fails only when no account answered.
func (a *Aggregator) GetBalances(ctx context.Context) (*Balances, error) {
	results := a.GetAssets(ctx)
	if len(results) == 0 {
		return nil, ErrNoAccounts
	}

	totals := make(map[core.Symbol]*Balance)
	out := &Balances{}
	var errs []error

	for _, r := range results {
		if r.Err != nil {
			out.Failed = append(out.Failed, r.Account)
			errs = append(errs, fmt.Errorf("%s: %w", r.Account, r.Err))
			continue
		}
		for i := range r.Value {
			asset := &r.Value[i]
			b, ok := totals[asset.Symbol]
			if !ok {
				b = &Balance{Symbol: asset.Symbol}
				totals[asset.Symbol] = b
			}
			if _, err := apd.BaseContext.Add(&b.Amount, &b.Amount, &asset.Amount); err != nil {
				return nil, fmt.Errorf("sum %s amount: %w", asset.Symbol, err)
			}
			if _, err := apd.BaseContext.Add(&b.Available, &b.Available, &asset.Available); err != nil {
				return nil, fmt.Errorf("sum %s available: %w", asset.Symbol, err)
			}
			b.Accounts = append(b.Accounts, r.Account)
		}
	}

	if len(out.Failed) == len(results) {
		return nil, errors.Join(errs...)
	}

	out.Balances = make([]Balance, 0, len(totals))
	for _, b := range totals {
		out.Balances = append(out.Balances, *b)
	}
	sort.Slice(out.Balances, func(i, j int) bool { return out.Balances[i].Symbol < out.Balances[j].Symbol })
	out.Timestamp = a.LastUpdate()
	return out, nil
}

// NetPosition is the signed open quantity of one symbol across accounts,
// positive when long.
type NetPosition struct {
	Symbol   core.Symbol `json:"symbol"`
	Long     apd.Decimal `json:"long"`
	Short    apd.Decimal `json:"short"`
	Net      apd.Decimal `json:"net"`
	Accounts []string    `json:"accounts"`
}

// GetNetPositions nets buy and sell position quantities per symbol. Accounts
// that fail are skipped; the call fails only when every account failed.
func (a *Aggregator) GetNetPositions(ctx context.Context, symbol core.Symbol) ([]NetPosition, error) {
	results := a.GetPositionSummaries(ctx, symbol)
	if len(results) == 0 {
		return nil, ErrNoAccounts
	}

	positions := make(map[core.Symbol]*NetPosition)
	var errs []error

	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Account, r.Err))
			continue
		}
		for i := range r.Value {
			ps := &r.Value[i]
			p, ok := positions[ps.Symbol]
			if !ok {
				p = &NetPosition{Symbol: ps.Symbol}
				positions[ps.Symbol] = p
			}
			side := &p.Long
			if ps.Side == core.SideSell {
				side = &p.Short
			}
			if _, err := apd.BaseContext.Add(side, side, &ps.SumPositionQuantity); err != nil {
				return nil, fmt.Errorf("sum %s position: %w", ps.Symbol, err)
			}
			p.Accounts = appendUnique(p.Accounts, r.Account)
		}
	}

	if len(errs) == len(results) {
		return nil, errors.Join(errs...)
	}

	out := make([]NetPosition, 0, len(positions))
	for _, p := range positions {
		if _, err := apd.BaseContext.Sub(&p.Net, &p.Long, &p.Short); err != nil {
			return nil, fmt.Errorf("net %s position: %w", p.Symbol, err)
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

func appendUnique(s []string, v string) []string {
	if len(s) > 0 && s[len(s)-1] == v {
		return s
	}
	return append(s, v)
}
