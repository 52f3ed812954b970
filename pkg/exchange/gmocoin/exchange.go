package gmocoin

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"gmocoin/internal/transport"
	"gmocoin/pkg/core"
	"gmocoin/pkg/exchange"
	"gmocoin/pkg/executor"
)

// GMOExchange is the GMO Coin client. It is safe for concurrent use: it holds
// only immutable configuration and goroutine-safe helpers.
type GMOExchange struct {
	config   *core.Config
	http     *transport.Client
	exec     *executor.Executor
	protocol *Protocol
	decoder  *Decoder
	logger   zerolog.Logger
}

var _ exchange.Exchange = (*GMOExchange)(nil)

// Option is a functional option for configuring the GMOExchange.
type Option func(*Options)

// Options holds configuration options for the GMOExchange.
type Options struct {
	Logger      zerolog.Logger
	Transport   executor.Transport
	Sleeper     executor.Sleeper
	Clock       func() time.Time
	Middlewares []executor.Middleware
}

// WithLogger returns an option that sets the logger for the exchange.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(t executor.Transport) Option {
	return func(o *Options) {
		o.Transport = t
	}
}

// WithSleeper replaces the pause between rate-limited attempts.
func WithSleeper(s executor.Sleeper) Option {
	return func(o *Options) {
		o.Sleeper = s
	}
}

// WithClock replaces the clock used for API-TIMESTAMP.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Clock = now
	}
}

// WithMiddleware wraps every call with extra middlewares.
func WithMiddleware(mws ...executor.Middleware) Option {
	return func(o *Options) {
		o.Middlewares = append(o.Middlewares, mws...)
	}
}

// New creates a client. Without credentials only the public API works;
// private calls fail with core.ErrNoCredentials before any I/O.
func New(config *core.Config, opts ...Option) (*GMOExchange, error) {
	if config == nil {
		config = core.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		ex := core.NewExchangeError(config.Exchange, core.ErrorTypeValidation, 0, "invalid config").
			WithCode(core.ErrCodeInvalidConfig)
		ex.Err = err
		return nil, ex
	}

	options := &Options{Logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.Logger
	if config.LogLevel != "" {
		if level, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			logger = logger.Level(level)
		}
	}
	logger = logger.With().Str("exchange", config.Exchange).Logger()

	g := &GMOExchange{
		config:   config,
		protocol: NewProtocol(config.Exchange),
		decoder:  NewDecoder(config.Exchange, config.ReferenceLocation()),
		logger:   logger,
	}

	tr := options.Transport
	if tr == nil {
		client, err := transport.NewClient(&transport.Config{Timeout: config.Timeout}, logger)
		if err != nil {
			return nil, fmt.Errorf("create http client: %w", err)
		}
		g.http = client
		tr = client
	}

	execOpts := []executor.Option{
		executor.WithLogger(logger),
		executor.WithMiddleware(options.Middlewares...),
	}
	if options.Sleeper != nil {
		execOpts = append(execOpts, executor.WithSleeper(options.Sleeper))
	}
	if config.Credentials != nil {
		signer, err := NewSigner(*config.Credentials, options.Clock)
		if err != nil {
			return nil, fmt.Errorf("create signer: %w", err)
		}
		execOpts = append(execOpts, executor.WithSigner(signer.Headers))
	}

	exec, err := executor.New(config, tr, execOpts...)
	if err != nil {
		return nil, fmt.Errorf("create executor: %w", err)
	}
	g.exec = exec

	logger.Debug().
		Str("public_url", config.PublicURL).
		Str("private_url", config.PrivateURL).
		Bool("private", config.Credentials != nil).
		Dur("worst_case_retry", config.WorstCaseRetryLatency()).
		Msg("client ready")

	return g, nil
}

// Name returns the configured exchange name.
func (g *GMOExchange) Name() string {
	return g.config.Exchange
}

// Close releases the HTTP client. An injected transport is left alone.
func (g *GMOExchange) Close() error {
	if g.http != nil {
		return g.http.Close()
	}
	return nil
}

// Executor exposes the pacer and breaker for metrics.
func (g *GMOExchange) Executor() *executor.Executor {
	return g.exec
}

// call records the public method's caller for logs.
func (g *GMOExchange) call(req *core.Request) *executor.Call {
	return executor.NewCall(req, executor.CallerSite(2))
}

// GetStatus returns the exchange's operating state.
func (g *GMOExchange) GetStatus(ctx context.Context) (*core.Response[core.Status], error) {
	return executor.Execute(ctx, g.exec, g.call(g.protocol.BuildGetStatus()), g.decoder.Status)
}

// GetTicker returns the latest rates of symbol, or of every symbol when it is empty.
func (g *GMOExchange) GetTicker(ctx context.Context, symbol core.Symbol) (*core.Response[[]core.Ticker], error) {
	return executor.Execute(ctx, g.exec, g.call(g.protocol.BuildGetTicker(symbol)), g.decoder.Tickers)
}

// GetOrderBook returns a snapshot of the book for symbol.
func (g *GMOExchange) GetOrderBook(ctx context.Context, symbol core.Symbol) (*core.Response[core.OrderBook], error) {
	req, err := g.protocol.BuildGetOrderBook(symbol)
	if err != nil {
		return nil, err
	}
	return executor.Execute(ctx, g.exec, g.call(req), g.decoder.OrderBook)
}

// GetTrades returns a page of public executions. Use exchange.WithPage and exchange.WithCount to page.
func (g *GMOExchange) GetTrades(ctx context.Context, symbol core.Symbol, opts ...exchange.Option) (*core.Response[core.Trades], error) {
	req, err := g.protocol.BuildGetTrades(symbol, opts...)
	if err != nil {
		return nil, err
	}
	return executor.Execute(ctx, g.exec, g.call(req), g.decoder.Trades)
}

func (g *GMOExchange) GetMargin(ctx context.Context) (*core.Response[core.Margin], error) {
	return executor.Execute(ctx, g.exec, g.call(g.protocol.BuildGetMargin()), g.decoder.Margin)
}

func (g *GMOExchange) GetAssets(ctx context.Context) (*core.Response[[]core.Asset], error) {
	return executor.Execute(ctx, g.exec, g.call(g.protocol.BuildGetAssets()), g.decoder.Assets)
}

// GetActiveOrders returns a page of open orders for symbol.
func (g *GMOExchange) GetActiveOrders(ctx context.Context, symbol core.Symbol, opts ...exchange.Option) (*core.Response[core.ActiveOrders], error) {
	req, err := g.protocol.BuildGetActiveOrders(symbol, opts...)
	if err != nil {
		return nil, err
	}
	return executor.Execute(ctx, g.exec, g.call(req), g.decoder.ActiveOrders)
}

// GetPositionSummary aggregates open positions of a leveraged symbol, or of all of them when symbol is empty.
func (g *GMOExchange) GetPositionSummary(ctx context.Context, symbol core.Symbol) (*core.Response[[]core.PositionSummary], error) {
	req, err := g.protocol.BuildGetPositionSummary(symbol)
	if err != nil {
		return nil, err
	}
	return executor.Execute(ctx, g.exec, g.call(req), g.decoder.PositionSummary)
}

// PlaceOrder submits a new order and returns its id.
func (g *GMOExchange) PlaceOrder(ctx context.Context, o *exchange.OrderRequest) (*core.Response[int64], error) {
	req, err := g.protocol.BuildPlaceOrder(o)
	if err != nil {
		return nil, err
	}
	return executor.Execute(ctx, g.exec, g.call(req), g.decoder.OrderID)
}

func (g *GMOExchange) ChangeOrder(ctx context.Context, o *exchange.ChangeOrderRequest) (*core.Response[core.Empty], error) {
	req, err := g.protocol.BuildChangeOrder(o)
	if err != nil {
		return nil, err
	}
	return executor.Execute(ctx, g.exec, g.call(req), g.decoder.Empty)
}

func (g *GMOExchange) CancelOrder(ctx context.Context, orderID int64) (*core.Response[core.Empty], error) {
	req, err := g.protocol.BuildCancelOrder(orderID)
	if err != nil {
		return nil, err
	}
	return executor.Execute(ctx, g.exec, g.call(req), g.decoder.Empty)
}

// CloseOrder settles one position and returns the id of the closing order.
func (g *GMOExchange) CloseOrder(ctx context.Context, o *exchange.CloseOrderRequest) (*core.Response[int64], error) {
	req, err := g.protocol.BuildCloseOrder(o)
	if err != nil {
		return nil, err
	}
	return executor.Execute(ctx, g.exec, g.call(req), g.decoder.OrderID)
}

// CloseBulkOrder settles positions of one symbol and side and returns the id of the closing order.
func (g *GMOExchange) CloseBulkOrder(ctx context.Context, o *exchange.CloseBulkOrderRequest) (*core.Response[int64], error) {
	req, err := g.protocol.BuildCloseBulkOrder(o)
	if err != nil {
		return nil, err
	}
	return executor.Execute(ctx, g.exec, g.call(req), g.decoder.OrderID)
}
