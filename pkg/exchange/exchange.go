package exchange

import (
	"context"

	"github.com/cockroachdb/apd/v3"

	"gmocoin/pkg/core"
)

// PublicAPI covers the endpoints that need no credentials.
type PublicAPI interface {
	GetStatus(ctx context.Context) (*core.Response[core.Status], error)
	// GetTicker returns every symbol when symbol is empty.
	GetTicker(ctx context.Context, symbol core.Symbol) (*core.Response[[]core.Ticker], error)
	GetOrderBook(ctx context.Context, symbol core.Symbol) (*core.Response[core.OrderBook], error)
	GetTrades(ctx context.Context, symbol core.Symbol, opts ...Option) (*core.Response[core.Trades], error)
}

// PrivateAPI covers the signed account and trading endpoints.
type PrivateAPI interface {
	GetMargin(ctx context.Context) (*core.Response[core.Margin], error)
	GetAssets(ctx context.Context) (*core.Response[[]core.Asset], error)
	GetActiveOrders(ctx context.Context, symbol core.Symbol, opts ...Option) (*core.Response[core.ActiveOrders], error)
	GetPositionSummary(ctx context.Context, symbol core.Symbol) (*core.Response[[]core.PositionSummary], error)

	PlaceOrder(ctx context.Context, req *OrderRequest) (*core.Response[int64], error)
	ChangeOrder(ctx context.Context, req *ChangeOrderRequest) (*core.Response[core.Empty], error)
	CancelOrder(ctx context.Context, orderID int64) (*core.Response[core.Empty], error)
	CloseOrder(ctx context.Context, req *CloseOrderRequest) (*core.Response[int64], error)
	CloseBulkOrder(ctx context.Context, req *CloseBulkOrderRequest) (*core.Response[int64], error)
}

// Exchange is a full client.
type Exchange interface {
	PublicAPI
	PrivateAPI
	Name() string
	Close() error
}

// OrderRequest contains the parameters of a new order.
type OrderRequest struct {
	Symbol        core.Symbol        `validate:"required"`
	Side          core.Side          `validate:"required,min=1,max=2"`
	ExecutionType core.ExecutionType `validate:"required,min=1,max=3"`
	// TimeInForce is optional; the exchange picks a default per execution type.
	TimeInForce core.TimeInForce `validate:"omitempty,min=1,max=4"`
	Size        apd.Decimal      `validate:"-"`
	// Price is required unless ExecutionType is MARKET, and ignored for MARKET.
	Price *apd.Decimal `validate:"-"`
	// LosscutPrice is only accepted for leveraged symbols with LIMIT or STOP execution.
	LosscutPrice *apd.Decimal `validate:"-"`
}

// ChangeOrderRequest changes the price of an open order.
type ChangeOrderRequest struct {
	OrderID      int64        `validate:"required,gt=0"`
	Price        apd.Decimal  `validate:"-"`
	LosscutPrice *apd.Decimal `validate:"-"`
}

// CloseOrderRequest settles part or all of one leveraged position.
type CloseOrderRequest struct {
	Symbol        core.Symbol        `validate:"required"`
	Side          core.Side          `validate:"required,min=1,max=2"`
	ExecutionType core.ExecutionType `validate:"required,min=1,max=3"`
	TimeInForce   core.TimeInForce   `validate:"omitempty,min=1,max=4"`
	PositionID    int64              `validate:"required,gt=0"`
	Size          apd.Decimal        `validate:"-"`
	Price         *apd.Decimal       `validate:"-"`
}

// CloseBulkOrderRequest settles positions of one symbol and side up to Size.
type CloseBulkOrderRequest struct {
	Symbol        core.Symbol        `validate:"required"`
	Side          core.Side          `validate:"required,min=1,max=2"`
	ExecutionType core.ExecutionType `validate:"required,min=1,max=3"`
	TimeInForce   core.TimeInForce   `validate:"omitempty,min=1,max=4"`
	Size          apd.Decimal        `validate:"-"`
	Price         *apd.Decimal       `validate:"-"`
}
