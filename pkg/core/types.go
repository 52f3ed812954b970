package core

import (
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Enum values start at 1 so the zero value means "not set".

func enumName(names []string, i int) string {
	if i <= 0 || i > len(names) {
		return ""
	}
	return names[i-1]
}

func enumValue(names []string, s string) (int, bool) {
	for i, n := range names {
		if n == s {
			return i + 1, true
		}
	}
	return 0, false
}

func quoted(s string) []byte {
	return []byte(`"` + s + `"`)
}

// ExchangeStatus is the exchange's operating state.
type ExchangeStatus int

const (
	ExchangeMaintenance ExchangeStatus = iota + 1
	ExchangePreOpen
	ExchangeOpen
)

var exchangeStatusNames = []string{"MAINTENANCE", "PREOPEN", "OPEN"}

func (s ExchangeStatus) String() string { return enumName(exchangeStatusNames, int(s)) }

// MarshalJSON implements json.Marshaler for ExchangeStatus.
func (s ExchangeStatus) MarshalJSON() ([]byte, error) { return quoted(s.String()), nil }

// ParseExchangeStatus maps the wire form to an ExchangeStatus.
func ParseExchangeStatus(s string) (ExchangeStatus, bool) {
	v, ok := enumValue(exchangeStatusNames, s)
	return ExchangeStatus(v), ok
}

// Side represents the direction of an order or trade.
type Side int

const (
	SideBuy Side = iota + 1
	SideSell
)

var sideNames = []string{"BUY", "SELL"}

// String returns "BUY" or "SELL".
func (s Side) String() string { return enumName(sideNames, int(s)) }

// MarshalJSON implements json.Marshaler for Side.
func (s Side) MarshalJSON() ([]byte, error) { return quoted(s.String()), nil }

// ParseSide maps the wire form to a Side.
func ParseSide(s string) (Side, bool) {
	v, ok := enumValue(sideNames, s)
	return Side(v), ok
}

// ExecutionType defines how an order executes.
type ExecutionType int

const (
	// ExecutionMarket executes immediately at the best available price. No price is sent.
	ExecutionMarket ExecutionType = iota + 1
	// ExecutionLimit executes at the given price or better.
	ExecutionLimit
	// ExecutionStop triggers at the given price.
	ExecutionStop
)

var executionTypeNames = []string{"MARKET", "LIMIT", "STOP"}

func (t ExecutionType) String() string { return enumName(executionTypeNames, int(t)) }

// MarshalJSON implements json.Marshaler for ExecutionType.
func (t ExecutionType) MarshalJSON() ([]byte, error) { return quoted(t.String()), nil }

// ParseExecutionType maps the wire form to an ExecutionType.
func ParseExecutionType(s string) (ExecutionType, bool) {
	v, ok := enumValue(executionTypeNames, s)
	return ExecutionType(v), ok
}

// TimeInForce defines the fill condition of an order.
// The zero value lets the exchange choose: FAK for MARKET and STOP, FAS for LIMIT.
type TimeInForce int

const (
	// FAK (Fill And Kill) fills what it can and cancels the rest.
	FAK TimeInForce = iota + 1
	// FAS (Fill And Store) keeps the unfilled remainder on the book.
	FAS
	// FOK (Fill Or Kill) fills completely or not at all.
	FOK
	// SOK (Post-only) only adds liquidity.
	SOK
)

var timeInForceNames = []string{"FAK", "FAS", "FOK", "SOK"}

func (t TimeInForce) String() string { return enumName(timeInForceNames, int(t)) }

// MarshalJSON implements json.Marshaler for TimeInForce.
func (t TimeInForce) MarshalJSON() ([]byte, error) { return quoted(t.String()), nil }

// ParseTimeInForce maps the wire form to a TimeInForce.
func ParseTimeInForce(s string) (TimeInForce, bool) {
	v, ok := enumValue(timeInForceNames, s)
	return TimeInForce(v), ok
}

// OrderType distinguishes normal orders from loss-cut orders placed by the exchange.
type OrderType int

const (
	OrderTypeNormal OrderType = iota + 1
	OrderTypeLosscut
)

var orderTypeNames = []string{"NORMAL", "LOSSCUT"}

func (t OrderType) String() string { return enumName(orderTypeNames, int(t)) }

// MarshalJSON implements json.Marshaler for OrderType.
func (t OrderType) MarshalJSON() ([]byte, error) { return quoted(t.String()), nil }

// ParseOrderType maps the wire form to an OrderType.
func ParseOrderType(s string) (OrderType, bool) {
	v, ok := enumValue(orderTypeNames, s)
	return OrderType(v), ok
}

// SettleType tells whether an order opens or closes a position.
type SettleType int

const (
	SettleOpen SettleType = iota + 1
	SettleClose
)

var settleTypeNames = []string{"OPEN", "CLOSE"}

func (t SettleType) String() string { return enumName(settleTypeNames, int(t)) }

// MarshalJSON implements json.Marshaler for SettleType.
func (t SettleType) MarshalJSON() ([]byte, error) { return quoted(t.String()), nil }

// ParseSettleType maps the wire form to a SettleType.
func ParseSettleType(s string) (SettleType, bool) {
	v, ok := enumValue(settleTypeNames, s)
	return SettleType(v), ok
}

// OrderStatus represents the current state of an order.
type OrderStatus int

const (
	// StatusWaiting is a stop order that has not triggered yet.
	StatusWaiting OrderStatus = iota + 1
	StatusOrdered
	StatusModifying
	StatusCancelling
	StatusCanceled
	StatusExecuted
	StatusExpired
)

var orderStatusNames = []string{"WAITING", "ORDERED", "MODIFYING", "CANCELLING", "CANCELED", "EXECUTED", "EXPIRED"}

func (s OrderStatus) String() string { return enumName(orderStatusNames, int(s)) }

// IsTerminal returns true if the order is in a terminal state (no further changes possible).
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCanceled || s == StatusExecuted || s == StatusExpired
}

// MarshalJSON implements json.Marshaler for OrderStatus.
func (s OrderStatus) MarshalJSON() ([]byte, error) { return quoted(s.String()), nil }

// ParseOrderStatus maps the wire form to an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	v, ok := enumValue(orderStatusNames, s)
	return OrderStatus(v), ok
}

// Status is the payload of the status endpoint.
type Status struct {
	Status ExchangeStatus `json:"status"`
}

// Ticker represents the latest rates of a symbol.
// Ask, Bid, High, Last and Low are zero when the exchange has no value for the instrument.
type Ticker struct {
	Symbol    Symbol      `json:"symbol"`
	Ask       apd.Decimal `json:"ask"`
	Bid       apd.Decimal `json:"bid"`
	High      apd.Decimal `json:"high"`
	Last      apd.Decimal `json:"last"`
	Low       apd.Decimal `json:"low"`
	Volume    apd.Decimal `json:"volume"`
	Timestamp time.Time   `json:"timestamp"`
}

// OrderBookLevel represents a single price level in the order book.
type OrderBookLevel struct {
	Price apd.Decimal `json:"price"`
	Size  apd.Decimal `json:"size"`
}

// OrderBook is a snapshot of the book as the exchange returned it.
type OrderBook struct {
	Symbol Symbol `json:"symbol"`
	// Asks are sell orders, best price first.
	Asks []OrderBookLevel `json:"asks"`
	// Bids are buy orders, best price first.
	Bids []OrderBookLevel `json:"bids"`
}

// Pagination describes one page of a paged listing.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	Count       int `json:"count"`
}

// Trade is one public execution.
type Trade struct {
	Price     apd.Decimal `json:"price"`
	Side      Side        `json:"side"`
	Size      apd.Decimal `json:"size"`
	Timestamp time.Time   `json:"timestamp"`
}

// Trades is a page of the public trade history.
type Trades struct {
	Pagination Pagination `json:"pagination"`
	Trades     []Trade    `json:"trades"`
}

// Margin is the margin account summary.
type Margin struct {
	ActualProfitLoss apd.Decimal `json:"actual_profit_loss"`
	AvailableAmount  apd.Decimal `json:"available_amount"`
	Margin           apd.Decimal `json:"margin"`
	ProfitLoss       apd.Decimal `json:"profit_loss"`
}

// Asset is the balance of one currency.
type Asset struct {
	Symbol Symbol      `json:"symbol"`
	Amount apd.Decimal `json:"amount"`
	// Available is Amount minus scheduled withdrawals.
	Available      apd.Decimal `json:"available"`
	ConversionRate apd.Decimal `json:"conversion_rate"`
}

// ActiveOrder is an open order.
type ActiveOrder struct {
	RootOrderID   int64         `json:"root_order_id"`
	OrderID       int64         `json:"order_id"`
	Symbol        Symbol        `json:"symbol"`
	Side          Side          `json:"side"`
	OrderType     OrderType     `json:"order_type"`
	ExecutionType ExecutionType `json:"execution_type"`
	SettleType    SettleType    `json:"settle_type"`
	Size          apd.Decimal   `json:"size"`
	ExecutedSize  apd.Decimal   `json:"executed_size"`
	// Price is zero for MARKET orders.
	Price apd.Decimal `json:"price"`
	// LosscutPrice is zero for spot orders or when unset.
	LosscutPrice apd.Decimal `json:"losscut_price"`
	Status       OrderStatus `json:"status"`
	TimeInForce  TimeInForce `json:"time_in_force"`
	Timestamp    time.Time   `json:"timestamp"`
}

// ActiveOrders is a page of open orders. Both fields are empty when nothing is open.
type ActiveOrders struct {
	Pagination Pagination    `json:"pagination"`
	Orders     []ActiveOrder `json:"orders"`
}

// PositionSummary aggregates open positions per symbol and side.
type PositionSummary struct {
	Symbol              Symbol      `json:"symbol"`
	Side                Side        `json:"side"`
	AveragePositionRate apd.Decimal `json:"average_position_rate"`
	PositionLossGain    apd.Decimal `json:"position_loss_gain"`
	SumOrderQuantity    apd.Decimal `json:"sum_order_quantity"`
	SumPositionQuantity apd.Decimal `json:"sum_position_quantity"`
}

// Empty is the payload of status-only endpoints.
type Empty struct{}
