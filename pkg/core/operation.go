package core

// Operation represents a type of action that can be performed on an exchange.
type Operation int

// Operation constants define all supported exchange operations.
const (
	// OpGetStatus retrieves the exchange's operating status.
	OpGetStatus Operation = iota
	// OpGetTicker retrieves the latest rates for one or all symbols.
	OpGetTicker
	// OpGetOrderBook retrieves an order book snapshot.
	OpGetOrderBook
	// OpGetTrades retrieves the public trade history.
	OpGetTrades
	// OpGetMargin retrieves the margin account summary.
	OpGetMargin
	// OpGetAssets retrieves asset balances.
	OpGetAssets
	// OpGetActiveOrders retrieves open orders.
	OpGetActiveOrders
	// OpGetPositionSummary retrieves leveraged position summaries.
	OpGetPositionSummary
	// OpPlaceOrder submits a new order.
	OpPlaceOrder
	// OpChangeOrder changes the price of an open order.
	OpChangeOrder
	// OpCancelOrder cancels an open order.
	OpCancelOrder
	// OpCloseOrder settles one leveraged position.
	OpCloseOrder
	// OpCloseBulkOrder settles leveraged positions in bulk.
	OpCloseBulkOrder
)

// String returns the string representation of the operation.
func (o Operation) String() string {
	return [...]string{
		"GET_STATUS",
		"GET_TICKER",
		"GET_ORDER_BOOK",
		"GET_TRADES",
		"GET_MARGIN",
		"GET_ASSETS",
		"GET_ACTIVE_ORDERS",
		"GET_POSITION_SUMMARY",
		"PLACE_ORDER",
		"CHANGE_ORDER",
		"CANCEL_ORDER",
		"CLOSE_ORDER",
		"CLOSE_BULK_ORDER",
	}[o]
}
