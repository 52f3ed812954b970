package core

// Schema names the response shape an endpoint decodes into.
type Schema string

// Response schemas.
const (
	SchemaStatus          Schema = "status"
	SchemaTickers         Schema = "tickers"
	SchemaOrderBook       Schema = "orderbook"
	SchemaTrades          Schema = "trades"
	SchemaMargin          Schema = "margin"
	SchemaAssets          Schema = "assets"
	SchemaActiveOrders    Schema = "active_orders"
	SchemaPositionSummary Schema = "position_summary"
	SchemaOrderID         Schema = "order_id"
	SchemaEmpty           Schema = "empty"
)

// Endpoint is a static descriptor of one REST operation.
type Endpoint struct {
	Op Operation
	// Method is the HTTP method.
	Method string
	// Path is relative to the public or private base URL and is what gets signed.
	Path string
	// Private endpoints require signed headers.
	Private bool
	// Schema labels the response shape in call logs. Each client method
	// picks its decode function statically, so it does not drive decoding.
	Schema Schema
}
