package gmocoin

import (
	"net/http"

	"gmocoin/pkg/core"
)

var endpoints = map[core.Operation]core.Endpoint{
	core.OpGetStatus:    {Op: core.OpGetStatus, Method: http.MethodGet, Path: "/v1/status", Schema: core.SchemaStatus},
	core.OpGetTicker:    {Op: core.OpGetTicker, Method: http.MethodGet, Path: "/v1/ticker", Schema: core.SchemaTickers},
	core.OpGetOrderBook: {Op: core.OpGetOrderBook, Method: http.MethodGet, Path: "/v1/orderbooks", Schema: core.SchemaOrderBook},
	core.OpGetTrades:    {Op: core.OpGetTrades, Method: http.MethodGet, Path: "/v1/trades", Schema: core.SchemaTrades},

	core.OpGetMargin:          {Op: core.OpGetMargin, Method: http.MethodGet, Path: "/v1/account/margin", Private: true, Schema: core.SchemaMargin},
	core.OpGetAssets:          {Op: core.OpGetAssets, Method: http.MethodGet, Path: "/v1/account/assets", Private: true, Schema: core.SchemaAssets},
	core.OpGetActiveOrders:    {Op: core.OpGetActiveOrders, Method: http.MethodGet, Path: "/v1/activeOrders", Private: true, Schema: core.SchemaActiveOrders},
	core.OpGetPositionSummary: {Op: core.OpGetPositionSummary, Method: http.MethodGet, Path: "/v1/positionSummary", Private: true, Schema: core.SchemaPositionSummary},
	core.OpPlaceOrder:         {Op: core.OpPlaceOrder, Method: http.MethodPost, Path: "/v1/order", Private: true, Schema: core.SchemaOrderID},
	core.OpChangeOrder:        {Op: core.OpChangeOrder, Method: http.MethodPost, Path: "/v1/changeOrder", Private: true, Schema: core.SchemaEmpty},
	core.OpCancelOrder:        {Op: core.OpCancelOrder, Method: http.MethodPost, Path: "/v1/cancelOrder", Private: true, Schema: core.SchemaEmpty},
	core.OpCloseOrder:         {Op: core.OpCloseOrder, Method: http.MethodPost, Path: "/v1/closeOrder", Private: true, Schema: core.SchemaOrderID},
	core.OpCloseBulkOrder:     {Op: core.OpCloseBulkOrder, Method: http.MethodPost, Path: "/v1/closeBulkOrder", Private: true, Schema: core.SchemaOrderID},
}

// Endpoint returns the descriptor of op.
func Endpoint(op core.Operation) (core.Endpoint, bool) {
	ep, ok := endpoints[op]
	return ep, ok
}

// Endpoints lists every supported operation in declaration order.
func Endpoints() []core.Endpoint {
	out := make([]core.Endpoint, 0, len(endpoints))
	for op := core.OpGetStatus; op <= core.OpCloseBulkOrder; op++ {
		if ep, ok := endpoints[op]; ok {
			out = append(out, ep)
		}
	}
	return out
}

func newRequest(op core.Operation) *core.Request {
	ep, ok := endpoints[op]
	if !ok {
		panic("gmocoin: no endpoint for " + op.String())
	}
	return core.NewRequest(ep)
}
