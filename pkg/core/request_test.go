package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var tickerEndpoint = Endpoint{Op: OpGetTicker, Method: "GET", Path: "/v1/ticker", Schema: SchemaTickers}

func TestNewRequest(t *testing.T) {
	req := NewRequest(Endpoint{Op: OpPlaceOrder, Method: "POST", Path: "/v1/order", Private: true, Schema: SchemaOrderID})

	assert.Equal(t, OpPlaceOrder, req.Op)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "/v1/order", req.Path)
	assert.True(t, req.Private)
	assert.Equal(t, SchemaOrderID, req.Schema)
	assert.Empty(t, req.Query)
	assert.Nil(t, req.Body)
}

func TestRequest_SetQuery(t *testing.T) {
	req := NewRequest(tickerEndpoint)
	result := req.SetQuery("symbol", "BTC")

	assert.Same(t, req, result)
	assert.Equal(t, []QueryParam{{Key: "symbol", Value: "BTC"}}, req.Query)
}

func TestRequest_SetQueryReplacesInPlace(t *testing.T) {
	req := NewRequest(tickerEndpoint).
		SetQuery("symbol", "BTC").
		SetQuery("page", "1").
		SetQuery("symbol", "ETH")

	assert.Equal(t, "symbol=ETH&page=1", req.QueryString())
}

func TestRequest_SetBody(t *testing.T) {
	req := NewRequest(tickerEndpoint)
	body := map[string]string{"symbol": "BTC"}
	result := req.SetBody(body)

	assert.Same(t, req, result)
	assert.Equal(t, body, req.Body)
}

func TestRequest_URL(t *testing.T) {
	tests := []struct {
		name  string
		query [][2]string
		want  string
	}{
		{"no_query", nil, "/v1/ticker"},
		{"one_param", [][2]string{{"symbol", "BTC_JPY"}}, "/v1/ticker?symbol=BTC_JPY"},
		{"insertion_order", [][2]string{{"symbol", "BTC"}, {"page", "2"}, {"count", "10"}}, "/v1/ticker?symbol=BTC&page=2&count=10"},
		{"escaped", [][2]string{{"symbol", "a b&c"}}, "/v1/ticker?symbol=a+b%26c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequest(tickerEndpoint)
			for _, kv := range tt.query {
				req.SetQuery(kv[0], kv[1])
			}
			assert.Equal(t, tt.want, req.URL())
		})
	}
}
