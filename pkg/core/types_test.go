package core

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSide_String(t *testing.T) {
	tests := []struct {
		name string
		side Side
		want string
	}{
		{"buy", SideBuy, "BUY"},
		{"sell", SideSell, "SELL"},
		{"unset", Side(0), ""},
		{"out_of_range", Side(7), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.side.String())
		})
	}
}

func TestEnums_ParseRoundTrip(t *testing.T) {
	for _, s := range exchangeStatusNames {
		v, ok := ParseExchangeStatus(s)
		require.True(t, ok, s)
		assert.Equal(t, s, v.String())
	}
	for _, s := range sideNames {
		v, ok := ParseSide(s)
		require.True(t, ok, s)
		assert.Equal(t, s, v.String())
	}
	for _, s := range executionTypeNames {
		v, ok := ParseExecutionType(s)
		require.True(t, ok, s)
		assert.Equal(t, s, v.String())
	}
	for _, s := range timeInForceNames {
		v, ok := ParseTimeInForce(s)
		require.True(t, ok, s)
		assert.Equal(t, s, v.String())
	}
	for _, s := range orderTypeNames {
		v, ok := ParseOrderType(s)
		require.True(t, ok, s)
		assert.Equal(t, s, v.String())
	}
	for _, s := range settleTypeNames {
		v, ok := ParseSettleType(s)
		require.True(t, ok, s)
		assert.Equal(t, s, v.String())
	}
	for _, s := range orderStatusNames {
		v, ok := ParseOrderStatus(s)
		require.True(t, ok, s)
		assert.Equal(t, s, v.String())
	}
}

func TestEnums_ParseUnknown(t *testing.T) {
	_, ok := ParseSide("buy")
	assert.False(t, ok, "wire values are case sensitive")

	_, ok = ParseExecutionType("")
	assert.False(t, ok)

	_, ok = ParseOrderStatus("FILLED")
	assert.False(t, ok)

	_, ok = ParseExchangeStatus("CLOSED")
	assert.False(t, ok)
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   OrderStatus
		terminal bool
	}{
		{StatusWaiting, false},
		{StatusOrdered, false},
		{StatusModifying, false},
		{StatusCancelling, false},
		{StatusCanceled, true},
		{StatusExecuted, true},
		{StatusExpired, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestEnums_MarshalJSON(t *testing.T) {
	order := ActiveOrder{
		Side:          SideSell,
		OrderType:     OrderTypeLosscut,
		ExecutionType: ExecutionStop,
		SettleType:    SettleClose,
		Status:        StatusExpired,
		TimeInForce:   FOK,
	}

	data, err := sonic.Marshal(&order)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, sonic.Unmarshal(data, &got))
	assert.Equal(t, "SELL", got["side"])
	assert.Equal(t, "LOSSCUT", got["order_type"])
	assert.Equal(t, "STOP", got["execution_type"])
	assert.Equal(t, "CLOSE", got["settle_type"])
	assert.Equal(t, "EXPIRED", got["status"])
	assert.Equal(t, "FOK", got["time_in_force"])

	status, err := sonic.Marshal(Status{Status: ExchangePreOpen})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"PREOPEN"}`, string(status))
}

func TestSymbol_MarketType(t *testing.T) {
	tests := []struct {
		symbol   Symbol
		market   MarketType
		leverage bool
	}{
		{BTC, MarketTypeSpot, false},
		{XRP, MarketTypeSpot, false},
		{JPY, MarketTypeSpot, false},
		{BTCJPY, MarketTypeLeverage, true},
		{LTCJPY, MarketTypeLeverage, true},
		{Symbol("DOGE_JPY"), MarketTypeLeverage, true},
		{Symbol("DOGE"), MarketTypeSpot, false},
	}

	for _, tt := range tests {
		t.Run(tt.symbol.String(), func(t *testing.T) {
			assert.Equal(t, tt.market, tt.symbol.MarketType())
			assert.Equal(t, tt.leverage, tt.symbol.IsLeverage())
		})
	}

	assert.Equal(t, "spot", MarketTypeSpot.String())
	assert.Equal(t, "leverage", MarketTypeLeverage.String())
}
