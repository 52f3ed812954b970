package gmocoin

import (
	"errors"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmocoin/pkg/core"
)

func testDecoder(t *testing.T) *Decoder {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	return NewDecoder("gmocoin", loc)
}

func requireDecodeError(t *testing.T, err error, field string) *core.ExchangeError {
	t.Helper()
	require.Error(t, err)
	assert.True(t, core.IsDecodeError(err), "want decode error, got %v", err)
	var ex *core.ExchangeError
	require.True(t, errors.As(err, &ex))
	assert.Equal(t, field, ex.Field)
	return ex
}

func TestDecoder_Status(t *testing.T) {
	d := testDecoder(t)

	resp, err := d.Status([]byte(`{"status":0,"data":{"status":"OPEN"},"responsetime":"2019-03-19T02:15:06.001Z"}`))

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Status)
	assert.Equal(t, core.ExchangeOpen, resp.Data.Status)
	assert.Equal(t, "Asia/Tokyo", resp.ResponseTime.Location().String())
	assert.Equal(t, 11, resp.ResponseTime.Hour())
	assert.Equal(t, 1*time.Millisecond, time.Duration(resp.ResponseTime.Nanosecond()))
}

func TestDecoder_TradesRoundTrip(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	tests := []struct {
		name  string
		price string
		size  string
		side  core.Side
		at    time.Time
	}{
		{"integer_price_utc", "5000000", "0.0001", core.SideBuy, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"fractional_nanos", "1234567.891011", "0.00010000", core.SideSell, time.Date(2024, 1, 2, 3, 4, 5, 123456789, time.UTC)},
		{"tiny_price_tokyo", "0.000000012", "250000", core.SideBuy, time.Date(2019, 3, 19, 11, 15, 6, int(time.Millisecond), tokyo)},
		{"offset_zone_day_boundary", "99.5", "12.345678901234567890", core.SideSell, time.Date(2020, 2, 29, 23, 59, 59, 0, time.FixedZone("EST", -5*3600))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, _, err := apd.NewFromString(tt.price)
			require.NoError(t, err)
			size, _, err := apd.NewFromString(tt.size)
			require.NoError(t, err)
			respTime := tt.at.Add(time.Second)

			body, err := sonic.Marshal(map[string]any{
				"status": 0,
				"data": map[string]any{
					"list": []map[string]any{{
						"price":     price.Text('f'),
						"side":      tt.side.String(),
						"size":      size.Text('f'),
						"timestamp": tt.at.Format(time.RFC3339Nano),
					}},
				},
				"responsetime": respTime.Format(time.RFC3339Nano),
			})
			require.NoError(t, err)

			resp, err := testDecoder(t).Trades(body)

			require.NoError(t, err)
			require.Len(t, resp.Data.Trades, 1)
			got := resp.Data.Trades[0]

			assert.Equal(t, tt.price, got.Price.Text('f'))
			assert.Equal(t, 0, got.Price.Cmp(price))
			assert.Equal(t, tt.size, got.Size.Text('f'))
			assert.Equal(t, 0, got.Size.Cmp(size))
			assert.Equal(t, tt.side, got.Side)

			assert.True(t, got.Timestamp.Equal(tt.at), "got %s, want %s", got.Timestamp, tt.at)
			assert.Equal(t, "Asia/Tokyo", got.Timestamp.Location().String())
			assert.True(t, resp.ResponseTime.Equal(respTime))
			assert.Equal(t, "Asia/Tokyo", resp.ResponseTime.Location().String())
		})
	}
}

func TestDecoder_StatusUnknownValue(t *testing.T) {
	d := testDecoder(t)

	_, err := d.Status([]byte(`{"status":0,"data":{"status":"CLOSED"},"responsetime":"2019-03-19T02:15:06.001Z"}`))

	ex := requireDecodeError(t, err, "data.status")
	assert.Contains(t, ex.Message, "unknown value")
}

func TestDecoder_Tickers(t *testing.T) {
	d := testDecoder(t)
	body := `{
		"status": 0,
		"data": [
			{"ask":"750760","bid":"750600","high":"762302","last":"756662","low":"704874","symbol":"BTC","timestamp":"2018-03-30T12:34:56.789Z","volume":"194785.8484"},
			{"ask":null,"bid":null,"high":null,"last":null,"low":null,"symbol":"XRP_JPY","timestamp":"2018-03-30T12:34:56.789Z","volume":"0"}
		],
		"responsetime": "2019-03-19T02:15:06.001Z"
	}`

	resp, err := d.Tickers([]byte(body))

	require.NoError(t, err)
	require.Len(t, resp.Data, 2)

	btc := resp.Data[0]
	assert.Equal(t, core.BTC, btc.Symbol)
	assert.Equal(t, "750760", btc.Ask.Text('f'))
	assert.Equal(t, "750600", btc.Bid.Text('f'))
	assert.Equal(t, "194785.8484", btc.Volume.Text('f'))
	assert.Equal(t, 21, btc.Timestamp.Hour())

	xrp := resp.Data[1]
	assert.Equal(t, core.XRPJPY, xrp.Symbol)
	assert.True(t, xrp.Ask.IsZero())
	assert.True(t, xrp.Last.IsZero())
}

func TestDecoder_TickerMissingKey(t *testing.T) {
	d := testDecoder(t)
	body := `{"status":0,"data":[{"bid":"1","high":"1","last":"1","low":"1","symbol":"BTC","timestamp":"2018-03-30T12:34:56.789Z","volume":"1"}],"responsetime":"2019-03-19T02:15:06.001Z"}`

	_, err := d.Tickers([]byte(body))

	ex := requireDecodeError(t, err, "data[0].ask")
	assert.Contains(t, ex.Message, "missing field")
}

func TestDecoder_OrderBook(t *testing.T) {
	d := testDecoder(t)
	body := `{
		"status": 0,
		"data": {
			"asks": [{"price":"455659","size":"0.1"},{"price":"455660","size":"0.25"}],
			"bids": [{"price":"455500","size":"1.5"}],
			"symbol": "BTC"
		},
		"responsetime": "2019-03-19T02:15:06.001Z"
	}`

	resp, err := d.OrderBook([]byte(body))

	require.NoError(t, err)
	assert.Equal(t, core.BTC, resp.Data.Symbol)
	require.Len(t, resp.Data.Asks, 2)
	require.Len(t, resp.Data.Bids, 1)
	assert.Equal(t, "455659", resp.Data.Asks[0].Price.Text('f'))
	assert.Equal(t, "0.25", resp.Data.Asks[1].Size.Text('f'))
	assert.Equal(t, "1.5", resp.Data.Bids[0].Size.Text('f'))
}

func TestDecoder_Trades(t *testing.T) {
	d := testDecoder(t)
	body := `{
		"status": 0,
		"data": {
			"pagination": {"currentPage": 1, "count": 30},
			"list": [
				{"price":"750760","side":"BUY","size":"0.1","timestamp":"2018-03-30T12:34:56.789Z"},
				{"price":"750761","side":"SELL","size":"0.2","timestamp":"2018-03-30T12:34:57.000Z"}
			]
		},
		"responsetime": "2019-03-28T09:28:07.980Z"
	}`

	resp, err := d.Trades([]byte(body))

	require.NoError(t, err)
	assert.Equal(t, core.Pagination{CurrentPage: 1, Count: 30}, resp.Data.Pagination)
	require.Len(t, resp.Data.Trades, 2)
	assert.Equal(t, core.SideBuy, resp.Data.Trades[0].Side)
	assert.Equal(t, core.SideSell, resp.Data.Trades[1].Side)
	assert.Equal(t, "0.2", resp.Data.Trades[1].Size.Text('f'))
}

func TestDecoder_TradesFieldPath(t *testing.T) {
	d := testDecoder(t)
	body := `{
		"status": 0,
		"data": {
			"list": [
				{"price":"750760","side":"BUY","size":"0.1","timestamp":"2018-03-30T12:34:56.789Z"},
				{"price":"abc","side":"SELL","size":"0.2","timestamp":"2018-03-30T12:34:57.000Z"}
			]
		},
		"responsetime": "2019-03-28T09:28:07.980Z"
	}`

	_, err := d.Trades([]byte(body))

	ex := requireDecodeError(t, err, "data.list[1].price")
	assert.Contains(t, ex.Message, "invalid decimal")
}

func TestDecoder_Margin(t *testing.T) {
	d := testDecoder(t)
	body := `{"status":0,"data":{"actualProfitLoss":"68286188","availableAmount":"57262506","margin":"1021682","profitLoss":"-8.5"},"responsetime":"2019-03-19T02:15:06.051Z"}`

	resp, err := d.Margin([]byte(body))

	require.NoError(t, err)
	assert.Equal(t, "68286188", resp.Data.ActualProfitLoss.Text('f'))
	assert.Equal(t, "57262506", resp.Data.AvailableAmount.Text('f'))
	assert.Equal(t, "1021682", resp.Data.Margin.Text('f'))
	assert.Equal(t, "-8.5", resp.Data.ProfitLoss.Text('f'))
}

func TestDecoder_MarginNumbersKeepPrecision(t *testing.T) {
	d := testDecoder(t)
	body := `{"status":0,"data":{"actualProfitLoss":12345678901234567890.123456789,"availableAmount":0,"margin":0,"profitLoss":0},"responsetime":"2019-03-19T02:15:06.051Z"}`

	resp, err := d.Margin([]byte(body))

	require.NoError(t, err)
	assert.Equal(t, "12345678901234567890.123456789", resp.Data.ActualProfitLoss.Text('f'))
}

func TestDecoder_Assets(t *testing.T) {
	d := testDecoder(t)
	body := `{
		"status": 0,
		"data": [
			{"amount":"993982448","available":"993982448","conversionRate":"1","symbol":"JPY"},
			{"amount":"4.0002","available":"4.0002","conversionRate":"859614","symbol":"BTC"}
		],
		"responsetime": "2019-03-19T02:15:06.055Z"
	}`

	resp, err := d.Assets([]byte(body))

	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, core.JPY, resp.Data[0].Symbol)
	assert.Equal(t, "4.0002", resp.Data[1].Amount.Text('f'))
	assert.Equal(t, "859614", resp.Data[1].ConversionRate.Text('f'))
}

func TestDecoder_ActiveOrders(t *testing.T) {
	d := testDecoder(t)
	body := `{
		"status": 0,
		"data": {
			"pagination": {"currentPage": 1, "count": 1},
			"list": [{
				"rootOrderId": 123456789,
				"orderId": 123456789,
				"symbol": "BTC",
				"side": "BUY",
				"orderType": "NORMAL",
				"executionType": "LIMIT",
				"settleType": "OPEN",
				"size": "1",
				"executedSize": "0",
				"price": "840000",
				"losscutPrice": "0",
				"status": "ORDERED",
				"timeInForce": "FAS",
				"timestamp": "2019-03-19T01:07:24.217Z"
			}]
		},
		"responsetime": "2019-03-19T01:07:24.217Z"
	}`

	resp, err := d.ActiveOrders([]byte(body))

	require.NoError(t, err)
	require.Len(t, resp.Data.Orders, 1)
	o := resp.Data.Orders[0]
	assert.Equal(t, int64(123456789), o.RootOrderID)
	assert.Equal(t, int64(123456789), o.OrderID)
	assert.Equal(t, core.SideBuy, o.Side)
	assert.Equal(t, core.OrderTypeNormal, o.OrderType)
	assert.Equal(t, core.ExecutionLimit, o.ExecutionType)
	assert.Equal(t, core.SettleOpen, o.SettleType)
	assert.Equal(t, core.StatusOrdered, o.Status)
	assert.Equal(t, core.FAS, o.TimeInForce)
	assert.Equal(t, "840000", o.Price.Text('f'))
	assert.Equal(t, 10, o.Timestamp.Hour())
}

func TestDecoder_ActiveOrdersEmpty(t *testing.T) {
	d := testDecoder(t)

	resp, err := d.ActiveOrders([]byte(`{"status":0,"data":{},"responsetime":"2019-03-19T01:07:24.217Z"}`))

	require.NoError(t, err)
	assert.NotNil(t, resp.Data.Orders)
	assert.Empty(t, resp.Data.Orders)
	assert.Equal(t, core.Pagination{}, resp.Data.Pagination)
}

func TestDecoder_PositionSummary(t *testing.T) {
	d := testDecoder(t)
	body := `{
		"status": 0,
		"data": {
			"list": [{
				"averagePositionRate": "715656",
				"positionLossGain": "250675",
				"side": "BUY",
				"sumOrderQuantity": "2",
				"sumPositionQuantity": "11.6999",
				"symbol": "BTC_JPY"
			}]
		},
		"responsetime": "2019-03-19T02:15:06.102Z"
	}`

	resp, err := d.PositionSummary([]byte(body))

	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, core.BTCJPY, resp.Data[0].Symbol)
	assert.Equal(t, "11.6999", resp.Data[0].SumPositionQuantity.Text('f'))

	empty, err := d.PositionSummary([]byte(`{"status":0,"data":{},"responsetime":"2019-03-19T02:15:06.102Z"}`))
	require.NoError(t, err)
	assert.Empty(t, empty.Data)
}

func TestDecoder_OrderID(t *testing.T) {
	d := testDecoder(t)

	tests := []struct {
		name string
		body string
		want int64
	}{
		{"string", `{"status":0,"data":"637000","responsetime":"2019-03-19T02:15:06.108Z"}`, 637000},
		{"number", `{"status":0,"data":637001,"responsetime":"2019-03-19T02:15:06.108Z"}`, 637001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := d.OrderID([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Data)
		})
	}

	_, err := d.OrderID([]byte(`{"status":0,"data":"0","responsetime":"2019-03-19T02:15:06.108Z"}`))
	requireDecodeError(t, err, "data")
}

func TestDecoder_Empty(t *testing.T) {
	d := testDecoder(t)

	resp, err := d.Empty([]byte(`{"status":0,"responsetime":"2019-03-19T01:07:24.557Z"}`))

	require.NoError(t, err)
	assert.Equal(t, core.Empty{}, resp.Data)
}

func TestDecoder_BusinessError(t *testing.T) {
	d := testDecoder(t)
	body := `{"status":1,"messages":[{"message_code":"ERR-201","message_string":"Trading margin is insufficient"}],"responsetime":"2019-03-19T02:15:06.108Z"}`

	_, err := d.OrderID([]byte(body))

	require.Error(t, err)
	assert.True(t, core.IsBusinessError(err))
	assert.False(t, core.IsRateLimitError(err))
	assert.True(t, core.IsErrorCode(err, core.ErrCodeInsufficientFunds))

	var ex *core.ExchangeError
	require.True(t, errors.As(err, &ex))
	assert.Equal(t, 1, ex.Status)
	assert.Equal(t, 200, ex.StatusCode)
	require.Len(t, ex.Messages, 1)
	assert.Equal(t, "Trading margin is insufficient", ex.Messages[0].Text)
}

func TestDecoder_RateLimitError(t *testing.T) {
	d := testDecoder(t)
	body := `{"status":4,"messages":[{"message_code":"ERR-5003","message_string":"Requests are too many."}],"responsetime":"2019-03-19T02:15:06.108Z"}`

	_, err := d.Margin([]byte(body))

	assert.True(t, core.IsRateLimitError(err))
	assert.True(t, core.IsBusinessError(err))
}

func TestDecoder_StatusWithoutMessages(t *testing.T) {
	d := testDecoder(t)

	for _, body := range []string{
		`{"status":5,"messages":[]}`,
		`{"status":5}`,
	} {
		_, err := d.Empty([]byte(body))

		var ex *core.ExchangeError
		require.True(t, errors.As(err, &ex), body)
		assert.Equal(t, core.ErrorTypeBusiness, ex.Type)
		require.Len(t, ex.Messages, 1)
		assert.Equal(t, string(core.ErrCodeMissingMessages), ex.Messages[0].Code)
		assert.Contains(t, ex.Messages[0].Text, "status 5")
	}
}

func TestDecoder_InvalidEnvelope(t *testing.T) {
	d := testDecoder(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"not json", `not json`, "$"},
		{"not an object", `[1,2]`, "$"},
		{"missing responsetime", `{"status":0,"data":{"status":"OPEN"}}`, "responsetime"},
		{"bad responsetime", `{"status":0,"data":{"status":"OPEN"},"responsetime":"yesterday"}`, "responsetime"},
		{"data wrong type", `{"status":0,"data":"OPEN","responsetime":"2019-03-19T02:15:06.001Z"}`, "data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Status([]byte(tt.body))
			requireDecodeError(t, err, tt.field)
		})
	}
}

func TestNewDecoder_DefaultsToUTC(t *testing.T) {
	d := NewDecoder("gmocoin", nil)

	resp, err := d.Status([]byte(`{"status":0,"data":{"status":"MAINTENANCE"},"responsetime":"2019-03-19T02:15:06.001Z"}`))

	require.NoError(t, err)
	assert.Equal(t, time.UTC, resp.ResponseTime.Location())
	assert.Equal(t, core.ExchangeMaintenance, resp.Data.Status)
}
