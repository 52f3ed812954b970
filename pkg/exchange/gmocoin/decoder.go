package gmocoin

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"gmocoin/pkg/core"
)

// Numbers stay json.Number so decimals keep every digit.
var envelopeAPI = sonic.Config{UseNumber: true}.Froze()

// Decoder turns response envelopes into typed results. It is stateless and
// safe for concurrent use.
type Decoder struct {
	exchange string
	loc      *time.Location
}

// NewDecoder returns a Decoder that normalizes timestamps to loc.
func NewDecoder(exchange string, loc *time.Location) *Decoder {
	if loc == nil {
		loc = time.UTC
	}
	return &Decoder{exchange: exchange, loc: loc}
}

// decode handles the envelope shared by every endpoint:
// {status, responsetime, data} or {status, messages}.
func decode[T any](d *Decoder, body []byte, fn func(r *fieldReader, v any, path string) T) (*core.Response[T], error) {
	var root any
	if err := envelopeAPI.Unmarshal(body, &root); err != nil {
		return nil, core.NewDecodeError(d.exchange, "$", fmt.Sprintf("invalid json: %v", err))
	}

	r := &fieldReader{exchange: d.exchange, loc: d.loc}
	obj := r.object(root, "$")
	if r.err != nil {
		return nil, r.err
	}

	var status int64
	if v, ok := obj["status"]; ok && v != nil {
		status = r.parseInteger(v, "status")
	}
	if r.err != nil {
		return nil, r.err
	}

	if status != 0 {
		messages := d.messages(r, obj, int(status))
		if r.err != nil {
			return nil, r.err
		}
		return nil, core.NewBusinessError(d.exchange, 200, int(status), messages)
	}

	responseTime := r.timestamp(obj, "", "responsetime")
	data := fn(r, obj["data"], "data")
	if r.err != nil {
		return nil, r.err
	}

	return &core.Response[T]{
		Status:       0,
		ResponseTime: responseTime,
		Data:         data,
	}, nil
}

// messages never returns an empty list for a failed call.
func (d *Decoder) messages(r *fieldReader, obj map[string]any, status int) []core.Message {
	raw := r.optionalArray(obj, "", "messages")
	out := make([]core.Message, 0, len(raw))
	for i, item := range raw {
		p := index("messages", i)
		m := r.object(item, p)
		if r.err != nil {
			return nil
		}
		out = append(out, core.Message{
			Code: r.str(m, p, "message_code"),
			Text: r.str(m, p, "message_string"),
		})
	}
	if len(out) == 0 {
		out = append(out, core.Message{
			Code: string(core.ErrCodeMissingMessages),
			Text: fmt.Sprintf("status %d reported without messages", status),
		})
	}
	return out
}

func (d *Decoder) Status(body []byte) (*core.Response[core.Status], error) {
	return decode(d, body, decodeStatus)
}

func (d *Decoder) Tickers(body []byte) (*core.Response[[]core.Ticker], error) {
	return decode(d, body, decodeTickers)
}

func (d *Decoder) OrderBook(body []byte) (*core.Response[core.OrderBook], error) {
	return decode(d, body, decodeOrderBook)
}

func (d *Decoder) Trades(body []byte) (*core.Response[core.Trades], error) {
	return decode(d, body, decodeTrades)
}

func (d *Decoder) Margin(body []byte) (*core.Response[core.Margin], error) {
	return decode(d, body, decodeMargin)
}

func (d *Decoder) Assets(body []byte) (*core.Response[[]core.Asset], error) {
	return decode(d, body, decodeAssets)
}

func (d *Decoder) ActiveOrders(body []byte) (*core.Response[core.ActiveOrders], error) {
	return decode(d, body, decodeActiveOrders)
}

func (d *Decoder) PositionSummary(body []byte) (*core.Response[[]core.PositionSummary], error) {
	return decode(d, body, decodePositionSummary)
}

// OrderID decodes endpoints that answer with a bare order id, sent either as a number or a string.
func (d *Decoder) OrderID(body []byte) (*core.Response[int64], error) {
	return decode(d, body, decodeOrderID)
}

// Empty decodes status-only endpoints.
func (d *Decoder) Empty(body []byte) (*core.Response[core.Empty], error) {
	return decode(d, body, func(*fieldReader, any, string) core.Empty { return core.Empty{} })
}

func decodeStatus(r *fieldReader, v any, path string) core.Status {
	obj := r.object(v, path)
	return core.Status{
		Status: enumField(r, obj, path, "status", core.ParseExchangeStatus),
	}
}

func decodeTickers(r *fieldReader, v any, path string) []core.Ticker {
	items := r.array(v, path)
	out := make([]core.Ticker, 0, len(items))
	for i, item := range items {
		p := index(path, i)
		obj := r.object(item, p)
		if r.err != nil {
			return nil
		}
		out = append(out, core.Ticker{
			Symbol:    r.symbol(obj, p, "symbol"),
			Ask:       r.decimalOrZero(obj, p, "ask"),
			Bid:       r.decimalOrZero(obj, p, "bid"),
			High:      r.decimalOrZero(obj, p, "high"),
			Last:      r.decimalOrZero(obj, p, "last"),
			Low:       r.decimalOrZero(obj, p, "low"),
			Volume:    r.decimal(obj, p, "volume"),
			Timestamp: r.timestamp(obj, p, "timestamp"),
		})
	}
	return out
}

func decodeLevels(r *fieldReader, obj map[string]any, path, key string) []core.OrderBookLevel {
	v, p, ok := r.field(obj, path, key)
	if !ok {
		return nil
	}
	items := r.array(v, p)
	out := make([]core.OrderBookLevel, 0, len(items))
	for i, item := range items {
		ip := index(p, i)
		lvl := r.object(item, ip)
		if r.err != nil {
			return nil
		}
		out = append(out, core.OrderBookLevel{
			Price: r.decimal(lvl, ip, "price"),
			Size:  r.decimal(lvl, ip, "size"),
		})
	}
	return out
}

func decodeOrderBook(r *fieldReader, v any, path string) core.OrderBook {
	obj := r.object(v, path)
	return core.OrderBook{
		Symbol: r.symbol(obj, path, "symbol"),
		Asks:   decodeLevels(r, obj, path, "asks"),
		Bids:   decodeLevels(r, obj, path, "bids"),
	}
}

// decodePagination treats a missing block as the zero page.
func decodePagination(r *fieldReader, obj map[string]any, path string) core.Pagination {
	v, ok := obj["pagination"]
	if !ok || v == nil {
		return core.Pagination{}
	}
	p := join(path, "pagination")
	pg := r.object(v, p)
	return core.Pagination{
		CurrentPage: int(r.integer(pg, p, "currentPage")),
		Count:       int(r.integer(pg, p, "count")),
	}
}

func decodeTrades(r *fieldReader, v any, path string) core.Trades {
	obj := r.object(v, path)
	if r.err != nil {
		return core.Trades{}
	}
	out := core.Trades{Pagination: decodePagination(r, obj, path)}

	items := r.optionalArray(obj, path, "list")
	out.Trades = make([]core.Trade, 0, len(items))
	for i, item := range items {
		p := index(join(path, "list"), i)
		t := r.object(item, p)
		if r.err != nil {
			return core.Trades{}
		}
		out.Trades = append(out.Trades, core.Trade{
			Price:     r.decimal(t, p, "price"),
			Side:      enumField(r, t, p, "side", core.ParseSide),
			Size:      r.decimal(t, p, "size"),
			Timestamp: r.timestamp(t, p, "timestamp"),
		})
	}
	return out
}

func decodeMargin(r *fieldReader, v any, path string) core.Margin {
	obj := r.object(v, path)
	return core.Margin{
		ActualProfitLoss: r.decimal(obj, path, "actualProfitLoss"),
		AvailableAmount:  r.decimal(obj, path, "availableAmount"),
		Margin:           r.decimal(obj, path, "margin"),
		ProfitLoss:       r.decimal(obj, path, "profitLoss"),
	}
}

func decodeAssets(r *fieldReader, v any, path string) []core.Asset {
	items := r.array(v, path)
	out := make([]core.Asset, 0, len(items))
	for i, item := range items {
		p := index(path, i)
		obj := r.object(item, p)
		if r.err != nil {
			return nil
		}
		out = append(out, core.Asset{
			Symbol:         r.symbol(obj, p, "symbol"),
			Amount:         r.decimal(obj, p, "amount"),
			Available:      r.decimal(obj, p, "available"),
			ConversionRate: r.decimal(obj, p, "conversionRate"),
		})
	}
	return out
}

// decodeActiveOrders accepts an empty data object, which the exchange sends
// when nothing is open.
func decodeActiveOrders(r *fieldReader, v any, path string) core.ActiveOrders {
	obj := r.object(v, path)
	if r.err != nil {
		return core.ActiveOrders{}
	}
	out := core.ActiveOrders{Pagination: decodePagination(r, obj, path)}

	items := r.optionalArray(obj, path, "list")
	out.Orders = make([]core.ActiveOrder, 0, len(items))
	for i, item := range items {
		p := index(join(path, "list"), i)
		o := r.object(item, p)
		if r.err != nil {
			return core.ActiveOrders{}
		}
		out.Orders = append(out.Orders, core.ActiveOrder{
			RootOrderID:   r.integer(o, p, "rootOrderId"),
			OrderID:       r.integer(o, p, "orderId"),
			Symbol:        r.symbol(o, p, "symbol"),
			Side:          enumField(r, o, p, "side", core.ParseSide),
			OrderType:     enumField(r, o, p, "orderType", core.ParseOrderType),
			ExecutionType: enumField(r, o, p, "executionType", core.ParseExecutionType),
			SettleType:    enumField(r, o, p, "settleType", core.ParseSettleType),
			Size:          r.decimal(o, p, "size"),
			ExecutedSize:  r.decimal(o, p, "executedSize"),
			Price:         r.decimal(o, p, "price"),
			LosscutPrice:  r.decimal(o, p, "losscutPrice"),
			Status:        enumField(r, o, p, "status", core.ParseOrderStatus),
			TimeInForce:   enumField(r, o, p, "timeInForce", core.ParseTimeInForce),
			Timestamp:     r.timestamp(o, p, "timestamp"),
		})
	}
	return out
}

func decodePositionSummary(r *fieldReader, v any, path string) []core.PositionSummary {
	obj := r.object(v, path)
	if r.err != nil {
		return nil
	}

	items := r.optionalArray(obj, path, "list")
	out := make([]core.PositionSummary, 0, len(items))
	for i, item := range items {
		p := index(join(path, "list"), i)
		s := r.object(item, p)
		if r.err != nil {
			return nil
		}
		out = append(out, core.PositionSummary{
			Symbol:              r.symbol(s, p, "symbol"),
			Side:                enumField(r, s, p, "side", core.ParseSide),
			AveragePositionRate: r.decimal(s, p, "averagePositionRate"),
			PositionLossGain:    r.decimal(s, p, "positionLossGain"),
			SumOrderQuantity:    r.decimal(s, p, "sumOrderQuantity"),
			SumPositionQuantity: r.decimal(s, p, "sumPositionQuantity"),
		})
	}
	return out
}

func decodeOrderID(r *fieldReader, v any, path string) int64 {
	if r.err != nil {
		return 0
	}
	id := r.parseInteger(v, path)
	if r.err == nil && id <= 0 {
		r.fail(path, "order id must be positive, got %d", id)
	}
	return id
}
