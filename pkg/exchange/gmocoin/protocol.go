package gmocoin

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/cockroachdb/apd/v3"
	"github.com/go-playground/validator/v10"

	"gmocoin/pkg/core"
	"gmocoin/pkg/exchange"
)

// Protocol validates call parameters and builds requests. Validation errors
// are returned before anything is sent.
type Protocol struct {
	exchange string
	validate *validator.Validate
}

// NewProtocol creates a protocol whose errors are attributed to exchange.
func NewProtocol(exchange string) *Protocol {
	return &Protocol{exchange: exchange, validate: validator.New()}
}

// Request bodies. Field order is the wire order and the signed order.

type orderBody struct {
	Symbol        string `json:"symbol"`
	Side          string `json:"side"`
	ExecutionType string `json:"executionType"`
	TimeInForce   string `json:"timeInForce,omitempty"`
	Size          string `json:"size"`
	Price         string `json:"price,omitempty"`
	LosscutPrice  string `json:"losscutPrice,omitempty"`
}

type changeOrderBody struct {
	OrderID      int64  `json:"orderId"`
	Price        string `json:"price"`
	LosscutPrice string `json:"losscutPrice,omitempty"`
}

type cancelOrderBody struct {
	OrderID int64 `json:"orderId"`
}

type settlePosition struct {
	PositionID int64  `json:"positionId"`
	Size       string `json:"size"`
}

type closeOrderBody struct {
	Symbol         string           `json:"symbol"`
	Side           string           `json:"side"`
	ExecutionType  string           `json:"executionType"`
	TimeInForce    string           `json:"timeInForce,omitempty"`
	SettlePosition []settlePosition `json:"settlePosition"`
	Price          string           `json:"price,omitempty"`
}

type closeBulkOrderBody struct {
	Symbol        string `json:"symbol"`
	Side          string `json:"side"`
	ExecutionType string `json:"executionType"`
	TimeInForce   string `json:"timeInForce,omitempty"`
	Size          string `json:"size"`
	Price         string `json:"price,omitempty"`
}

func (p *Protocol) invalid(field, format string, args ...any) error {
	return core.NewValidationError(p.exchange, field, fmt.Sprintf(format, args...))
}

func (p *Protocol) check(req any) error {
	if req == nil {
		return p.invalid("request", "is required")
	}
	err := p.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return p.invalid(fe.Field(), "failed %q constraint (value %v)", fe.Tag(), fe.Value())
	}
	return p.invalid("request", "%v", err)
}

func positive(d *apd.Decimal) bool {
	return d.Form == apd.Finite && d.Sign() > 0
}

func formatDecimal(d *apd.Decimal) string {
	return d.Text('f')
}

func (p *Protocol) requireSymbol(symbol core.Symbol) error {
	if symbol == "" {
		return p.invalid("symbol", "is required")
	}
	return nil
}

func (p *Protocol) requireLeverage(symbol core.Symbol) error {
	if err := p.requireSymbol(symbol); err != nil {
		return err
	}
	if !symbol.IsLeverage() {
		return p.invalid("symbol", "%s is not a leveraged symbol", symbol)
	}
	return nil
}

func (p *Protocol) size(d *apd.Decimal) (string, error) {
	if !positive(d) {
		return "", p.invalid("size", "must be positive, got %s", d.String())
	}
	return formatDecimal(d), nil
}

// price applies the MARKET rule: required and positive otherwise, dropped for MARKET.
func (p *Protocol) price(et core.ExecutionType, price *apd.Decimal) (string, error) {
	if et == core.ExecutionMarket {
		return "", nil
	}
	if price == nil {
		return "", p.invalid("price", "is required for %s orders", et)
	}
	if !positive(price) {
		return "", p.invalid("price", "must be positive, got %s", price.String())
	}
	return formatDecimal(price), nil
}

func (p *Protocol) paging(o *exchange.Options, req *core.Request) error {
	if o.Page != 0 {
		if o.Page < 1 {
			return p.invalid("page", "must be at least 1, got %d", o.Page)
		}
		req.SetQuery("page", strconv.Itoa(o.Page))
	}
	if o.Count != 0 {
		if o.Count < 1 || o.Count > exchange.MaxCount {
			return p.invalid("count", "must be between 1 and %d, got %d", exchange.MaxCount, o.Count)
		}
		req.SetQuery("count", strconv.Itoa(o.Count))
	}
	return nil
}

func (p *Protocol) BuildGetStatus() *core.Request {
	return newRequest(core.OpGetStatus)
}

// BuildGetTicker requests every symbol when symbol is empty.
func (p *Protocol) BuildGetTicker(symbol core.Symbol) *core.Request {
	req := newRequest(core.OpGetTicker)
	if symbol != "" {
		req.SetQuery("symbol", symbol.String())
	}
	return req
}

func (p *Protocol) BuildGetOrderBook(symbol core.Symbol) (*core.Request, error) {
	if err := p.requireSymbol(symbol); err != nil {
		return nil, err
	}
	return newRequest(core.OpGetOrderBook).SetQuery("symbol", symbol.String()), nil
}

func (p *Protocol) BuildGetTrades(symbol core.Symbol, opts ...exchange.Option) (*core.Request, error) {
	if err := p.requireSymbol(symbol); err != nil {
		return nil, err
	}
	req := newRequest(core.OpGetTrades).SetQuery("symbol", symbol.String())
	if err := p.paging(exchange.ApplyOptions(opts...), req); err != nil {
		return nil, err
	}
	return req, nil
}

func (p *Protocol) BuildGetMargin() *core.Request {
	return newRequest(core.OpGetMargin)
}

func (p *Protocol) BuildGetAssets() *core.Request {
	return newRequest(core.OpGetAssets)
}

func (p *Protocol) BuildGetActiveOrders(symbol core.Symbol, opts ...exchange.Option) (*core.Request, error) {
	if err := p.requireSymbol(symbol); err != nil {
		return nil, err
	}
	req := newRequest(core.OpGetActiveOrders).SetQuery("symbol", symbol.String())
	if err := p.paging(exchange.ApplyOptions(opts...), req); err != nil {
		return nil, err
	}
	return req, nil
}

// BuildGetPositionSummary covers every leveraged symbol when symbol is empty.
func (p *Protocol) BuildGetPositionSummary(symbol core.Symbol) (*core.Request, error) {
	req := newRequest(core.OpGetPositionSummary)
	if symbol == "" {
		return req, nil
	}
	if err := p.requireLeverage(symbol); err != nil {
		return nil, err
	}
	return req.SetQuery("symbol", symbol.String()), nil
}

func (p *Protocol) BuildPlaceOrder(o *exchange.OrderRequest) (*core.Request, error) {
	if err := p.check(o); err != nil {
		return nil, err
	}
	size, err := p.size(&o.Size)
	if err != nil {
		return nil, err
	}
	price, err := p.price(o.ExecutionType, o.Price)
	if err != nil {
		return nil, err
	}

	body := orderBody{
		Symbol:        o.Symbol.String(),
		Side:          o.Side.String(),
		ExecutionType: o.ExecutionType.String(),
		TimeInForce:   o.TimeInForce.String(),
		Size:          size,
		Price:         price,
	}

	if o.LosscutPrice != nil {
		if !o.Symbol.IsLeverage() {
			return nil, p.invalid("losscutPrice", "not allowed for spot symbol %s", o.Symbol)
		}
		if o.ExecutionType == core.ExecutionMarket {
			return nil, p.invalid("losscutPrice", "not allowed for MARKET orders")
		}
		if !positive(o.LosscutPrice) {
			return nil, p.invalid("losscutPrice", "must be positive, got %s", o.LosscutPrice.String())
		}
		body.LosscutPrice = formatDecimal(o.LosscutPrice)
	}

	return newRequest(core.OpPlaceOrder).SetBody(body), nil
}

func (p *Protocol) BuildChangeOrder(o *exchange.ChangeOrderRequest) (*core.Request, error) {
	if err := p.check(o); err != nil {
		return nil, err
	}
	if !positive(&o.Price) {
		return nil, p.invalid("price", "must be positive, got %s", o.Price.String())
	}
	body := changeOrderBody{
		OrderID: o.OrderID,
		Price:   formatDecimal(&o.Price),
	}
	if o.LosscutPrice != nil {
		if !positive(o.LosscutPrice) {
			return nil, p.invalid("losscutPrice", "must be positive, got %s", o.LosscutPrice.String())
		}
		body.LosscutPrice = formatDecimal(o.LosscutPrice)
	}
	return newRequest(core.OpChangeOrder).SetBody(body), nil
}

func (p *Protocol) BuildCancelOrder(orderID int64) (*core.Request, error) {
	if orderID <= 0 {
		return nil, p.invalid("orderId", "must be positive, got %d", orderID)
	}
	return newRequest(core.OpCancelOrder).SetBody(cancelOrderBody{OrderID: orderID}), nil
}

func (p *Protocol) BuildCloseOrder(o *exchange.CloseOrderRequest) (*core.Request, error) {
	if err := p.check(o); err != nil {
		return nil, err
	}
	if err := p.requireLeverage(o.Symbol); err != nil {
		return nil, err
	}
	size, err := p.size(&o.Size)
	if err != nil {
		return nil, err
	}
	price, err := p.price(o.ExecutionType, o.Price)
	if err != nil {
		return nil, err
	}

	body := closeOrderBody{
		Symbol:         o.Symbol.String(),
		Side:           o.Side.String(),
		ExecutionType:  o.ExecutionType.String(),
		TimeInForce:    o.TimeInForce.String(),
		SettlePosition: []settlePosition{{PositionID: o.PositionID, Size: size}},
		Price:          price,
	}
	return newRequest(core.OpCloseOrder).SetBody(body), nil
}

func (p *Protocol) BuildCloseBulkOrder(o *exchange.CloseBulkOrderRequest) (*core.Request, error) {
	if err := p.check(o); err != nil {
		return nil, err
	}
	if err := p.requireLeverage(o.Symbol); err != nil {
		return nil, err
	}
	size, err := p.size(&o.Size)
	if err != nil {
		return nil, err
	}
	price, err := p.price(o.ExecutionType, o.Price)
	if err != nil {
		return nil, err
	}

	body := closeBulkOrderBody{
		Symbol:        o.Symbol.String(),
		Side:          o.Side.String(),
		ExecutionType: o.ExecutionType.String(),
		TimeInForce:   o.TimeInForce.String(),
		Size:          size,
		Price:         price,
	}
	return newRequest(core.OpCloseBulkOrder).SetBody(body), nil
}
