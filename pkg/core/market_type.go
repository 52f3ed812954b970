package core

import "strings"

// MarketType represents the type of trading market a symbol belongs to.
type MarketType int

// Market type constants define the available trading market categories.
const (
	// MarketTypeSpot indicates spot trading where assets are exchanged immediately.
	MarketTypeSpot MarketType = iota
	// MarketTypeLeverage indicates margin trading on positions that are opened and later settled.
	MarketTypeLeverage
)

// String returns the string representation of the market type ("spot" or "leverage").
func (m MarketType) String() string {
	return [...]string{
		"spot",
		"leverage",
	}[m]
}

// Symbol identifies a trading pair or asset, e.g. "BTC" or "BTC_JPY".
// The set is open: the exchange lists new instruments without notice.
type Symbol string

// Symbols supported when this package was written.
const (
	BTC    Symbol = "BTC"
	ETH    Symbol = "ETH"
	BCH    Symbol = "BCH"
	LTC    Symbol = "LTC"
	XRP    Symbol = "XRP"
	BTCJPY Symbol = "BTC_JPY"
	ETHJPY Symbol = "ETH_JPY"
	BCHJPY Symbol = "BCH_JPY"
	LTCJPY Symbol = "LTC_JPY"
	XRPJPY Symbol = "XRP_JPY"
	JPY    Symbol = "JPY"
)

// String returns the wire form of the symbol.
func (s Symbol) String() string {
	return string(s)
}

// MarketType classifies the symbol. Pairs quoted in JPY are the exchange's leveraged instruments.
func (s Symbol) MarketType() MarketType {
	if strings.HasSuffix(string(s), "_JPY") {
		return MarketTypeLeverage
	}
	return MarketTypeSpot
}

// IsLeverage reports whether the symbol supports margin positions.
func (s Symbol) IsLeverage() bool {
	return s.MarketType() == MarketTypeLeverage
}
