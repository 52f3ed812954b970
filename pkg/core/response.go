package core

import "time"

// Response is a successfully decoded exchange envelope.
// Status is always 0: a non-zero business status is returned as an ExchangeError instead.
type Response[T any] struct {
	Status       int       `json:"status"`
	ResponseTime time.Time `json:"responsetime"`
	Data         T         `json:"data"`
}
