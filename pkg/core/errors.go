package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorType represents the category of an exchange error.
type ErrorType int

// Error type constants categorize errors for proper handling and retry logic.
const (
	// ErrorTypeUnknown indicates an unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeTransport indicates the exchange answered with a non-200 HTTP status.
	ErrorTypeTransport
	// ErrorTypeNetwork indicates the request never produced an HTTP status.
	ErrorTypeNetwork
	// ErrorTypeBusiness indicates the exchange reported a non-zero business status.
	ErrorTypeBusiness
	// ErrorTypeRateLimit indicates the exchange rejected the call for exceeding its request quota.
	ErrorTypeRateLimit
	// ErrorTypeDecode indicates the response did not match the expected schema.
	ErrorTypeDecode
	// ErrorTypeValidation indicates invalid call parameters, detected before any I/O.
	ErrorTypeValidation
)

// String returns the string representation of the error type.
func (t ErrorType) String() string {
	return [...]string{
		"UNKNOWN",
		"TRANSPORT",
		"NETWORK",
		"BUSINESS",
		"RATE_LIMIT",
		"DECODE",
		"VALIDATION",
	}[t]
}

// Sentinel errors for common error conditions.
var (
	// ErrClientClosed is returned when attempting to use a closed client.
	ErrClientClosed = errors.New("client is closed")
	// ErrCircuitBreakerOpen is returned when circuit breaker is open.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")
	// ErrNoCredentials is returned when a private endpoint is called without API credentials.
	ErrNoCredentials = errors.New("no credentials configured")
)

// Message is a single entry of the exchange's "messages" array.
type Message struct {
	// Code is the machine-readable message code (e.g. "ERR-5003").
	Code string `json:"message_code"`
	// Text is the human-readable description.
	Text string `json:"message_string"`
}

// String formats the message as "CODE: text".
func (m Message) String() string {
	if m.Code == "" {
		return m.Text
	}
	return m.Code + ": " + m.Text
}

// ExchangeError represents a structured error returned from the exchange or
// raised while talking to it. One type covers the whole taxonomy; Type tells
// the kinds apart.
type ExchangeError struct {
	// Type categorizes the error for programmatic handling.
	Type ErrorType `json:"type"`
	// StatusCode is the HTTP status code from the response, 0 when none was received.
	StatusCode int `json:"status_code"`
	// Status is the business status reported in the response body.
	Status int `json:"status,omitempty"`
	// Code is the primary error code.
	Code string `json:"code,omitempty"`
	// Messages is the exchange-reported message list for business and rate limit errors.
	Messages []Message `json:"messages,omitempty"`
	// Field is the offending field path for decode and validation errors.
	Field string `json:"field,omitempty"`
	// Message is the human-readable error description.
	Message string `json:"message"`
	// Exchange identifies which exchange returned this error.
	Exchange string `json:"exchange"`
	// Timestamp is when the error occurred.
	Timestamp time.Time `json:"timestamp"`
	// Err is the underlying cause, if any.
	Err error `json:"-"`
}

// Error implements the error interface for ExchangeError.
func (e *ExchangeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Exchange, e.Type)
	switch {
	case e.Code != "":
		fmt.Fprintf(&b, " (%d/%s)", e.StatusCode, e.Code)
	case e.StatusCode != 0:
		fmt.Fprintf(&b, " (%d)", e.StatusCode)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " %s", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// HasMessageCode reports whether any exchange message carries the given code.
func (e *ExchangeError) HasMessageCode(code ErrorCode) bool {
	for _, m := range e.Messages {
		if m.Code == string(code) {
			return true
		}
	}
	return false
}

// WithCode returns a new ExchangeError with the specified error code.
func (e *ExchangeError) WithCode(code ErrorCode) *ExchangeError {
	e.Code = string(code)
	return e
}

// NewExchangeError creates a new ExchangeError with the specified details.
// The timestamp is automatically set to the current time.
func NewExchangeError(exchange string, errorType ErrorType, statusCode int, message string) *ExchangeError {
	return &ExchangeError{
		Type:       errorType,
		StatusCode: statusCode,
		Message:    message,
		Exchange:   exchange,
		Timestamp:  time.Now(),
	}
}

// NewTransportError reports a non-200 HTTP status.
func NewTransportError(exchange string, statusCode int, body string) *ExchangeError {
	msg := fmt.Sprintf("unexpected http status %d", statusCode)
	if body != "" {
		msg += ": " + truncate(body, 256)
	}
	return NewExchangeError(exchange, ErrorTypeTransport, statusCode, msg).WithCode(ErrCodeHTTPStatus)
}

// NewNetworkError wraps a failure that prevented any HTTP status from being received.
func NewNetworkError(exchange string, err error) *ExchangeError {
	e := NewExchangeError(exchange, ErrorTypeNetwork, 0, "http request failed").WithCode(ErrCodeNetwork)
	e.Err = err
	return e
}

// NewBusinessError builds an error from a non-zero business status and its
// message list. The rate-limit code selects ErrorTypeRateLimit.
func NewBusinessError(exchange string, statusCode, status int, messages []Message) *ExchangeError {
	errorType := ErrorTypeBusiness
	for _, m := range messages {
		if m.Code == string(ErrCodeTooManyRequests) {
			errorType = ErrorTypeRateLimit
			break
		}
	}
	texts := make([]string, 0, len(messages))
	for _, m := range messages {
		texts = append(texts, m.String())
	}
	e := NewExchangeError(exchange, errorType, statusCode, strings.Join(texts, "; "))
	e.Status = status
	e.Messages = messages
	if len(messages) > 0 {
		e.Code = messages[0].Code
	}
	return e
}

// NewDecodeError reports a schema mismatch at the given field path.
func NewDecodeError(exchange, field, reason string) *ExchangeError {
	e := NewExchangeError(exchange, ErrorTypeDecode, 200, reason).WithCode(ErrCodeDecode)
	e.Field = field
	return e
}

// NewValidationError reports an invalid call parameter.
func NewValidationError(exchange, field, reason string) *ExchangeError {
	e := NewExchangeError(exchange, ErrorTypeValidation, 0, reason).WithCode(ErrCodeBadRequest)
	e.Field = field
	return e
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func errorTypeOf(err error) (ErrorType, bool) {
	var e *ExchangeError
	if errors.As(err, &e) {
		return e.Type, true
	}
	return ErrorTypeUnknown, false
}

// IsTransportError returns true if the exchange answered with a non-200 HTTP status.
// Transport errors are terminal and never retried.
func IsTransportError(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t == ErrorTypeTransport
}

// IsNetworkError returns true if the error is a network connectivity issue.
func IsNetworkError(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t == ErrorTypeNetwork
}

// IsBusinessError returns true if the exchange reported a non-zero business status.
// Rate limit errors are business errors too.
func IsBusinessError(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && (t == ErrorTypeBusiness || t == ErrorTypeRateLimit)
}

// IsRateLimitError returns true if the error is a rate limit violation.
// Rate limit errors should be retried after a delay.
func IsRateLimitError(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t == ErrorTypeRateLimit
}

// IsDecodeError returns true if the response broke the expected schema.
func IsDecodeError(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t == ErrorTypeDecode
}

// IsValidationError returns true if call parameters were rejected before dispatch.
func IsValidationError(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t == ErrorTypeValidation
}

// IsTerminalError returns true if the error indicates a terminal condition.
// Only rate limit errors are worth retrying.
func IsTerminalError(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t != ErrorTypeRateLimit
}
