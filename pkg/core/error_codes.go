package core

import "errors"

// ErrorCode represents an error identifier.
// Library-side codes are upper snake case; exchange message codes keep the
// exchange's own "ERR-nnnn" spelling.
type ErrorCode string

// Library-side error codes.
const (
	// ErrCodeNetwork indicates a network connectivity failure.
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"
	// ErrCodeHTTPStatus indicates a non-200 HTTP status.
	ErrCodeHTTPStatus ErrorCode = "HTTP_STATUS"
	// ErrCodeDecode indicates a response that broke the expected schema.
	ErrCodeDecode ErrorCode = "DECODE_ERROR"
	// ErrCodeBadRequest indicates invalid request parameters.
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"
	// ErrCodeInvalidConfig indicates invalid client configuration.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeCircuitBreaker indicates the circuit breaker refused the call.
	ErrCodeCircuitBreaker ErrorCode = "CIRCUIT_BREAKER_OPEN"
	// ErrCodeNoCredentials indicates a private call without credentials.
	ErrCodeNoCredentials ErrorCode = "NO_CREDENTIALS"
	// ErrCodeMissingMessages marks a synthesized message for a non-zero status without messages.
	ErrCodeMissingMessages ErrorCode = "NO_MESSAGES"
)

// Exchange message codes.
const (
	// ErrCodeInsufficientFunds: available balance is too low for the order.
	ErrCodeInsufficientFunds ErrorCode = "ERR-201"
	// ErrCodeTooManyRequests: the per-second request quota was exceeded. The only retryable code.
	ErrCodeTooManyRequests ErrorCode = "ERR-5003"
	// ErrCodeTimestampTooLate: API-TIMESTAMP is too far behind server time.
	ErrCodeTimestampTooLate ErrorCode = "ERR-5008"
	// ErrCodeTimestampTooEarly: API-TIMESTAMP is ahead of server time.
	ErrCodeTimestampTooEarly ErrorCode = "ERR-5009"
	// ErrCodeInvalidSignature: API-SIGN did not verify.
	ErrCodeInvalidSignature ErrorCode = "ERR-5010"
	// ErrCodeInvalidAPIKey: API-KEY is unknown.
	ErrCodeInvalidAPIKey ErrorCode = "ERR-5011"
	// ErrCodeAuthentication: generic API authentication failure.
	ErrCodeAuthentication ErrorCode = "ERR-5012"
	// ErrCodeInvalidParameter: a request parameter was rejected.
	ErrCodeInvalidParameter ErrorCode = "ERR-5106"
	// ErrCodeMaintenance: the exchange is under maintenance.
	ErrCodeMaintenance ErrorCode = "ERR-5201"
)

// IsErrorCode checks if the error matches the specified error code.
// Both the primary code and every exchange message code are compared.
func IsErrorCode(err error, code ErrorCode) bool {
	var exErr *ExchangeError
	if errors.As(err, &exErr) {
		return ErrorCode(exErr.Code) == code || exErr.HasMessageCode(code)
	}
	return false
}

// IsAuthenticationCode reports whether the code signals a credential or signature problem.
func IsAuthenticationCode(code ErrorCode) bool {
	switch code {
	case ErrCodeTimestampTooLate, ErrCodeTimestampTooEarly, ErrCodeInvalidSignature,
		ErrCodeInvalidAPIKey, ErrCodeAuthentication:
		return true
	}
	return false
}
