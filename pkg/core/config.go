package core

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
)

// Default endpoints of the GMO Coin REST API.
const (
	DefaultPublicURL  = "https://api.coin.z.com/public"
	DefaultPrivateURL = "https://api.coin.z.com/private"
)

// Credentials holds API authentication credentials for an exchange.
// A value is never mutated after the client that owns it is built.
type Credentials struct {
	// APIKey is the public API key identifier.
	APIKey string `json:"api_key" yaml:"api_key" validate:"required"`
	// SecretKey is the private API key used for signing requests.
	SecretKey string `json:"secret_key" yaml:"secret_key" validate:"required"`
}

// String masks the key and omits the secret so credentials are safe to log.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{APIKey:%s}", maskKey(c.APIKey))
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

// Config contains all configuration options for a client.
// It covers endpoints, authentication, retry policy, optional pacing and
// circuit breaking, decoding, and logging.
type Config struct {
	Exchange    string       `json:"exchange" yaml:"exchange" validate:"required"`
	PublicURL   string       `json:"public_url" yaml:"public_url" validate:"required,url"`
	PrivateURL  string       `json:"private_url" yaml:"private_url" validate:"required,url"`
	Credentials *Credentials `json:"credentials,omitempty" yaml:"credentials,omitempty" validate:"omitempty"`

	// Timeout is the maximum duration of one HTTP attempt.
	Timeout time.Duration `json:"timeout" yaml:"timeout" validate:"min=1ms"`
	// RetryInterval is the fixed pause between attempts after a rate limit rejection.
	RetryInterval time.Duration `json:"retry_interval" yaml:"retry_interval" validate:"min=0"`
	// MaxAttempts bounds the number of attempts per call, the first one included.
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" validate:"min=1"`

	// RateLimitRequests enables client-side pacing when positive.
	RateLimitRequests int           `json:"rate_limit_requests" yaml:"rate_limit_requests" validate:"min=0"`
	RateLimitPeriod   time.Duration `json:"rate_limit_period" yaml:"rate_limit_period" validate:"min=0"`

	CircuitBreakerEnabled          bool          `json:"circuit_breaker_enabled" yaml:"circuit_breaker_enabled"`
	CircuitBreakerFailThreshold    int           `json:"circuit_breaker_fail_threshold" yaml:"circuit_breaker_fail_threshold"`
	CircuitBreakerSuccessThreshold int           `json:"circuit_breaker_success_threshold" yaml:"circuit_breaker_success_threshold"`
	CircuitBreakerTimeout          time.Duration `json:"circuit_breaker_timeout" yaml:"circuit_breaker_timeout"`

	// Location is the IANA zone every decoded timestamp is normalized to.
	Location string `json:"location" yaml:"location" validate:"required"`

	LogLevel string `json:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a Config initialized with the exchange's observed defaults.
// Default values: 10s timeout, 500ms retry interval, 10 attempts, pacing off,
// circuit breaker off (5 failures/2 successes/30s timeout once enabled), Asia/Tokyo timestamps.
// The breaker is shared by every call of a client, so it is opt-in.
func DefaultConfig() *Config {
	return &Config{
		Exchange:   "gmocoin",
		PublicURL:  DefaultPublicURL,
		PrivateURL: DefaultPrivateURL,

		Timeout:       10 * time.Second,
		RetryInterval: 500 * time.Millisecond,
		MaxAttempts:   10,

		CircuitBreakerEnabled:          false,
		CircuitBreakerFailThreshold:    5,
		CircuitBreakerSuccessThreshold: 2,
		CircuitBreakerTimeout:          30 * time.Second,

		Location: "Asia/Tokyo",
		LogLevel: "info",
	}
}

var validate = validator.New()

// Validate checks struct constraints and the cross-field rules validator tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.RateLimitRequests > 0 && c.RateLimitPeriod <= 0 {
		return errors.New("RateLimitPeriod must be positive when RateLimitRequests is set")
	}
	if c.CircuitBreakerEnabled {
		if c.CircuitBreakerFailThreshold <= 0 {
			return errors.New("CircuitBreakerFailThreshold must be positive when enabled")
		}
		if c.CircuitBreakerSuccessThreshold <= 0 {
			return errors.New("CircuitBreakerSuccessThreshold must be positive when enabled")
		}
		if c.CircuitBreakerTimeout <= 0 {
			return errors.New("CircuitBreakerTimeout must be positive when enabled")
		}
	}
	if _, err := time.LoadLocation(c.Location); err != nil {
		return fmt.Errorf("location %q: %w", c.Location, err)
	}
	return nil
}

// ReferenceLocation resolves Location. Call Validate first; an unknown zone falls back to UTC.
func (c *Config) ReferenceLocation() *time.Location {
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WorstCaseRetryLatency is the longest a call can spend sleeping between rate-limited attempts.
func (c *Config) WorstCaseRetryLatency() time.Duration {
	if c.MaxAttempts <= 1 {
		return 0
	}
	return time.Duration(c.MaxAttempts-1) * c.RetryInterval
}

// WithCredentials sets the API credentials and returns the config for chaining.
func (c *Config) WithCredentials(creds *Credentials) *Config {
	c.Credentials = creds
	return c
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithRetry sets the fixed retry interval and attempt budget and returns the config for chaining.
func (c *Config) WithRetry(interval time.Duration, maxAttempts int) *Config {
	c.RetryInterval = interval
	c.MaxAttempts = maxAttempts
	return c
}

// WithRateLimit sets the client-side pacing parameters and returns the config for chaining.
func (c *Config) WithRateLimit(requests int, period time.Duration) *Config {
	c.RateLimitRequests = requests
	c.RateLimitPeriod = period
	return c
}

// WithCircuitBreaker enables or disables the circuit breaker and returns the config for chaining.
func (c *Config) WithCircuitBreaker(enabled bool) *Config {
	c.CircuitBreakerEnabled = enabled
	return c
}

// WithBaseURLs overrides both endpoints and returns the config for chaining.
func (c *Config) WithBaseURLs(public, private string) *Config {
	c.PublicURL = public
	c.PrivateURL = private
	return c
}

// WithLocation sets the reference timezone and returns the config for chaining.
func (c *Config) WithLocation(name string) *Config {
	c.Location = name
	return c
}
