package gmocoin

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"gmocoin/pkg/core"
)

// Authentication header names.
const (
	HeaderAPIKey       = "API-KEY"
	HeaderAPITimestamp = "API-TIMESTAMP"
	HeaderAPISign      = "API-SIGN"
)

// Sign returns the hex HMAC-SHA256 of timestamp+method+path+body keyed by secret.
// The query string is not part of the signed text.
func Sign(secret, timestamp, method, path string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte(method))
	mac.Write([]byte(path))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Timestamp formats t the way the exchange expects: whole seconds followed by "000".
// It looks like milliseconds but carries only second precision.
func Timestamp(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10) + "000"
}

// Signer produces the authentication headers of private calls.
type Signer struct {
	creds core.Credentials
	now   func() time.Time
}

// NewSigner returns a Signer reading the time from now, or time.Now when nil.
func NewSigner(creds core.Credentials, now func() time.Time) (*Signer, error) {
	if creds.APIKey == "" || creds.SecretKey == "" {
		return nil, errors.New("api key and secret key are required")
	}
	if now == nil {
		now = time.Now
	}
	return &Signer{creds: creds, now: now}, nil
}

// Headers signs one attempt. It never fails; the error return matches executor.SignFunc.
func (s *Signer) Headers(method, path string, body []byte) (map[string]string, error) {
	ts := Timestamp(s.now())
	return map[string]string{
		HeaderAPIKey:       s.creds.APIKey,
		HeaderAPITimestamp: ts,
		HeaderAPISign:      Sign(s.creds.SecretKey, ts, method, path, body),
	}, nil
}
