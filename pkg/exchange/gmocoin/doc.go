// Package gmocoin implements the exchange interfaces for GMO Coin's public and
// private REST APIs.
//
// Private calls are signed with HMAC-SHA256 over timestamp, method, path and
// the exact body bytes that are sent. Calls rejected with ERR-5003 are retried
// at a fixed interval; every other failure is returned to the caller as a
// *core.ExchangeError.
//
// GMO Coin API Documentation: https://api.coin.z.com/docs/
package gmocoin
