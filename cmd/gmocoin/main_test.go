package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmocoin/pkg/core"
	"gmocoin/pkg/exchange/gmocoin"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/public/v1/status", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":0,"data":{"status":"OPEN"},"responsetime":"2019-03-19T02:15:06.001Z"}`))
	})
	mux.HandleFunc("/public/v1/ticker", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BTC", r.URL.Query().Get("symbol"))
		_, _ = w.Write([]byte(`{"status":0,"data":[{"ask":"750760","bid":"750600","high":"762302","last":"756662","low":"704874","symbol":"BTC","timestamp":"2018-03-30T12:34:56.789Z","volume":"194785.8484"}],"responsetime":"2019-03-19T02:15:06.001Z"}`))
	})
	mux.HandleFunc("/private/v1/cancelOrder", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "env-key", r.Header.Get(gmocoin.HeaderAPIKey))
		assert.NotEmpty(t, r.Header.Get(gmocoin.HeaderAPISign))
		_, _ = w.Write([]byte(`{"status":0,"responsetime":"2019-03-19T01:07:24.557Z"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(append([]string{"--public-url", srv.URL + "/public", "--private-url", srv.URL + "/private"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestStatusCommand(t *testing.T) {
	srv := newAPIServer(t)

	out, err := execute(t, srv, "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Status: OPEN")
	assert.Contains(t, out, "JST")
}

func TestTickerCommand(t *testing.T) {
	srv := newAPIServer(t)

	out, err := execute(t, srv, "ticker", "btc")

	require.NoError(t, err)
	assert.Contains(t, out, "SYMBOL")
	assert.Contains(t, out, "756662")
	assert.Contains(t, out, "194785.8484")
}

func TestTickerCommand_JSON(t *testing.T) {
	srv := newAPIServer(t)

	out, err := execute(t, srv, "--json", "ticker", "BTC")

	require.NoError(t, err)
	assert.Contains(t, out, `"symbol": "BTC"`)
}

func TestPrivateCommand_NoCredentials(t *testing.T) {
	t.Setenv(envAPIKey, "")
	t.Setenv(envSecretKey, "")
	srv := newAPIServer(t)

	_, err := execute(t, srv, "margin")

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNoCredentials)
}

func TestCancelCommand(t *testing.T) {
	t.Setenv(envAPIKey, "env-key")
	t.Setenv(envSecretKey, "env-secret")
	srv := newAPIServer(t)

	out, err := execute(t, srv, "cancel", "42")

	require.NoError(t, err)
	assert.Equal(t, "Order 42 cancelled\n", out)

	_, err = execute(t, srv, "cancel", "abc")
	assert.ErrorContains(t, err, "invalid order id")

	_, err = execute(t, srv, "cancel", "0")
	assert.True(t, core.IsValidationError(err))
}

func TestLoadConfig_FileAndOverrides(t *testing.T) {
	t.Setenv(envAPIKey, "env-key")
	t.Setenv(envSecretKey, "env-secret")

	path := filepath.Join(t.TempDir(), "gmocoin.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_attempts: 3\nlocation: UTC\n"), 0o600))

	a := &app{configPath: path, publicURL: "http://localhost:1/public", logLevel: "debug"}
	cfg, err := a.loadConfig()

	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, "UTC", cfg.Location)
	assert.Equal(t, "http://localhost:1/public", cfg.PublicURL)
	assert.Equal(t, core.DefaultPrivateURL, cfg.PrivateURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.NotNil(t, cfg.Credentials)
	assert.Equal(t, "env-key", cfg.Credentials.APIKey)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	a := &app{configPath: filepath.Join(t.TempDir(), "missing.yaml")}

	_, err := a.loadConfig()

	assert.ErrorContains(t, err, "read config file")
}
