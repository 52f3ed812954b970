// Package main provides a command-line client for the GMO Coin REST API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"gmocoin/pkg/core"
	"gmocoin/pkg/exchange/gmocoin"
)

// Environment variables read when no config file provides credentials.
const (
	envAPIKey    = "GMO_API_KEY"
	envSecretKey = "GMO_API_SECRET"
)

type app struct {
	configPath string
	publicURL  string
	privateURL string
	logLevel   string
	timeout    time.Duration
	jsonOutput bool

	out io.Writer
	err io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, err: errOut}

	root := &cobra.Command{
		Use:   "gmocoin",
		Short: "GMO Coin REST API client",
		Long: `A command-line client for the GMO Coin public and private REST APIs.

Private commands need credentials, either from the config file or from:
  GMO_API_KEY     - API key
  GMO_API_SECRET  - API secret`,
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file")
	flags.StringVar(&a.publicURL, "public-url", "", "override the public API base URL")
	flags.StringVar(&a.privateURL, "private-url", "", "override the private API base URL")
	flags.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")
	flags.DurationVar(&a.timeout, "timeout", 30*time.Second, "overall command timeout")
	flags.BoolVar(&a.jsonOutput, "json", false, "print the raw decoded response as JSON")

	root.AddCommand(
		a.statusCmd(),
		a.tickerCmd(),
		a.orderBookCmd(),
		a.tradesCmd(),
		a.marginCmd(),
		a.assetsCmd(),
		a.ordersCmd(),
		a.positionsCmd(),
		a.cancelCmd(),
	)
	return root
}

// loadConfig layers the config file, flag overrides and environment credentials.
func (a *app) loadConfig() (*core.Config, error) {
	cfg := core.DefaultConfig()
	if a.configPath != "" {
		loaded, err := core.LoadConfig(a.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if a.publicURL != "" || a.privateURL != "" {
		public, private := cfg.PublicURL, cfg.PrivateURL
		if a.publicURL != "" {
			public = a.publicURL
		}
		if a.privateURL != "" {
			private = a.privateURL
		}
		cfg.WithBaseURLs(public, private)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}

	if cfg.Credentials == nil {
		key, secret := os.Getenv(envAPIKey), os.Getenv(envSecretKey)
		if key != "" && secret != "" {
			cfg.WithCredentials(&core.Credentials{APIKey: key, SecretKey: secret})
		}
	}
	return cfg, nil
}

func (a *app) newClient() (*gmocoin.GMOExchange, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: a.err, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	return gmocoin.New(cfg, gmocoin.WithLogger(logger))
}

// run creates a client for one command and closes it afterwards.
func (a *app) run(fn func(ctx context.Context, g *gmocoin.GMOExchange) error) error {
	g, err := a.newClient()
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer g.Close()

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	return fn(ctx, g)
}

func (a *app) printJSON(v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}
