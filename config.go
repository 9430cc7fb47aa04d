package cryptofolio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Balance file date formats. The snapshot time is appended to the balance
// spreadsheet name using one of these layouts.
const (
	BalanceDateFormatNew    = "new"    // 2006-01-02_15-04-05
	BalanceDateFormatLegacy = "legacy" // Monday-02-01-2006_15-04-05
)

var balanceDateLayouts = map[string]string{
	BalanceDateFormatNew:    "2006-01-02_15-04-05",
	BalanceDateFormatLegacy: "Monday-02-01-2006_15-04-05",
}

// Config is the configuration of a tracking run.
//
// It is loaded and validated once at startup, then passed down explicitly.
type Config struct {
	// QuoteAsset is the stable coin all pairs are quoted in.
	QuoteAsset string `yaml:"quote_asset"`
	// Symbols are base assets to track in addition to the ones found in the account.
	Symbols []string `yaml:"symbols"`
	// CostOffset is subtracted from the portfolio cost, see DefaultCostOffset.
	CostOffset float64 `yaml:"cost_offset"`
	// OutputDir is where every file is read and written.
	OutputDir string `yaml:"output_dir"`
	// ReplaceExisting overwrites output files, otherwise a timestamp suffix is added.
	ReplaceExisting bool `yaml:"replace_existing"`
	// BalanceDateFormat is either "new" or "legacy".
	BalanceDateFormat string `yaml:"balance_date_format"`
	// JournalPath is the sqlite database recording each run, empty disables it.
	JournalPath string `yaml:"journal_path"`

	Exchange ExchangeConfig `yaml:"exchange"`
}

// ExchangeConfig configures the exchange client.
type ExchangeConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	// RateLimit is the maximum number of requests per second.
	RateLimit float64 `yaml:"rate_limit"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		QuoteAsset:        DefaultQuoteAsset,
		CostOffset:        DefaultCostOffset.Decimal().InexactFloat64(),
		OutputDir:         ".",
		ReplaceExisting:   true,
		BalanceDateFormat: BalanceDateFormatNew,
		Exchange: ExchangeConfig{
			BaseURL:   "https://api3.binance.com",
			Timeout:   10 * time.Second,
			RateLimit: 10,
		},
	}
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
//
// A missing file yields the default configuration. Unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, cfg.Validate()
	}
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := cfg.decode(bytes.NewReader(content)); err != nil {
		return cfg, fmt.Errorf("parse config file %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the configuration for inconsistencies.
func (c Config) Validate() error {
	var errs error
	if c.QuoteAsset == "" {
		errs = errors.Join(errs, errors.New("quote_asset is required"))
	}
	if slices.Contains(c.Symbols, c.QuoteAsset) {
		errs = errors.Join(errs, fmt.Errorf("symbols cannot contain the quote asset %q", c.QuoteAsset))
	}
	if c.CostOffset < 0 {
		errs = errors.Join(errs, fmt.Errorf("cost_offset must be positive, got %v", c.CostOffset))
	}
	if c.OutputDir == "" {
		errs = errors.Join(errs, errors.New("output_dir is required"))
	}
	if _, ok := balanceDateLayouts[c.BalanceDateFormat]; !ok {
		errs = errors.Join(errs, fmt.Errorf("unknown balance_date_format %q, want %q or %q", c.BalanceDateFormat, BalanceDateFormatNew, BalanceDateFormatLegacy))
	}
	if c.Exchange.BaseURL == "" {
		errs = errors.Join(errs, errors.New("exchange.base_url is required"))
	}
	if c.Exchange.RateLimit <= 0 {
		errs = errors.Join(errs, fmt.Errorf("exchange.rate_limit must be positive, got %v", c.Exchange.RateLimit))
	}
	return errs
}

// Valuation returns the valuation options for this configuration.
func (c Config) Valuation() ValuationOptions {
	return ValuationOptions{
		QuoteAsset: c.QuoteAsset,
		CostOffset: M(c.CostOffset, c.QuoteAsset),
	}
}

// BalanceFileSuffix formats the snapshot time for the balance spreadsheet name.
func (c Config) BalanceFileSuffix(t time.Time) string {
	layout, ok := balanceDateLayouts[c.BalanceDateFormat]
	if !ok {
		layout = balanceDateLayouts[BalanceDateFormatNew]
	}
	return t.Local().Format(layout)
}

// Credentials are the exchange API credentials. They are never persisted.
type Credentials struct {
	APIKey    string
	SecretKey string
}

// Environment variables holding the credentials.
const (
	EnvAPIKey    = "API_KEY"
	EnvSecretKey = "SECRET_KEY"
)

// CredentialsFromEnv reads the credentials from the process environment.
func CredentialsFromEnv() (Credentials, error) {
	c := Credentials{
		APIKey:    os.Getenv(EnvAPIKey),
		SecretKey: os.Getenv(EnvSecretKey),
	}
	if c.APIKey == "" || c.SecretKey == "" {
		return c, fmt.Errorf("both %s and %s must be set", EnvAPIKey, EnvSecretKey)
	}
	return c, nil
}
