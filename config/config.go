// Package config loads the stx configuration from defaults, a .env file,
// STX_* environment variables and an optional config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/etnz/statement"
	"github.com/etnz/statement/formula"
	"github.com/etnz/statement/pdftable"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, like STX_MIN_FILLED.
const EnvPrefix = "STX"

// Output extensions supported by the extract command.
var OutputExtensions = []string{".xlsx", ".csv", ".jsonl"}

// Config holds the application configuration.
type Config struct {
	Marker         string   `mapstructure:"marker"`
	PayloadCell    int      `mapstructure:"payload_cell"`
	MinCells       int      `mapstructure:"min_cells"`
	MinFilled      int      `mapstructure:"min_filled"`
	Columns        []string `mapstructure:"columns"`
	Signature      []string `mapstructure:"signature"`
	QuantityField  string   `mapstructure:"quantity_field"`
	AmountField    string   `mapstructure:"amount_field"`
	DateField      string   `mapstructure:"date_field"`
	SpecialSymbols []string `mapstructure:"special_symbols"`
	Currency       string   `mapstructure:"currency"`

	Exchange         string `mapstructure:"exchange"`
	FallbackExchange string `mapstructure:"fallback_exchange"`
	MarketOpen       int    `mapstructure:"market_open"`
	MarketClose      int    `mapstructure:"market_close"`

	OutputExt   string  `mapstructure:"output_ext"`
	SheetName   string  `mapstructure:"sheet_name"`
	TablesPath  string  `mapstructure:"tables_path"`
	GeminiModel string  `mapstructure:"gemini_model"`
	PDFGap      float64 `mapstructure:"pdf_gap"`

	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`
}

func setDefaults(v *viper.Viper) {
	o := statement.DefaultOptions()
	p := formula.DefaultPricer()
	v.SetDefault("marker", o.Classifier.Marker)
	v.SetDefault("payload_cell", o.Classifier.PayloadCell)
	v.SetDefault("min_cells", o.Classifier.MinCells)
	v.SetDefault("min_filled", o.MinFilled)
	v.SetDefault("columns", o.Columns.Names())
	v.SetDefault("signature", o.Signature[:])
	v.SetDefault("quantity_field", o.QuantityField)
	v.SetDefault("amount_field", o.AmountField)
	v.SetDefault("date_field", o.DateField)
	v.SetDefault("special_symbols", o.Cleaner.Special)
	v.SetDefault("currency", o.Currency)
	v.SetDefault("exchange", p.Exchange)
	v.SetDefault("fallback_exchange", p.Fallback)
	v.SetDefault("market_open", p.OpenHour)
	v.SetDefault("market_close", p.CloseHour)
	v.SetDefault("output_ext", ".xlsx")
	v.SetDefault("sheet_name", "Transactions")
	v.SetDefault("tables_path", "$.pages[*].tables")
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("pdf_gap", pdftable.DefaultGap)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", true)
}

// Load reads the configuration. path is an optional yaml, json or toml file
// whose values override the environment.
func Load(path string) (*Config, error) {
	// a missing .env file is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Marker) == "" {
		return fmt.Errorf("marker is required")
	}
	if c.PayloadCell < 0 {
		return fmt.Errorf("payload_cell must be >= 0, got %d", c.PayloadCell)
	}
	if c.MinCells < 0 {
		return fmt.Errorf("min_cells must be >= 0, got %d", c.MinCells)
	}
	if c.MinFilled < 1 {
		return fmt.Errorf("min_filled must be >= 1, got %d", c.MinFilled)
	}
	if len(c.Columns) == 0 {
		return fmt.Errorf("columns must not be empty")
	}
	if len(c.Signature) != 0 && len(c.Signature) != 2 {
		return fmt.Errorf("signature must have 2 fields, got %d", len(c.Signature))
	}
	if c.MarketOpen < 0 || c.MarketClose > 24 || c.MarketOpen >= c.MarketClose {
		return fmt.Errorf("invalid market hours [%d, %d)", c.MarketOpen, c.MarketClose)
	}
	if c.PDFGap <= 0 {
		return fmt.Errorf("pdf_gap must be > 0, got %v", c.PDFGap)
	}
	if !validExt(c.OutputExt) {
		return fmt.Errorf("output_ext must be one of %v, got %q", OutputExtensions, c.OutputExt)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

func validExt(ext string) bool {
	for _, e := range OutputExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Options returns the extraction options, logging to log.
func (c *Config) Options(log zerolog.Logger) statement.Options {
	o := statement.DefaultOptions()
	o.Classifier = statement.Classifier{Marker: c.Marker, PayloadCell: c.PayloadCell, MinCells: c.MinCells}
	o.Cleaner = statement.SymbolCleaner{Marker: c.Marker, Special: c.SpecialSymbols}
	o.Columns = statement.ColumnsOf(c.Columns...)
	o.MinFilled = c.MinFilled
	o.Signature = [2]string{}
	if len(c.Signature) == 2 {
		o.Signature = [2]string{c.Signature[0], c.Signature[1]}
	}
	o.QuantityField = c.QuantityField
	o.AmountField = c.AmountField
	o.DateField = c.DateField
	o.Currency = c.Currency
	o.Log = log
	return o
}

// Pricer returns the price formula builder.
func (c *Config) Pricer() formula.Pricer {
	return formula.Pricer{
		Exchange:  c.Exchange,
		Fallback:  c.FallbackExchange,
		OpenHour:  c.MarketOpen,
		CloseHour: c.MarketClose,
	}
}
