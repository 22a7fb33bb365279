// Package config loads the build-time configuration resources an engine
// needs before it can be constructed (AccountsPerThread, ThreadsPerDevice,
// RiskFreeRate, StartingBalance, and so on) from a config file, env vars,
// or flags, using github.com/spf13/viper.
package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// EngineBuild holds every required build-time resource an engine needs
// before construction. Money-denominated fields are loaded as
// decimal.Decimal for precise config parsing and then converted to
// float32 once, at the Resources-bag boundary — the hot path never
// touches decimal.Decimal.
type EngineBuild struct {
	AccountsPerThread  int             `mapstructure:"accounts_per_thread"`
	ThreadsPerDevice   int             `mapstructure:"threads_per_device"`
	ThreadID           int             `mapstructure:"thread_id"`
	NSamples           int             `mapstructure:"n_samples"`
	RiskFreeRate       decimal.Decimal `mapstructure:"risk_free_rate"`
	TradingDaysPerYear decimal.Decimal `mapstructure:"trading_days_per_year"`
	StartingBalance    decimal.Decimal `mapstructure:"starting_balance"`
	SlippageKind       string          `mapstructure:"slippage_kind"`
	SlippageValue      decimal.Decimal `mapstructure:"slippage_value"`
	FeeRate            decimal.Decimal `mapstructure:"fee_rate"`
}

// Load reads configuration from path (any format viper supports — YAML,
// TOML, JSON, .env) plus BACKTEST_-prefixed environment overrides, and
// decodes it into an EngineBuild. An empty path skips the file read
// entirely and resolves defaults plus environment overrides only — the
// demo harness in cmd/backtest-runner uses this to run without a
// config file on disk.
func Load(path string) (*EngineBuild, error) {
	v := viper.New()
	v.SetEnvPrefix("BACKTEST")
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg EngineBuild
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook)); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("accounts_per_thread", 1)
	v.SetDefault("threads_per_device", 1)
	v.SetDefault("thread_id", 0)
	v.SetDefault("n_samples", 4096)
	v.SetDefault("risk_free_rate", "0")
	v.SetDefault("trading_days_per_year", "252")
	v.SetDefault("starting_balance", "1")
	v.SetDefault("slippage_kind", "relative")
	v.SetDefault("slippage_value", "0")
	v.SetDefault("fee_rate", "0")
}

// RiskFreeRateF32 converts RiskFreeRate to the float32 the hot path uses.
func (c *EngineBuild) RiskFreeRateF32() float32 {
	v, _ := c.RiskFreeRate.Float64()
	return float32(v)
}

// TradingDaysPerYearF32 converts TradingDaysPerYear to float32.
func (c *EngineBuild) TradingDaysPerYearF32() float32 {
	v, _ := c.TradingDaysPerYear.Float64()
	return float32(v)
}

// StartingBalanceF32 converts StartingBalance to float32.
func (c *EngineBuild) StartingBalanceF32() float32 {
	v, _ := c.StartingBalance.Float64()
	return float32(v)
}

// SlippageValueF32 converts SlippageValue to float32.
func (c *EngineBuild) SlippageValueF32() float32 {
	v, _ := c.SlippageValue.Float64()
	return float32(v)
}

// FeeRateF32 converts FeeRate to float32.
func (c *EngineBuild) FeeRateF32() float32 {
	v, _ := c.FeeRate.Float64()
	return float32(v)
}
