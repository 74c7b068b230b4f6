package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"funding-rate-scanner/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Exchanges ExchangesConfig `mapstructure:"exchanges"`
	Scan      ScanConfig      `mapstructure:"scan"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Alerting  AlertingConfig  `mapstructure:"alerting"`
	Export    ExportConfig    `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// ExchangeConfig covers one exchange adapter.
type ExchangeConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Enabled        bool          `mapstructure:"enabled"`
}

// ExchangesConfig groups the per-exchange adapter settings.
type ExchangesConfig struct {
	Binance ExchangeConfig `mapstructure:"binance"`
	Bybit   ExchangeConfig `mapstructure:"bybit"`
	Delta   ExchangeConfig `mapstructure:"delta"`
	CoinDCX ExchangeConfig `mapstructure:"coindcx"`
}

// ScanConfig holds the detection defaults.
type ScanConfig struct {
	// Threshold is the default minimum funding-rate difference as a raw
	// decimal fraction (0.003 = 0.3%).
	Threshold float64 `mapstructure:"threshold"`
	// TopN bounds how many opportunities alerts and charts include.
	TopN int `mapstructure:"top_n"`
}

// SchedulerConfig governs watch-mode cadence.
type SchedulerConfig struct {
	Interval        time.Duration `mapstructure:"interval"`
	AlignToInterval bool          `mapstructure:"align_to_interval"`
	StartupDelay    time.Duration `mapstructure:"startup_delay"`
}

// AlertingConfig defines alert routing for watch mode.
type AlertingConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Channels []string       `mapstructure:"channels"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig 描述 Telegram 告警参数。
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxOpportunities int `mapstructure:"max_opportunities"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FUNDINGSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "fundingscan")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("exchanges.binance.base_url", "https://fapi.binance.com")
	v.SetDefault("exchanges.binance.request_timeout", "10s")
	v.SetDefault("exchanges.binance.enabled", true)

	v.SetDefault("exchanges.bybit.base_url", "https://api.bybit.com")
	v.SetDefault("exchanges.bybit.request_timeout", "10s")
	v.SetDefault("exchanges.bybit.enabled", true)

	v.SetDefault("exchanges.delta.base_url", "https://api.india.delta.exchange")
	v.SetDefault("exchanges.delta.request_timeout", "10s")
	v.SetDefault("exchanges.delta.enabled", true)

	v.SetDefault("exchanges.coindcx.base_url", "https://public.coindcx.com")
	v.SetDefault("exchanges.coindcx.request_timeout", "10s")
	v.SetDefault("exchanges.coindcx.enabled", true)

	v.SetDefault("scan.threshold", 0.003)
	v.SetDefault("scan.top_n", 10)

	v.SetDefault("scheduler.interval", "5m")
	v.SetDefault("scheduler.align_to_interval", true)
	v.SetDefault("scheduler.startup_delay", "0s")

	v.SetDefault("alerting.enabled", false)
	v.SetDefault("alerting.channels", []string{"telegram"})
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")

	v.SetDefault("export.max_opportunities", 15)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Scan.Threshold < 0 {
		return fmt.Errorf("scan.threshold cannot be negative")
	}
	if c.Scan.TopN <= 0 {
		return fmt.Errorf("scan.top_n must be greater than zero")
	}
	if c.Export.MaxOpportunities <= 0 {
		return fmt.Errorf("export.max_opportunities must be greater than zero")
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be greater than zero")
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return fmt.Errorf("alerting.telegram.bot_token 必须配置")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return fmt.Errorf("alerting.telegram.chat_id 必须配置")
		}
	}
	return nil
}

// ResolveMaxOpportunities returns either the CLI override or config default.
func (c *Config) ResolveMaxOpportunities(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxOpportunities
}
