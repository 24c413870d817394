package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// AnalyticsConfig tunes the revenue/risk scoring engine. The defaults match
// the product's published scoring rules; operators may override them through
// an analytics.yml config file without redeploying.
type AnalyticsConfig struct {
	OverdueInvoiceWeight float64 `mapstructure:"overdueInvoiceWeight"`
	PausedClientWeight   float64 `mapstructure:"pausedClientWeight"`
	InactivityStep       float64 `mapstructure:"inactivityStep"`
	InactivityWindowDays float64 `mapstructure:"inactivityWindowDays"`
	HighRiskThreshold    float64 `mapstructure:"highRiskThreshold"`
	TopClientLimit       int     `mapstructure:"topClientLimit"`
	ForecastMonths       int     `mapstructure:"forecastMonths"`
	UpcomingWindowDays   int     `mapstructure:"upcomingWindowDays"`
}

func DefaultAnalyticsConfig() AnalyticsConfig {
	return AnalyticsConfig{
		OverdueInvoiceWeight: 25,
		PausedClientWeight:   20,
		InactivityStep:       10,
		InactivityWindowDays: 30,
		HighRiskThreshold:    50,
		TopClientLimit:       5,
		ForecastMonths:       6,
		UpcomingWindowDays:   90,
	}
}

// AnalyticsConfigHolder hot-swaps the active analytics config on file change.
type AnalyticsConfigHolder struct {
	current atomic.Value // holds AnalyticsConfig
}

func NewAnalyticsConfigHolder() (*AnalyticsConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("analytics")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/clientdesk/config")
	v.AddConfigPath("/etc/clientdesk")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CLIENTDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultAnalyticsConfig()
		v.SetDefault("analytics.overdueInvoiceWeight", defaults.OverdueInvoiceWeight)
		v.SetDefault("analytics.pausedClientWeight", defaults.PausedClientWeight)
		v.SetDefault("analytics.inactivityStep", defaults.InactivityStep)
		v.SetDefault("analytics.inactivityWindowDays", defaults.InactivityWindowDays)
		v.SetDefault("analytics.highRiskThreshold", defaults.HighRiskThreshold)
		v.SetDefault("analytics.topClientLimit", defaults.TopClientLimit)
		v.SetDefault("analytics.forecastMonths", defaults.ForecastMonths)
		v.SetDefault("analytics.upcomingWindowDays", defaults.UpcomingWindowDays)
	}

	holder := &AnalyticsConfigHolder{}
	if err := holder.reload(v); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if err := holder.reload(v); err != nil {
			log.Printf("analytics config reload failed: %v", err)
		}
	})
	v.WatchConfig()

	return holder, nil
}

func (h *AnalyticsConfigHolder) reload(v *viper.Viper) error {
	var cfg AnalyticsConfig
	if err := v.UnmarshalKey("analytics", &cfg); err != nil {
		return err
	}
	cfg = sanitizeAnalyticsConfig(cfg)
	h.current.Store(cfg)
	return nil
}

// Current returns the active analytics config.
func (h *AnalyticsConfigHolder) Current() AnalyticsConfig {
	if value, ok := h.current.Load().(AnalyticsConfig); ok {
		return value
	}
	return DefaultAnalyticsConfig()
}

// Set swaps the active config. Intended for tests.
func (h *AnalyticsConfigHolder) Set(cfg AnalyticsConfig) {
	h.current.Store(sanitizeAnalyticsConfig(cfg))
}

func sanitizeAnalyticsConfig(cfg AnalyticsConfig) AnalyticsConfig {
	defaults := DefaultAnalyticsConfig()
	if cfg.OverdueInvoiceWeight <= 0 {
		cfg.OverdueInvoiceWeight = defaults.OverdueInvoiceWeight
	}
	if cfg.PausedClientWeight <= 0 {
		cfg.PausedClientWeight = defaults.PausedClientWeight
	}
	if cfg.InactivityStep <= 0 {
		cfg.InactivityStep = defaults.InactivityStep
	}
	if cfg.InactivityWindowDays <= 0 {
		cfg.InactivityWindowDays = defaults.InactivityWindowDays
	}
	if cfg.HighRiskThreshold <= 0 {
		cfg.HighRiskThreshold = defaults.HighRiskThreshold
	}
	if cfg.TopClientLimit <= 0 {
		cfg.TopClientLimit = defaults.TopClientLimit
	}
	if cfg.ForecastMonths <= 0 {
		cfg.ForecastMonths = defaults.ForecastMonths
	}
	if cfg.UpcomingWindowDays <= 0 {
		cfg.UpcomingWindowDays = defaults.UpcomingWindowDays
	}
	return cfg
}
