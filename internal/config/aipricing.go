package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// ModelPrice is the charge applied for one metered completion with a paid model.
// Models absent from the pricing table are free.
type ModelPrice struct {
	Model string  `mapstructure:"model"`
	Cost  float64 `mapstructure:"cost"`
}

type AIPricingConfig struct {
	Models []ModelPrice `mapstructure:"models"`
}

func DefaultAIPricingConfig() AIPricingConfig {
	return AIPricingConfig{
		Models: []ModelPrice{
			{Model: "Go AI", Cost: 500},
		},
	}
}

// AIPricingHolder serves the current pricing table and hot-reloads it when the
// backing file changes.
type AIPricingHolder struct {
	current atomic.Value // holds AIPricingConfig
}

func NewAIPricingHolder() (*AIPricingHolder, error) {
	v := viper.New()

	v.SetConfigName("aipricing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/fitracker/config")
	v.AddConfigPath("/etc/fitracker")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FITRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := DefaultAIPricingConfig()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	} else if err := v.UnmarshalKey("pricing", &cfg); err != nil {
		return nil, err
	}
	if err := validateAIPricingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &AIPricingHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated AIPricingConfig
		if err := v.UnmarshalKey("pricing", &updated); err != nil {
			log.Printf("[aipricing] reload failed: %v", err)
			return
		}
		if err := validateAIPricingConfig(updated); err != nil {
			log.Printf("[aipricing] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[aipricing] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *AIPricingHolder) Get() AIPricingConfig {
	return h.current.Load().(AIPricingConfig)
}

// CostFor returns the charge for a model and whether the model is metered.
func (h *AIPricingHolder) CostFor(model string) (decimal.Decimal, bool) {
	model = strings.TrimSpace(model)
	if model == "" {
		return decimal.Zero, false
	}
	for _, price := range h.Get().Models {
		if strings.EqualFold(price.Model, model) {
			return decimal.NewFromFloat(price.Cost), true
		}
	}
	return decimal.Zero, false
}

func validateAIPricingConfig(cfg AIPricingConfig) error {
	for _, price := range cfg.Models {
		if strings.TrimSpace(price.Model) == "" {
			return errors.New("pricing.models entries need a model name")
		}
		if price.Cost <= 0 {
			return errors.New("pricing.models cost must be positive")
		}
	}
	return nil
}
