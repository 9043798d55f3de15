package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/open-telco/telebill/pkg/logger"
	"github.com/open-telco/telebill/pkg/utils"
)

// Config is the process-wide configuration, loaded once at startup.
type Config struct {
	ServerName string `env:"SERVER_NAME"`
	Mode       string `env:"MODE"`
	DBDriver   string `env:"DB_DRIVER"`
	DSN        string `env:"DSN"`
	Log        logger.LogConfig

	// RatePlans maps plan names to per-second rates. Immutable for the
	// lifetime of the process; FallbackPlan names the plan whose rate is
	// applied when a customer carries an unknown plan name.
	RatePlans    map[string]decimal.Decimal
	FallbackPlan string `env:"FALLBACK_PLAN"`

	// SelectionDelayMS is the debounce window distinguishing a single
	// click from the first half of a double click.
	SelectionDelayMS int `env:"SELECTION_DELAY_MS"`

	BillingSchedule string `env:"BILLING_SCHEDULE"`
	BillingAutoRun  bool   `env:"BILLING_AUTO_RUN"`
}

var GlobalConfig *Config

// Load fills GlobalConfig from the environment. Every key has a default so
// the process starts without a .env file.
func Load() error {
	env := os.Getenv("APP_ENV")
	if err := utils.LoadEnv(env); err != nil {
		log.Printf("Note: .env file not found or failed to load: %v (using default values)", err)
	}

	ratePlans, err := parseRatePlans(getStringOrDefault("RATE_PLANS", "Standard=0.05,Premium=0.03,Business=0.08"))
	if err != nil {
		return err
	}
	fallbackPlan := getStringOrDefault("FALLBACK_PLAN", "Standard")
	if _, ok := ratePlans[fallbackPlan]; !ok {
		return fmt.Errorf("fallback plan %q is not in RATE_PLANS", fallbackPlan)
	}

	GlobalConfig = &Config{
		ServerName: getStringOrDefault("SERVER_NAME", "telebill"),
		Mode:       getStringOrDefault("MODE", "development"),
		DBDriver:   getStringOrDefault("DB_DRIVER", "sqlite"),
		DSN:        getStringOrDefault("DSN", "./telebill.db"),
		Log: logger.LogConfig{
			Level:      getStringOrDefault("LOG_LEVEL", "info"),
			Filename:   getStringOrDefault("LOG_FILENAME", ""),
			MaxSize:    getIntOrDefault("LOG_MAX_SIZE", 100),
			MaxAge:     getIntOrDefault("LOG_MAX_AGE", 30),
			MaxBackups: getIntOrDefault("LOG_MAX_BACKUPS", 5),
			Daily:      getBoolOrDefault("LOG_DAILY", true),
		},
		RatePlans:        ratePlans,
		FallbackPlan:     fallbackPlan,
		SelectionDelayMS: getIntOrDefault("SELECTION_DELAY_MS", 250),
		BillingSchedule:  getStringOrDefault("BILLING_SCHEDULE", "0 3 1 * *"),
		BillingAutoRun:   getBoolOrDefault("BILLING_AUTO_RUN", false),
	}
	return nil
}

// parseRatePlans parses "Name=rate,Name=rate" pairs.
func parseRatePlans(raw string) (map[string]decimal.Decimal, error) {
	plans := make(map[string]decimal.Decimal)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, rate, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("invalid RATE_PLANS entry %q, expected name=rate", pair)
		}
		d, err := decimal.NewFromString(strings.TrimSpace(rate))
		if err != nil {
			return nil, fmt.Errorf("invalid rate for plan %q: %w", name, err)
		}
		if !d.IsPositive() {
			return nil, fmt.Errorf("rate for plan %q must be positive", name)
		}
		plans[strings.TrimSpace(name)] = d
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("RATE_PLANS must define at least one plan")
	}
	return plans, nil
}

func getStringOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		return cast.ToInt(v)
	}
	return def
}

func getBoolOrDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		return cast.ToBool(v)
	}
	return def
}
