// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"

	"github.com/iwvelando/mortgage-calc/pkg/constants"
	"github.com/iwvelando/mortgage-calc/pkg/schedule"
	"github.com/iwvelando/mortgage-calc/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for mortgage-calc.
type Configuration struct {
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Server  ServerConfig  `yaml:"server,omitempty"`
	Limits  LimitsConfig  `yaml:"limits,omitempty"`
	Loan    *LoanConfig   `yaml:"loan,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// ServerConfig holds runtime parameters for the HTTP server.
type ServerConfig struct {
	Address      string          `yaml:"address,omitempty"`
	CacheAddr    string          `yaml:"cacheAddr,omitempty"` // redis address; empty selects the in-memory cache
	MaxBodyBytes int64           `yaml:"maxBodyBytes,omitempty"`
	RateLimit    RateLimitConfig `yaml:"rateLimit,omitempty"`
}

// RateLimitConfig holds per-client rate limiting parameters. Zero requests
// disables rate limiting.
type RateLimitConfig struct {
	Requests      int `yaml:"requests,omitempty"`
	WindowSeconds int `yaml:"windowSeconds,omitempty"`
}

// LimitsConfig bounds the loan parameters accepted from callers.
type LimitsConfig struct {
	MaxPrincipal   float64 `yaml:"maxPrincipal,omitempty"`
	MaxTermYears   int     `yaml:"maxTermYears,omitempty"`
	MaxRatePercent float64 `yaml:"maxRatePercent,omitempty"`
	MaxPrepayments int     `yaml:"maxPrepayments,omitempty"`
}

// LoanConfig describes a one-shot CLI calculation.
type LoanConfig struct {
	Amount       float64               `yaml:"amount"`
	Years        int                   `yaml:"years"`
	Installment  bool                  `yaml:"installment,omitempty"`
	InterestRate float64               `yaml:"interestRate,omitempty"`
	Strategy     string                `yaml:"strategy,omitempty"`
	Prepayments  []schedule.Prepayment `yaml:"prepayments,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyDefaults()
	return &configuration, nil
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from an
// arbitrary reader; useful for tests and request-supplied configs.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyDefaults()
	return &configuration, nil
}

func (conf *Configuration) applyDefaults() {
	if conf.Server.Address == "" {
		conf.Server.Address = constants.DefaultServerAddress
	}
	if conf.Server.MaxBodyBytes <= 0 {
		conf.Server.MaxBodyBytes = constants.DefaultMaxBodyBytes
	}
	if conf.Server.RateLimit.Requests < 0 {
		conf.Server.RateLimit.Requests = 0
	}
	if conf.Server.RateLimit.Requests > 0 && conf.Server.RateLimit.WindowSeconds <= 0 {
		conf.Server.RateLimit.WindowSeconds = constants.DefaultRateLimitWindowSeconds
	}
	if conf.Limits.MaxPrincipal <= 0 {
		conf.Limits.MaxPrincipal = constants.DefaultMaxPrincipal
	}
	if conf.Limits.MaxTermYears <= 0 {
		conf.Limits.MaxTermYears = constants.DefaultMaxTermYears
	}
	if conf.Limits.MaxRatePercent <= 0 {
		conf.Limits.MaxRatePercent = constants.DefaultMaxRatePercent
	}
	if conf.Limits.MaxPrepayments <= 0 {
		conf.Limits.MaxPrepayments = constants.DefaultMaxPrepayments
	}
}

// ValidationLimits maps the configured limits onto the validation package.
func (conf *Configuration) ValidationLimits() validation.Limits {
	return validation.Limits{
		MaxPrincipal:   conf.Limits.MaxPrincipal,
		MaxTermYears:   conf.Limits.MaxTermYears,
		MaxRatePercent: conf.Limits.MaxRatePercent,
		MaxPrepayments: conf.Limits.MaxPrepayments,
	}
}

// EffectiveRate resolves the annual rate for a one-shot loan; installment
// loans are always interest-free.
func (loan *LoanConfig) EffectiveRate() float64 {
	if loan.Installment {
		return 0.00
	}
	return loan.InterestRate
}
