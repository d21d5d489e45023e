// Package config loads the trip planner's runtime configuration from a
// YAML file, with secrets (API keys) always coming from the environment
// rather than the file.
package config

import (
	"fmt"
	"os"
	"time"

	yaml "go.yaml.in/yaml/v2"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/oracle"
)

// ProviderConfig names which oracle adapter backs a tier and which model
// that adapter should request.
type ProviderConfig struct {
	Name  string `yaml:"name"`  // anthropic, openai, or google
	Model string `yaml:"model"`
}

// StoreConfig selects and parameterizes the checkpoint store backend.
type StoreConfig struct {
	Backend string `yaml:"backend"` // memory, sqlite, or mysql
	DSN     string `yaml:"dsn"`     // path (sqlite) or DSN (mysql); ignored for memory
}

// Config is the structure of the trip planner's YAML configuration file.
// API keys are never read from this struct's fields directly — Load always
// resolves them from the environment instead, so secrets never live on
// disk next to the rest of the configuration.
type Config struct {
	Providers struct {
		Capable   ProviderConfig `yaml:"capable"`
		Efficient ProviderConfig `yaml:"efficient"`
	} `yaml:"providers"`

	Store StoreConfig `yaml:"store"`

	DataSources struct {
		GoogleMapsAPIKeyEnv string `yaml:"google_maps_api_key_env"`
	} `yaml:"data_sources"`

	MaxReplanIterations int                `yaml:"max_replan_iterations"`
	MaxGraphSteps       int                `yaml:"max_graph_steps"`
	CacheTTLDefault     time.Duration      `yaml:"cache_ttl_default"`
	Temperature         map[string]float64 `yaml:"temperature"`
	ConcurrencyFanout   int                `yaml:"concurrency_fanout"`
	TimeoutOracle       time.Duration      `yaml:"timeout_oracle"`
	TimeoutScrape       time.Duration      `yaml:"timeout_scrape"`

	// resolvedAPIKeys holds the environment-sourced secrets for each
	// configured provider, keyed by provider name. Populated by Load, not
	// unmarshaled from YAML.
	resolvedAPIKeys map[string]string
}

// Defaults returns a Config populated with every value from the
// Configuration table, before a YAML file or environment overrides are
// applied.
func Defaults() Config {
	return Config{
		Store: StoreConfig{Backend: "memory"},
		Providers: struct {
			Capable   ProviderConfig `yaml:"capable"`
			Efficient ProviderConfig `yaml:"efficient"`
		}{
			Capable:   ProviderConfig{Name: "anthropic", Model: "claude-3-5-sonnet-20241022"},
			Efficient: ProviderConfig{Name: "anthropic", Model: "claude-3-5-haiku-20241022"},
		},
		MaxReplanIterations: 3,
		MaxGraphSteps:       40,
		CacheTTLDefault:     24 * time.Hour,
		Temperature: map[string]float64{
			"planner":          0.7,
			"geography":        0.2,
			"research":         0.3,
			"food_culture":     0.5,
			"transport_budget": 0.2,
			"critic":           0.1,
		},
		ConcurrencyFanout: 8,
		TimeoutOracle:     30 * time.Second,
		TimeoutScrape:     45 * time.Second,
	}
}

// providerAPIKeyEnvVar maps a provider name to the environment variable
// holding its API key.
var providerAPIKeyEnvVar = map[string]string{
	"anthropic": "ANTHROPIC_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"google":    "GOOGLE_API_KEY",
}

// Load reads and parses path, overlaying it onto Defaults(), then resolves
// every provider's API key from the environment. A missing file is not an
// error: the caller gets Defaults() with environment-resolved keys, so a
// deployment with no config file still runs off the documented defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config file %q: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %q: %w", path, err)
		}
	}

	cfg.resolvedAPIKeys = map[string]string{
		cfg.Providers.Capable.Name:   apiKeyFor(cfg.Providers.Capable.Name),
		cfg.Providers.Efficient.Name: apiKeyFor(cfg.Providers.Efficient.Name),
	}

	if cfg.MaxReplanIterations <= 0 {
		cfg.MaxReplanIterations = 3
	}
	if cfg.MaxGraphSteps <= 0 {
		cfg.MaxGraphSteps = 40
	}
	if cfg.ConcurrencyFanout <= 0 {
		cfg.ConcurrencyFanout = 8
	}
	if cfg.TimeoutOracle <= 0 {
		cfg.TimeoutOracle = 30 * time.Second
	}
	if cfg.TimeoutScrape <= 0 {
		cfg.TimeoutScrape = 45 * time.Second
	}
	if cfg.CacheTTLDefault <= 0 {
		cfg.CacheTTLDefault = 24 * time.Hour
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "memory"
	}

	return cfg, nil
}

func apiKeyFor(provider string) string {
	envVar, ok := providerAPIKeyEnvVar[provider]
	if !ok {
		return ""
	}
	return os.Getenv(envVar)
}

// APIKey returns the resolved API key for provider, or an empty string if
// the provider is unknown or the environment variable is unset.
func (c Config) APIKey(provider string) string {
	return c.resolvedAPIKeys[provider]
}

// GoogleMapsAPIKey returns the Places/geocoding API key, read from the
// configured environment variable (GOOGLE_MAPS_API_KEY if unset in the
// file).
func (c Config) GoogleMapsAPIKey() string {
	envVar := c.DataSources.GoogleMapsAPIKeyEnv
	if envVar == "" {
		envVar = "GOOGLE_MAPS_API_KEY"
	}
	return os.Getenv(envVar)
}

// Tiers builds an oracle.TierConfig from the per-worker defaults; the
// Configuration table has no per-worker tier override, so this always
// matches oracle.DefaultTierConfig(), kept as a method for symmetry with
// Temperature lookups and to give callers one place to override later.
func (c Config) Tiers() oracle.TierConfig {
	return oracle.DefaultTierConfig()
}

// TemperatureFor returns the configured temperature for worker, defaulting
// to 0.3 if the config and Defaults() both omit it.
func (c Config) TemperatureFor(worker string) float64 {
	if t, ok := c.Temperature[worker]; ok {
		return t
	}
	return 0.3
}
