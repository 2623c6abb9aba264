// Package config loads the YAML configuration file. API keys are never kept
// in the file itself; providers name the env var holding their key.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration unmarshals YAML strings like "30s" or "5m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Redis      RedisConfig      `yaml:"redis"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Cache      CacheConfig      `yaml:"cache"`
	Aggregator AggregatorConfig `yaml:"aggregator"`
	API        APIConfig        `yaml:"api"`
	Providers  []ProviderConfig `yaml:"providers"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"` // REDIS_PASSWORD env overrides
	DB       int    `yaml:"db"`
}

type PostgresConfig struct {
	DSN              string `yaml:"dsn"`
	SnapshotsEnabled bool   `yaml:"snapshots_enabled"`
}

type TelegramConfig struct {
	BotToken          string  `yaml:"bot_token"` // TELEGRAM_BOT_TOKEN env overrides
	ChatID            int64   `yaml:"chat_id"`
	ValueAlertPercent float64 `yaml:"value_alert_percent"` // 0 disables value alerts
}

type SchedulerConfig struct {
	Interval         Duration `yaml:"interval"`
	FetchTimeout     Duration `yaml:"fetch_timeout"`
	Concurrency      int      `yaml:"concurrency"`
	FailureThreshold int      `yaml:"failure_threshold"`
	BaseBackoff      Duration `yaml:"base_backoff"`
	MaxBackoff       Duration `yaml:"max_backoff"`
	RateLimitTrip    int64    `yaml:"rate_limit_trip"` // 429s before forced backoff
}

type CacheConfig struct {
	TTL        Duration `yaml:"ttl"`
	FailureTTL Duration `yaml:"failure_ttl"`
}

type AggregatorConfig struct {
	// FuzzyJoin groups records by normalized team names + kickoff instead of
	// provider-native event ids. Off by default: provider ids differ per
	// source, so cross-provider merges only happen with this enabled.
	FuzzyJoin bool `yaml:"fuzzy_join"`
	// Watch lists (sport, league) queries evaluated every scheduler interval
	// for snapshot persistence and value alerts.
	Watch []WatchConfig `yaml:"watch"`
}

type WatchConfig struct {
	Sport  string `yaml:"sport"`
	League string `yaml:"league"`
}

type APIConfig struct {
	Addr              string   `yaml:"addr"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout"`
}

type ProviderConfig struct {
	ID          string   `yaml:"id"`
	Host        string   `yaml:"host"`
	AuthMethod  string   `yaml:"auth_method"` // query, header, none
	AuthParam   string   `yaml:"auth_param"`
	KeyEnvVar   string   `yaml:"key_env_var"`
	Endpoints   []string `yaml:"endpoints"`
	FixtureOnly bool     `yaml:"fixture_only"`
}

// Load reads and parses the config file, then applies defaults.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.applyDefaults()

	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		config.Redis.Password = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		config.Telegram.BotToken = v
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Scheduler.Interval <= 0 {
		c.Scheduler.Interval = Duration(60 * time.Second)
	}
	if c.Scheduler.FetchTimeout <= 0 {
		c.Scheduler.FetchTimeout = Duration(15 * time.Second)
	}
	if c.Scheduler.Concurrency <= 0 {
		c.Scheduler.Concurrency = 4
	}
	if c.Scheduler.FailureThreshold <= 0 {
		c.Scheduler.FailureThreshold = 3
	}
	if c.Scheduler.BaseBackoff <= 0 {
		c.Scheduler.BaseBackoff = Duration(30 * time.Second)
	}
	if c.Scheduler.MaxBackoff <= 0 {
		c.Scheduler.MaxBackoff = Duration(30 * time.Minute)
	}
	if c.Scheduler.RateLimitTrip <= 0 {
		c.Scheduler.RateLimitTrip = 5
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = Duration(5 * time.Minute)
	}
	if c.Cache.FailureTTL <= 0 {
		c.Cache.FailureTTL = Duration(time.Hour)
	}
	if c.API.Addr == "" {
		c.API.Addr = ":8090"
	}
	if c.API.ReadHeaderTimeout <= 0 {
		c.API.ReadHeaderTimeout = Duration(5 * time.Second)
	}
}
