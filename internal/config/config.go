// Package config handles loading and validating the lingo configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/13anudhan2005-netizen/language-translator/internal/translator"
)

// Config is the root configuration.
type Config struct {
	Dispatcher DispatcherConfig           `mapstructure:"dispatcher"`
	Backends   []translator.ServiceConfig `mapstructure:"backends"`
	Speech     SpeechConfig               `mapstructure:"speech"`
	History    HistoryConfig              `mapstructure:"history"`
	Server     ServerConfig               `mapstructure:"server"`
	Logging    LoggingConfig              `mapstructure:"logging"`
}

type DispatcherConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`        // per-backend call bound
	DefaultSource string        `mapstructure:"default_source"` // used when detection fails
}

type SpeechConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type HistoryConfig struct {
	DisplayLimit int `mapstructure:"display_limit"`
	MaxEntries   int `mapstructure:"max_entries"`
}

type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	RateLimit      int           `mapstructure:"rate_limit"` // requests per minute per IP, 0 disables
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	MaxSessions    int           `mapstructure:"max_sessions"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"` // idle expiry, 0 disables
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// DefaultBackends is the keyless chain used when no backends are configured.
var DefaultBackends = []translator.ServiceConfig{
	{Kind: translator.KindGoogleWeb},
	{Kind: translator.KindMyMemory},
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./lingo.yaml, ./configs/lingo.yaml, /etc/lingo/lingo.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("dispatcher.timeout", "15s")
	v.SetDefault("dispatcher.default_source", "en")
	v.SetDefault("speech.enabled", true)
	v.SetDefault("speech.endpoint", "")
	v.SetDefault("speech.timeout", "20s")
	v.SetDefault("history.display_limit", 5)
	v.SetDefault("history.max_entries", 50)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate_limit", 60)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_sessions", 10000)
	v.SetDefault("server.session_ttl", "24h")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("lingo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/lingo")
	}

	// Environment variables: LINGO_DISPATCHER_TIMEOUT, LINGO_LOGGING_LEVEL, etc.
	v.SetEnvPrefix("LINGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if len(cfg.Backends) == 0 {
		cfg.Backends = append([]translator.ServiceConfig(nil), DefaultBackends...)
	}
	for i := range cfg.Backends {
		cfg.Backends[i].APIKey = resolveEnvRef(cfg.Backends[i].APIKey)
		cfg.Backends[i].Credentials = resolveEnvRef(cfg.Backends[i].Credentials)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that defaults cannot fix.
func (c *Config) Validate() error {
	if c.Dispatcher.Timeout <= 0 {
		return fmt.Errorf("dispatcher.timeout must be positive, got %s", c.Dispatcher.Timeout)
	}
	if c.History.DisplayLimit <= 0 {
		return fmt.Errorf("history.display_limit must be positive, got %d", c.History.DisplayLimit)
	}
	if c.History.MaxEntries < c.History.DisplayLimit {
		return fmt.Errorf("history.max_entries (%d) must be at least history.display_limit (%d)",
			c.History.MaxEntries, c.History.DisplayLimit)
	}
	if c.Server.MaxSessions <= 0 {
		return fmt.Errorf("server.max_sessions must be positive, got %d", c.Server.MaxSessions)
	}
	if c.Server.SessionTTL < 0 {
		return fmt.Errorf("server.session_ttl must not be negative, got %s", c.Server.SessionTTL)
	}
	seen := make(map[string]bool)
	for i, b := range c.Backends {
		if !isKnownKind(b.Kind) {
			return fmt.Errorf("backends[%d]: unknown kind %q (want one of %s)", i, b.Kind, strings.Join(translator.Kinds, ", "))
		}
		name := b.Name
		if name == "" {
			name = b.Kind
		}
		if seen[name] {
			return fmt.Errorf("backends[%d]: duplicate backend name %q", i, name)
		}
		seen[name] = true
	}
	return nil
}

func isKnownKind(kind string) bool {
	for _, k := range translator.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}

// NewLogger builds a zap logger from the logging section. "json" selects the
// production encoder; anything else logs human-readable lines to stderr.
func NewLogger(cfg LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	if strings.ToLower(cfg.Format) == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc.Build()
}
