package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Predictor modes
const (
	PredictorModeLocal  = "local"
	PredictorModeRemote = "remote"
)

// Local predictor strategies
const (
	StrategyHunt   = "hunt"
	StrategyRandom = "random"
)

// Config holds all configuration for the application
type Config struct {
	Game        GameConfig        `mapstructure:"game"`
	Predictor   PredictorConfig   `mapstructure:"predictor"`
	Experience  ExperienceConfig  `mapstructure:"experience"`
	Server      ServerConfig      `mapstructure:"server"`
	Development DevelopmentConfig `mapstructure:"development"`
}

// GameConfig holds engine settings
type GameConfig struct {
	// Seed for board generation; 0 seeds from the clock
	Seed         int64 `mapstructure:"seed"`
	StreamBuffer int   `mapstructure:"stream_buffer"`
}

// PredictorConfig selects and tunes the agent's move predictor
type PredictorConfig struct {
	Mode             string `mapstructure:"mode"`
	Strategy         string `mapstructure:"strategy"`
	Address          string `mapstructure:"address"`
	TimeoutMs        int    `mapstructure:"timeout_ms"`
	MonitorIntervalS int    `mapstructure:"monitor_interval_s"`
}

// Timeout returns the per-call predictor deadline
func (p PredictorConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutMs) * time.Millisecond
}

// MonitorInterval returns how often predictor call metrics are checked
func (p PredictorConfig) MonitorInterval() time.Duration {
	return time.Duration(p.MonitorIntervalS) * time.Second
}

// ExperienceConfig controls collection of training transitions
type ExperienceConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	BufferCapacity int  `mapstructure:"buffer_capacity"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	PredictorServer PredictorServerConfig `mapstructure:"predictor_server"`
	CLI             CLIConfig             `mapstructure:"cli"`
}

// PredictorServerConfig holds gRPC predictor server configuration
type PredictorServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	LogLevel              string `mapstructure:"log_level"`
	EnableReflection      bool   `mapstructure:"enable_reflection"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
}

// CLIConfig holds terminal client configuration
type CLIConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// DevelopmentConfig holds development/debug settings
type DevelopmentConfig struct {
	VerboseLogging   bool `mapstructure:"verbose_logging"`
	RevealAgentBoard bool `mapstructure:"reveal_agent_board"`
	ShowCoordinates  bool `mapstructure:"show_coordinates"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Game defaults
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.stream_buffer", 16)

	// Predictor defaults
	v.SetDefault("predictor.mode", PredictorModeLocal)
	v.SetDefault("predictor.strategy", StrategyHunt)
	v.SetDefault("predictor.address", "localhost:50061")
	v.SetDefault("predictor.timeout_ms", 2000)
	v.SetDefault("predictor.monitor_interval_s", 30)

	// Experience defaults
	v.SetDefault("experience.enabled", true)
	v.SetDefault("experience.buffer_capacity", 10000)

	// Predictor server defaults
	v.SetDefault("server.predictor_server.host", "0.0.0.0")
	v.SetDefault("server.predictor_server.port", 50061)
	v.SetDefault("server.predictor_server.log_level", "info")
	v.SetDefault("server.predictor_server.enable_reflection", true)
	v.SetDefault("server.predictor_server.graceful_shutdown_delay", 5)

	// CLI defaults
	v.SetDefault("server.cli.log_level", "warn")
	v.SetDefault("server.cli.log_format", "console")

	// Development defaults
	v.SetDefault("development.verbose_logging", false)
	v.SetDefault("development.reveal_agent_board", false)
	v.SetDefault("development.show_coordinates", true)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/plane-strike")
	}

	v.SetEnvPrefix("PSRL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing explicit file falls back to defaults; other read errors do not
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath == "" {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig loads environment-specific config overlay
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}

	return Validate(cfg)
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	_ = v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. onChange receives
// the freshly decoded config; invalid edits are ignored.
func WatchConfig(onChange func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		if err := v.Unmarshal(next); err != nil {
			return
		}
		if err := Validate(next); err != nil {
			return
		}
		*cfg = *next
		if onChange != nil {
			onChange(next)
		}
	})
	v.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Game.Seed < 0 {
		return fmt.Errorf("game.seed must be non-negative")
	}
	if c.Game.StreamBuffer <= 0 {
		return fmt.Errorf("game.stream_buffer must be positive")
	}

	switch c.Predictor.Mode {
	case PredictorModeLocal:
		switch c.Predictor.Strategy {
		case StrategyHunt, StrategyRandom:
		default:
			return fmt.Errorf("predictor.strategy must be %q or %q, got %q", StrategyHunt, StrategyRandom, c.Predictor.Strategy)
		}
	case PredictorModeRemote:
		if c.Predictor.Address == "" {
			return fmt.Errorf("predictor.address is required in remote mode")
		}
	default:
		return fmt.Errorf("predictor.mode must be %q or %q, got %q", PredictorModeLocal, PredictorModeRemote, c.Predictor.Mode)
	}
	if c.Predictor.TimeoutMs <= 0 {
		return fmt.Errorf("predictor.timeout_ms must be positive")
	}
	if c.Predictor.MonitorIntervalS <= 0 {
		return fmt.Errorf("predictor.monitor_interval_s must be positive")
	}

	if c.Experience.Enabled && c.Experience.BufferCapacity <= 0 {
		return fmt.Errorf("experience.buffer_capacity must be positive")
	}

	if c.Server.PredictorServer.Port <= 0 || c.Server.PredictorServer.Port > 65535 {
		return fmt.Errorf("server.predictor_server.port must be between 1 and 65535")
	}
	if c.Server.PredictorServer.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.predictor_server.graceful_shutdown_delay must be non-negative")
	}

	switch c.Server.CLI.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("server.cli.log_format must be console or json")
	}

	return nil
}
