package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Game        GameConfig        `mapstructure:"game"`
	Registry    RegistryConfig    `mapstructure:"registry"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Development DevelopmentConfig `mapstructure:"development"`
}

// GameConfig holds game mechanics configuration
type GameConfig struct {
	Map      MapConfig      `mapstructure:"map"`
	Match    MatchConfig    `mapstructure:"match"`
	FogOfWar FogOfWarConfig `mapstructure:"fog_of_war"`
}

// MapConfig holds map generation settings
type MapConfig struct {
	Width  int         `mapstructure:"width"`
	Height int         `mapstructure:"height"`
	Seed   int64       `mapstructure:"seed"` // 0 picks a random seed
	Noise  NoiseConfig `mapstructure:"noise"`
	Roads  bool        `mapstructure:"roads"`
	Roster []string    `mapstructure:"roster"`
}

// NoiseConfig holds terrain noise settings. Levels are thresholds on the
// normalized noise value.
type NoiseConfig struct {
	Octaves     int     `mapstructure:"octaves"`
	Frequency   float64 `mapstructure:"frequency"`
	Persistence float64 `mapstructure:"persistence"`
	WaterLevel  float64 `mapstructure:"water_level"`
	HillLevel   float64 `mapstructure:"hill_level"`
	TreeLevel   float64 `mapstructure:"tree_level"`
}

// MatchConfig holds match settings
type MatchConfig struct {
	Players            int `mapstructure:"players"`
	UnitsPerPlayer     int `mapstructure:"units_per_player"`
	MaxTurns           int `mapstructure:"max_turns"`
	MaxCommandsPerTurn int `mapstructure:"max_commands_per_turn"`
}

// FogOfWarConfig holds fog of war settings
type FogOfWarConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// RegistryConfig points at a unit type file. An empty path uses the built-in
// unit types.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DevelopmentConfig holds development/debug settings
type DevelopmentConfig struct {
	VerboseLogging bool `mapstructure:"verbose_logging"`
	LogEvents      bool `mapstructure:"log_events"`
}

var (
	// Global config instance. A reload swaps the pointer under mu, so a
	// *Config returned by Get is never modified by the watcher.
	cfg *Config
	v   *viper.Viper
	mu  sync.RWMutex
)

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Map defaults
	v.SetDefault("game.map.width", 16)
	v.SetDefault("game.map.height", 12)
	v.SetDefault("game.map.seed", 0)
	v.SetDefault("game.map.noise.octaves", 4)
	v.SetDefault("game.map.noise.frequency", 0.12)
	v.SetDefault("game.map.noise.persistence", 0.5)
	v.SetDefault("game.map.noise.water_level", 0.3)
	v.SetDefault("game.map.noise.hill_level", 0.68)
	v.SetDefault("game.map.noise.tree_level", 0.6)
	v.SetDefault("game.map.roads", true)
	v.SetDefault("game.map.roster", []string{"soldier", "soldier", "machine_gunner", "jeep", "tank"})

	// Match defaults
	v.SetDefault("game.match.players", 2)
	v.SetDefault("game.match.units_per_player", 5)
	v.SetDefault("game.match.max_turns", 100)
	v.SetDefault("game.match.max_commands_per_turn", 200)

	v.SetDefault("game.fog_of_war.enabled", true)

	v.SetDefault("registry.path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Development defaults
	v.SetDefault("development.verbose_logging", false)
	v.SetDefault("development.log_events", false)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/hextactics")
	}

	v.SetEnvPrefix("HXT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing explicit file falls back to defaults; for the default
		// locations only ConfigFileNotFoundError is ignored
		var notFound viper.ConfigFileNotFoundError
		if configPath == "" && !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	loaded := &Config{}
	if err := v.Unmarshal(loaded); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(loaded); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	swap(loaded)
	return nil
}

// Get returns the global config instance
func Get() *Config {
	mu.RLock()
	c := cfg
	mu.RUnlock()
	if c != nil {
		return c
	}

	// Initialize with defaults if not already initialized
	if err := Init(""); err != nil {
		panic("failed to initialize config with defaults: " + err.Error())
	}
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded config
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	merged := &Config{}
	if err := v.Unmarshal(merged); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}
	if err := Validate(merged); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	swap(merged)
	return nil
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	// Re-unmarshal to update struct
	updated := &Config{}
	if err := v.Unmarshal(updated); err == nil {
		swap(updated)
	}
}

func swap(next *Config) {
	mu.Lock()
	cfg = next
	mu.Unlock()
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

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return v.GetFloat64(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of config file. A reloaded config that
// fails validation is reported to onChange and the previous one stays active.
func WatchConfig(onChange func(*Config, error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		err := v.Unmarshal(next)
		if err == nil {
			err = Validate(next)
		}
		if err != nil {
			if onChange != nil {
				onChange(nil, fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}

		swap(next)
		if onChange != nil {
			onChange(next, nil)
		}
	})
	v.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	// Validate map generation
	if c.Game.Map.Width <= 0 || c.Game.Map.Height <= 0 {
		return fmt.Errorf("game.map dimensions must be positive")
	}
	if len(c.Game.Map.Roster) == 0 {
		return fmt.Errorf("game.map.roster must not be empty")
	}
	noise := c.Game.Map.Noise
	if noise.Octaves < 1 {
		return fmt.Errorf("game.map.noise.octaves must be at least 1")
	}
	if noise.Frequency <= 0 {
		return fmt.Errorf("game.map.noise.frequency must be positive")
	}
	if noise.Persistence <= 0 || noise.Persistence > 1 {
		return fmt.Errorf("game.map.noise.persistence must be between 0 and 1")
	}
	for name, level := range map[string]float64{
		"water_level": noise.WaterLevel,
		"hill_level":  noise.HillLevel,
		"tree_level":  noise.TreeLevel,
	} {
		if level < 0 || level > 1 {
			return fmt.Errorf("game.map.noise.%s must be between 0 and 1", name)
		}
	}
	if noise.WaterLevel > noise.HillLevel {
		return fmt.Errorf("game.map.noise.water_level must not exceed hill_level")
	}

	// Validate match settings
	if c.Game.Match.Players < 2 || c.Game.Match.Players > 4 {
		return fmt.Errorf("game.match.players must be between 2 and 4")
	}
	if c.Game.Match.UnitsPerPlayer < 1 {
		return fmt.Errorf("game.match.units_per_player must be at least 1")
	}
	if c.Game.Match.MaxTurns < 1 {
		return fmt.Errorf("game.match.max_turns must be at least 1")
	}
	if c.Game.Match.MaxCommandsPerTurn < 1 {
		return fmt.Errorf("game.match.max_commands_per_turn must be at least 1")
	}

	// Validate logging
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level %q is not one of trace, debug, info, warn, error", c.Logging.Level)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be console or json")
	}

	return nil
}
