package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. CSDOCS_DB_PATH
const EnvPrefix = "CSDOCS"

// DefaultDBPath is the default location for the database
const DefaultDBPath = "~/.csdocs/csdocs.db"

// Config represents the csdocs configuration
type Config struct {
	DBPath   string         `mapstructure:"db_path"`
	Workers  int            `mapstructure:"workers"`
	Log      LogConfig      `mapstructure:"log"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Extract  ExtractConfig  `mapstructure:"extract"`
	Search   SearchConfig   `mapstructure:"search"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ResolverConfig represents identifier resolution configuration
type ResolverConfig struct {
	StrictOverloads bool `mapstructure:"strict_overloads"`
}

// ExtractConfig represents extraction configuration
type ExtractConfig struct {
	ValidateReferences bool `mapstructure:"validate_references"`
}

// SearchConfig represents search configuration
type SearchConfig struct {
	CacheSize int `mapstructure:"cache_size"`
}

// New returns a viper instance with defaults, config file lookup and
// environment overrides set up. Callers may bind flags onto it before Load.
func New() *viper.Viper {
	v := viper.New()

	// Set defaults
	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("workers", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("resolver.strict_overloads", false)
	v.SetDefault("extract.validate_references", false)
	v.SetDefault("search.cache_size", 1000)

	// Set config name and paths
	v.SetConfigName("csdocs")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Enable environment variable support
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the configuration. An explicit file must exist; without one,
// csdocs.yaml in the working directory is used when present.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	path, err := expandHome(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	cfg.DBPath = path
	return &cfg, nil
}

// expandHome replaces a leading ~ with the user's home directory
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got: %d", cfg.Workers)
	}
	if cfg.Search.CacheSize <= 0 {
		return fmt.Errorf("search.cache_size must be positive, got: %d", cfg.Search.CacheSize)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got: %s", cfg.Log.Format)
	}
	return nil
}
