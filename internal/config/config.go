package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ErrInvalidConfig wraps validation failures.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds application configuration.
type Config struct {
	Storage StorageConfig
	Catalog CatalogConfig
	Import  ImportConfig
	Export  ExportConfig
	UI      UIConfig
	Log     LogConfig
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend string `validate:"oneof=sqlite file"`
	Path    string `validate:"required"`
	Key     string `validate:"required"`
}

// CatalogConfig points at an optional YAML catalog; empty means built-in.
type CatalogConfig struct {
	Path string
}

// ImportConfig controls CSV imports.
type ImportConfig struct {
	// TrustPositions keeps imported positions exactly as written, even when
	// they leave gaps or ties. When false, imports are renumbered to 1..K.
	TrustPositions bool `mapstructure:"trust_positions"`
}

// ExportConfig controls CSV exports.
type ExportConfig struct {
	Dir string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	HighlightTop int `mapstructure:"highlight_top" validate:"gte=0"`
	Mouse        bool
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `validate:"omitempty,oneof=trace debug info warn error disabled"`
	Format string `validate:"omitempty,oneof=json console"`
	Path   string
}

var validate = validator.New()

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "valuesort")
}

func configPath() string {
	if p := os.Getenv("VALUESORT_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "valuesort", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix
// VALUESORT_, e.g. VALUESORT_STORAGE_BACKEND=file.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.path", filepath.Join(dataDir(), "valuesort.db"))
	v.SetDefault("storage.key", "life-values-sorting")
	v.SetDefault("catalog.path", "")
	v.SetDefault("import.trust_positions", false)
	v.SetDefault("export.dir", ".")
	v.SetDefault("ui.highlight_top", 7)
	v.SetDefault("ui.mouse", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.path", filepath.Join(dataDir(), "valuesort.log"))

	v.SetConfigType("toml")

	v.SetConfigFile(configPath())

	v.SetEnvPrefix("VALUESORT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
