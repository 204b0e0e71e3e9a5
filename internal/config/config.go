// Package config loads csvrecord command settings from a YAML file,
// CSVRECORD_* environment variables and built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/oleg578/csvrecord"
)

// Config represents the csvrecord command configuration.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (CSVRECORD_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Dialect describes the input files
	Dialect DialectConfig `mapstructure:"dialect" yaml:"dialect"`

	// Reader controls header handling and locking when reading
	Reader ReaderConfig `mapstructure:"reader" yaml:"reader"`

	// Writer controls the output of the convert command
	Writer WriterConfig `mapstructure:"writer" yaml:"writer"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// DialectConfig holds the characters and encodings of a CSV dialect.
type DialectConfig struct {
	Separator Char `mapstructure:"separator" validate:"required,nefield=Enclosure" yaml:"separator"`
	Enclosure Char `mapstructure:"enclosure" validate:"required" yaml:"enclosure"`

	// Escape is optional; empty means enclosures are escaped by doubling
	Escape Char `mapstructure:"escape" yaml:"escape"`

	// FromEncoding is the encoding of the file, ToEncoding the encoding of produced values
	FromEncoding string `mapstructure:"from_encoding" validate:"required" yaml:"from_encoding"`
	ToEncoding   string `mapstructure:"to_encoding" validate:"required" yaml:"to_encoding"`
}

// ReaderConfig controls how files are opened.
type ReaderConfig struct {
	// Header treats the first record as column names
	Header bool `mapstructure:"header" yaml:"header"`

	// Lock selects the shared-lock policy
	// Valid values: auto, required, never
	Lock string `mapstructure:"lock" validate:"required,oneof=auto required never" yaml:"lock"`
}

// WriterConfig controls how files are written.
type WriterConfig struct {
	// Header writes a header line inferred from the first keyed record
	Header bool `mapstructure:"header" yaml:"header"`

	// BOM is a symbolic name (UTF-8, UTF-16LE, ...) or a literal prefix; empty writes none
	BOM string `mapstructure:"bom" yaml:"bom,omitempty"`

	// CRLF terminates lines with \r\n
	CRLF bool `mapstructure:"crlf" yaml:"crlf"`
}

// Build returns the csvrecord.Dialect described by c.
func (c DialectConfig) Build() (*csvrecord.Dialect, error) {
	return csvrecord.NewDialect(
		csvrecord.WithSeparator(c.Separator.Byte()),
		csvrecord.WithEnclosure(c.Enclosure.Byte()),
		csvrecord.WithEscape(c.Escape.Byte()),
		csvrecord.WithEncoding(c.FromEncoding, c.ToEncoding),
	)
}

// LockPolicy maps the configured lock mode onto csvrecord.LockPolicy.
func (c ReaderConfig) LockPolicy() csvrecord.LockPolicy {
	switch strings.ToLower(c.Lock) {
	case "required":
		return csvrecord.LockRequired
	case "never":
		return csvrecord.LockNever
	default:
		return csvrecord.LockIfSupported
	}
}

// Load loads configuration from file, environment, and defaults.
//
// An empty configPath uses the default location; a missing file is not an
// error and leaves defaults and environment variables in effect.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags and confirms the dialect can be built.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return err
	}
	if _, err := cfg.Dialect.Build(); err != nil {
		return err
	}
	return nil
}

// SaveConfig saves the configuration to the specified file path in YAML format.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// InitConfig writes the default configuration to the default location and returns its path.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	return path, InitConfigToPath(path, force)
}

// InitConfigToPath writes the default configuration to path.
// An existing file is only replaced when force is set.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}
	}
	return SaveConfig(GetDefaultConfig(), path)
}

// setupViper configures viper with defaults, environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	setViperDefaults(v)

	// Example: CSVRECORD_DIALECT_SEPARATOR=";"
	v.SetEnvPrefix("CSVRECORD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
// Returns (fileFound, error) where fileFound indicates if a config file was found.
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	return true, nil
}

// configDecodeHooks returns a combined decode hook for all custom types.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		charDecodeHook(),
	)
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to current
// directory (.) if home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "csvrecord")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "csvrecord")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists checks if a config file exists at the default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}
