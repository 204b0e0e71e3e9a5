package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/oleg578/csvrecord"
)

// GetDefaultConfig returns the configuration used when nothing else is set.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Reader: ReaderConfig{Header: true},
		Writer: WriterConfig{Header: true},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets default values for any unspecified configuration fields.
// Zero values are replaced; explicit values are preserved. Booleans are
// defaulted through viper because false is a meaningful setting.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyDialectDefaults(&cfg.Dialect)
	applyReaderDefaults(&cfg.Reader)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "WARN"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	// stdout carries command output
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

func applyDialectDefaults(cfg *DialectConfig) {
	if cfg.Separator == 0 {
		cfg.Separator = csvrecord.DefaultSeparator
	}
	if cfg.Enclosure == 0 {
		cfg.Enclosure = csvrecord.DefaultEnclosure
	}
	if cfg.FromEncoding == "" {
		cfg.FromEncoding = csvrecord.DefaultEncoding
	}
	if cfg.ToEncoding == "" {
		cfg.ToEncoding = csvrecord.DefaultEncoding
	}
}

func applyReaderDefaults(cfg *ReaderConfig) {
	if cfg.Lock == "" {
		cfg.Lock = "auto"
	}
	cfg.Lock = strings.ToLower(cfg.Lock)
}

// setViperDefaults registers every key so environment variables bind even
// without a config file.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "WARN")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("dialect.separator", string(rune(csvrecord.DefaultSeparator)))
	v.SetDefault("dialect.enclosure", string(rune(csvrecord.DefaultEnclosure)))
	v.SetDefault("dialect.escape", "")
	v.SetDefault("dialect.from_encoding", csvrecord.DefaultEncoding)
	v.SetDefault("dialect.to_encoding", csvrecord.DefaultEncoding)

	v.SetDefault("reader.header", true)
	v.SetDefault("reader.lock", "auto")

	v.SetDefault("writer.header", true)
	v.SetDefault("writer.bom", "")
	v.SetDefault("writer.crlf", false)
}
