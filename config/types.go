package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Output  OutputConfig  `mapstructure:"output"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds bgm.tv connection details
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Token     string        `mapstructure:"token"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// OutputConfig controls how command results are printed
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// FilterConfig contains named filter expressions usable with --preset
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
