package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/bgmtv/bangumi"
)

// EnvPrefix prefixes environment overrides, e.g. BGMTV_API_TOKEN
const EnvPrefix = "BGMTV"

// Load loads the configuration. An explicit configPath must exist; when it
// is empty the standard locations are searched and a missing file leaves
// the defaults in place.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".bgmtv"))
		}
		v.AddConfigPath("/etc/bgmtv/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadDotEnv exports the variables of a .env file into the process
// environment so they reach Load as BGMTV_* overrides. Variables already
// set in the environment win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("error loading env file: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", bangumi.DefaultBaseURL)
	v.SetDefault("api.user_agent", bangumi.DefaultUserAgent)
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", bangumi.DefaultTimeout)

	v.SetDefault("output.format", "text")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL: %q", cfg.API.BaseURL)
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive: %s", cfg.API.Timeout)
	}

	validOutputs := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validOutputs[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s", cfg.Output.Format)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	for name, expression := range cfg.Filter.Presets {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filter preset %q has an empty expression", name)
		}
	}

	return nil
}
