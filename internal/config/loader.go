package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/xeipuuv/gojsonschema"
)

// configName is the config file name without extension.
const configName = ".sloppy"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for sloppy settings.
const envPrefix = "SLOPPY"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

//go:embed schema.json
var configSchema []byte

// Load loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	validateErr := validateSettings(viperCfg.AllSettings())
	if validateErr != nil {
		return nil, validateErr
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	return &cfg, nil
}

// validateSettings checks the merged settings against the embedded JSON
// schema before unmarshalling, so typos in keys and wrong value types fail
// with field-level messages instead of silent zero values.
func validateSettings(settings map[string]any) error {
	schemaLoader := gojsonschema.NewBytesLoader(configSchema)
	settingsLoader := gojsonschema.NewGoLoader(settings)

	result, err := gojsonschema.Validate(schemaLoader, settingsLoader)
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		details = append(details, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(details, "; "))
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("languages", []string{})
	viperCfg.SetDefault("axes", []string{})
	viperCfg.SetDefault("disabled_patterns", []string{})
	viperCfg.SetDefault("severity_floor", "")
	viperCfg.SetDefault("workers", 0)
	viperCfg.SetDefault("wall_budget", "")

	viperCfg.SetDefault("duplicates.window_size", 0)
	viperCfg.SetDefault("duplicates.min_span_lines", 0)
	viperCfg.SetDefault("duplicates.keep_identifiers", false)

	viperCfg.SetDefault("thresholds.max_function_statements", 0)
	viperCfg.SetDefault("thresholds.max_class_methods", 0)
	viperCfg.SetDefault("thresholds.max_nesting_depth", 0)
}
