// Config loading for the compass CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/compass/internal/engine"
	"github.com/mesh-intelligence/compass/internal/journey"
	"github.com/mesh-intelligence/compass/internal/logging"
	"github.com/mesh-intelligence/compass/internal/selector"
	"github.com/mesh-intelligence/compass/pkg/compass"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "COMPASS"

	cfgKeyCatalogDir       = "catalog_dir"
	cfgKeyCatalogFormat    = "catalog_format"
	cfgKeyMaxFrameworks    = "max_frameworks"
	cfgKeyHorizonMonths    = "horizon_months"
	cfgKeyJourneyPoolSize  = "journey_pool_size"
	cfgKeyPhaseCapacity    = "phase_capacity"
	cfgKeyMinScore         = "min_score"
	cfgKeyLogLevel         = "log_level"
	cfgKeyBatchConcurrency = "batch_concurrency"

	defaultBatchConcurrency = 4
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Compass CLI configuration.
# Every key can be overridden with a COMPASS_<KEY> environment variable.

# Catalog source: auto, builtin, yaml or jsonl. auto picks jsonl when
# catalog_dir holds frameworks.jsonl, yaml when it holds *.yaml files, and
# the built-in catalog when no directory is configured.
catalog_format: auto
# catalog_dir:

max_frameworks: 5
horizon_months: 12
journey_pool_size: 15
phase_capacity: 3
min_score: 0

log_level: warn
batch_concurrency: 4
`

// settings is the typed view of config.yaml.
type settings struct {
	CatalogDir       string
	CatalogFormat    string
	MaxFrameworks    int
	HorizonMonths    int
	JourneyPoolSize  int
	PhaseCapacity    int
	MinScore         float64
	LogLevel         string
	BatchConcurrency int
}

// loadConfig reads config.yaml from the config directory using Viper. It
// creates the directory and a default config.yaml on first run. A missing
// config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyCatalogFormat, compass.FormatAuto)
	v.SetDefault(cfgKeyMaxFrameworks, selector.DefaultMaxFrameworks)
	v.SetDefault(cfgKeyHorizonMonths, journey.DefaultHorizonMonths)
	v.SetDefault(cfgKeyJourneyPoolSize, journey.DefaultPoolSize)
	v.SetDefault(cfgKeyPhaseCapacity, journey.DefaultPhaseCapacity)
	v.SetDefault(cfgKeyMinScore, engine.DefaultMinScore)
	v.SetDefault(cfgKeyLogLevel, logging.DefaultLevel)
	v.SetDefault(cfgKeyBatchConcurrency, defaultBatchConcurrency)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

func settingsFrom(v *viper.Viper) settings {
	return settings{
		CatalogDir:       v.GetString(cfgKeyCatalogDir),
		CatalogFormat:    strings.ToLower(v.GetString(cfgKeyCatalogFormat)),
		MaxFrameworks:    v.GetInt(cfgKeyMaxFrameworks),
		HorizonMonths:    v.GetInt(cfgKeyHorizonMonths),
		JourneyPoolSize:  v.GetInt(cfgKeyJourneyPoolSize),
		PhaseCapacity:    v.GetInt(cfgKeyPhaseCapacity),
		MinScore:         v.GetFloat64(cfgKeyMinScore),
		LogLevel:         v.GetString(cfgKeyLogLevel),
		BatchConcurrency: v.GetInt(cfgKeyBatchConcurrency),
	}
}

func (s settings) validate() error {
	switch s.CatalogFormat {
	case "", compass.FormatAuto, compass.FormatBuiltin, compass.FormatYAML, compass.FormatJSONL:
	default:
		return fmt.Errorf("%s: unknown catalog format %q", cfgKeyCatalogFormat, s.CatalogFormat)
	}
	if (s.CatalogFormat == compass.FormatYAML || s.CatalogFormat == compass.FormatJSONL) && s.CatalogDir == "" {
		return fmt.Errorf("%s %q needs %s", cfgKeyCatalogFormat, s.CatalogFormat, cfgKeyCatalogDir)
	}
	if s.MinScore < 0 || s.MinScore > 1 {
		return fmt.Errorf("%s: %v outside [0,1]", cfgKeyMinScore, s.MinScore)
	}
	if s.BatchConcurrency < 0 {
		return fmt.Errorf("%s must not be negative", cfgKeyBatchConcurrency)
	}
	return nil
}
