package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	configFile string
}

// NewLoader creates a configuration loader. An empty configFile searches
// ~/.detach/config.yml; a missing default file is not an error, a missing
// explicit file is.
func NewLoader(configFile string) Loader {
	return &loader{
		configFile: configFile,
	}
}

func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		path, err := ExpandHome(l.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(defaultDir())
	}

	v.SetEnvPrefix("DETACH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("log.file")
	v.BindEnv("log.level")
	v.BindEnv("log.format")
	v.BindEnv("daemon.null_device")
	v.BindEnv("daemon.failure_code")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var err error
	if cfg.Log.File, err = ExpandHome(cfg.Log.File); err != nil {
		return nil, fmt.Errorf("failed to expand log file path: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)

	v.SetDefault("daemon.null_device", defaults.Daemon.NullDevice)
	v.SetDefault("daemon.failure_code", defaults.Daemon.FailureCode)
}
