package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFile = "site"
	configType = "yaml"
)

// Load reads site.yaml from the project dir. A missing file yields the
// defaults, so a fresh checkout builds without any configuration.
func Load(projectDir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(configFile)
	v.SetConfigType(configType)
	v.AddConfigPath(projectDir)
	v.SetEnvPrefix("SITEGEN")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("title", "ResumeDJ")
	v.SetDefault("theme", "earthtone")
	v.SetDefault("output", "public")

	cfg := &Config{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to site.yaml in the project dir.
func Save(cfg *Config, projectDir string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return fmt.Errorf("create project dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType(configType)
	v.Set("title", cfg.Title)
	v.Set("theme", cfg.Theme)
	v.Set("output", cfg.Output)
	if len(cfg.Pages) > 0 {
		v.Set("pages", cfg.Pages)
	}
	if cfg.Deploy != (Deploy{}) {
		v.Set("deploy", cfg.Deploy)
	}
	if cfg.HistoryPath != "" {
		v.Set("history_path", cfg.HistoryPath)
	}

	path := filepath.Join(projectDir, configFile+"."+configType)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
