package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const DefaultPrompt = "%s $ "

type Config struct {
	Prompt  string `yaml:"prompt"`
	HomeDir string `yaml:"home_dir"`
	EnvFile string `yaml:"env_file"`
	Debug   bool   `yaml:"debug"`
}

// Load reads file. A missing file gives the defaults.
func Load(file string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(file)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
	}

	if cfg.HomeDir == "" {
		cfg.HomeDir, err = os.UserHomeDir()
		if err != nil {
			return nil, err
		}
	}

	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}

	return cfg, nil
}

// LoadEnv exports the variables of the configured env file. Variables that
// are already set keep their value.
func (c *Config) LoadEnv() error {
	if c.EnvFile == "" {
		return nil
	}
	if err := godotenv.Load(c.EnvFile); err != nil {
		return fmt.Errorf("load env file %s: %w", c.EnvFile, err)
	}
	return nil
}
