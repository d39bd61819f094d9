package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Port    int    `yaml:"port"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Database struct {
		Dialect string `yaml:"dialect"`
		Source  string `yaml:"source"`
	} `yaml:"database"`
	Staff struct {
		Username    string `yaml:"username"`
		Password    string `yaml:"password"`
		TokenSecret string `yaml:"token_secret"`
	} `yaml:"staff"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 5000
	cfg.Metrics.Enabled = true
	cfg.Metrics.Port = 9090
	cfg.Metrics.Path = "/metrics"
	cfg.Database.Dialect = "sqlite3"
	cfg.Database.Source = "qrmenu.db"
	// Demo credentials carried over from the dashboard login; hardening the
	// staff authentication is out of scope.
	cfg.Staff.Username = "staff"
	cfg.Staff.Password = "password123"
	cfg.Staff.TokenSecret = "qrmenu-dev-secret"
	return cfg
}

// Load reads the YAML configuration at path, falling back to defaults for a
// missing file or any unset field.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	return cfg, nil
}
