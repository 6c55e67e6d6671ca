package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the workplace server configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Workday struct {
		// ShiftScheduler enables cron-driven workday activation from shifts.
		ShiftScheduler bool `yaml:"shift_scheduler"`
	} `yaml:"workday"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var c Config
	c.Server.Addr = "127.0.0.1:7430"
	c.Database.Path = "./data/workplace.db"
	c.Workday.ShiftScheduler = true
	return c
}

// Load reads a YAML config file with environment variable expansion,
// falling back to defaults when the file does not exist.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}
