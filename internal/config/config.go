package config

import "time"

// Config holds the reqspy configuration. CLI flags override these values.
type Config struct {
	Port       int           `yaml:"port"`
	Latency    time.Duration `yaml:"latency"`
	ErrorRate  float64       `yaml:"error_rate"`
	CORSOrigin string        `yaml:"cors_origin"`
	Journal    string        `yaml:"journal"` // sqlite path; empty disables the journal
	Output     string        `yaml:"output"`  // text, json
	Color      bool          `yaml:"color"`
	Theme      string        `yaml:"theme"` // built-in or ~/.config/reqspy/themes name
	LogLevel   string        `yaml:"log_level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Port:       8080,
		CORSOrigin: "*",
		Output:     "text",
		Color:      true,
		Theme:      "catppuccin-mocha",
		LogLevel:   "info",
	}
}
