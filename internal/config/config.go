package config

import "time"

// Config holds broker configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	DefaultRoom       string        `mapstructure:"default_room" yaml:"default_room"`
	StaticDir         string        `mapstructure:"static_dir" yaml:"static_dir"`
	EventQueue        int           `mapstructure:"event_queue" yaml:"event_queue"`
	MessageRate       int           `mapstructure:"message_rate" yaml:"message_rate"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8000",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		DefaultRoom:       "main",
		EventQueue:        16,
		MessageRate:       120,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.DefaultRoom != "" {
		c.DefaultRoom = other.DefaultRoom
	}
	if other.StaticDir != "" {
		c.StaticDir = other.StaticDir
	}
	if other.EventQueue != 0 {
		c.EventQueue = other.EventQueue
	}
	if other.MessageRate != 0 {
		c.MessageRate = other.MessageRate
	}
}
