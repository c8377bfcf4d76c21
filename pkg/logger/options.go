package logger

import (
	"io"
	"log/slog"
)

// Option is a function that configures a logger
type Option func(*Config)

// WithLevel sets the logging level
func WithLevel(level slog.Level) Option {
	return func(c *Config) {
		c.Level = level
	}
}

// WithLevelName sets the logging level from its configuration name
func WithLevelName(level string) Option {
	return WithLevel(ParseLevel(level))
}

// WithOutput sets the output writer
func WithOutput(output io.Writer) Option {
	return func(c *Config) {
		c.Output = output
	}
}

// WithFormat sets the log format ("json" or "text")
func WithFormat(format string) Option {
	return func(c *Config) {
		c.Format = format
	}
}

// WithSource enables/disables source code location in logs
func WithSource(enabled bool) Option {
	return func(c *Config) {
		c.AddSource = enabled
	}
}

// WithService tags every record with the service name
func WithService(name string) Option {
	return func(c *Config) {
		c.Service = name
	}
}

// WithJSONFormat sets the format to JSON
func WithJSONFormat() Option {
	return WithFormat("json")
}

// WithTextFormat sets the format to text
func WithTextFormat() Option {
	return WithFormat("text")
}
