// Package postgres provides PostgreSQL database infrastructure components
package postgres

import "fmt"

// Config holds the PostgreSQL connection and pool settings
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Schema   string `mapstructure:"schema"`
	SSLMode  string `mapstructure:"sslmode"`
	// Pool sizing; durations are in minutes
	MaxIdleConns    int `mapstructure:"max_idle_conns"`
	MaxOpenConns    int `mapstructure:"max_open_conns"`
	ConnMaxIdleTime int `mapstructure:"conn_max_idle_time"`
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime"`
	// Debug logs every statement through gorm's logger
	Debug bool `mapstructure:"debug"`
	// ConnectTimeout is in seconds
	ConnectTimeout int `mapstructure:"connect_timeout"`
}

// DSN renders the libpq keyword/value connection string.
func (c Config) DSN() string {
	schema := c.Schema
	if schema == "" {
		schema = "public"
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s search_path=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, schema, sslMode)
	if c.ConnectTimeout > 0 {
		dsn += fmt.Sprintf(" connect_timeout=%d", c.ConnectTimeout)
	}
	return dsn
}
