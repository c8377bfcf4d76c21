package jwt

import "time"

// TokenConfig holds the configuration for JWT tokens
type TokenConfig struct {
	AccessTokenSecret  string        `mapstructure:"access_secret"`
	RefreshTokenSecret string        `mapstructure:"refresh_secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// Option is a function that configures TokenConfig
type Option func(*TokenConfig)

func WithAccessTokenSecret(secret string) Option {
	return func(c *TokenConfig) {
		c.AccessTokenSecret = secret
	}
}

func WithRefreshTokenSecret(secret string) Option {
	return func(c *TokenConfig) {
		c.RefreshTokenSecret = secret
	}
}

func WithAccessTokenExpiry(expiry time.Duration) Option {
	return func(c *TokenConfig) {
		c.AccessTokenExpiry = expiry
	}
}

func WithRefreshTokenExpiry(expiry time.Duration) Option {
	return func(c *TokenConfig) {
		c.RefreshTokenExpiry = expiry
	}
}

func WithIssuer(issuer string) Option {
	return func(c *TokenConfig) {
		c.Issuer = issuer
	}
}

// NewWithConfig creates a new JWT client from a config struct. Zero durations keep defaults.
func NewWithConfig(config TokenConfig) (JWTClient, error) {
	opts := []Option{
		WithAccessTokenSecret(config.AccessTokenSecret),
		WithRefreshTokenSecret(config.RefreshTokenSecret),
	}
	if config.AccessTokenExpiry > 0 {
		opts = append(opts, WithAccessTokenExpiry(config.AccessTokenExpiry))
	}
	if config.RefreshTokenExpiry > 0 {
		opts = append(opts, WithRefreshTokenExpiry(config.RefreshTokenExpiry))
	}
	if config.Issuer != "" {
		opts = append(opts, WithIssuer(config.Issuer))
	}
	return New(opts...)
}
