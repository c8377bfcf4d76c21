package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	DefaultIssuer = "loop-service"
)

var (
	ErrAccessTokenSecretRequired  = errors.New("access token secret is required")
	ErrRefreshTokenSecretRequired = errors.New("refresh token secret is required")
	ErrInvalidTokenType           = errors.New("invalid token type")
	ErrInvalidToken               = errors.New("invalid token")
)

// TokenClaims carries the authenticated user and role.
type TokenClaims struct {
	UserID    int64  `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is what a successful login returns.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// JWTClient issues and validates stateless HS256 tokens.
type JWTClient interface {
	GenerateTokenPair(userID int64, role string) (*TokenPair, error)
	GenerateAccessToken(userID int64, role string) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*TokenClaims, error)
	ValidateRefreshToken(tokenString string) (*TokenClaims, error)
	// RefreshAccessToken issues a new pair from a valid refresh token.
	RefreshAccessToken(refreshToken string) (*TokenPair, error)
	GetConfig() TokenConfig
}

// Client represents a JWT client that handles token operations
type Client struct {
	config TokenConfig
	now    func() time.Time
}

// New creates a new JWT client with the provided options
func New(opts ...Option) (JWTClient, error) {
	config := TokenConfig{
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		Issuer:             DefaultIssuer,
	}
	for _, opt := range opts {
		opt(&config)
	}

	if config.AccessTokenSecret == "" {
		return nil, ErrAccessTokenSecretRequired
	}
	if config.RefreshTokenSecret == "" {
		return nil, ErrRefreshTokenSecretRequired
	}

	return &Client{config: config, now: time.Now}, nil
}

func (c *Client) GenerateTokenPair(userID int64, role string) (*TokenPair, error) {
	access, expiresAt, err := c.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, err
	}
	refresh, _, err := c.sign(userID, role, TokenTypeRefresh, c.config.RefreshTokenExpiry, c.config.RefreshTokenSecret)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}

func (c *Client) GenerateAccessToken(userID int64, role string) (string, time.Time, error) {
	return c.sign(userID, role, TokenTypeAccess, c.config.AccessTokenExpiry, c.config.AccessTokenSecret)
}

func (c *Client) sign(userID int64, role, tokenType string, ttl time.Duration, secret string) (string, time.Time, error) {
	now := c.now()
	expiresAt := now.Add(ttl)

	claims := TokenClaims{
		UserID:    userID,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    c.config.Issuer,
			ID:        ulid.Make().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, expiresAt, nil
}

func (c *Client) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	return c.validate(tokenString, c.config.AccessTokenSecret, TokenTypeAccess)
}

func (c *Client) ValidateRefreshToken(tokenString string) (*TokenClaims, error) {
	return c.validate(tokenString, c.config.RefreshTokenSecret, TokenTypeRefresh)
}

func (c *Client) validate(tokenString, secret, expectedType string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.config.Issuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expectedType {
		return nil, ErrInvalidTokenType
	}
	return claims, nil
}

func (c *Client) RefreshAccessToken(refreshToken string) (*TokenPair, error) {
	claims, err := c.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	return c.GenerateTokenPair(claims.UserID, claims.Role)
}

func (c *Client) GetConfig() TokenConfig {
	return c.config
}
