// Package loop_service contains request and response contracts for the loop service
package loop_service

import (
	"time"

	"loop/services/loop-service/domain/model"
)

// RegisterRequest represents the request payload for self-registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"required,oneof=Representante Cliente"`
}

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest represents the request payload for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserResponse is a user without its password hash
type UserResponse struct {
	ID    int64      `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// TokenResponse represents the response payload for login and refresh
type TokenResponse struct {
	AccessToken       string        `json:"access_token"`
	RefreshToken      string        `json:"refresh_token"`
	AccessTokenExpire int64         `json:"access_token_expire"`
	User              *UserResponse `json:"user,omitempty"`
}

// ProfileResponse represents the signed-in user with its linked profile
type ProfileResponse struct {
	User           UserResponse          `json:"user"`
	Representative *model.Representative `json:"representative,omitempty"`
	Client         *model.Client         `json:"client,omitempty"`
}

// UserModelToResponse converts model.User to UserResponse
func UserModelToResponse(user model.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

// TokenResponseOf builds a TokenResponse; user is omitted when nil
func TokenResponseOf(accessToken, refreshToken string, expiresAt time.Time, user *model.User) TokenResponse {
	resp := TokenResponse{
		AccessToken:       accessToken,
		RefreshToken:      refreshToken,
		AccessTokenExpire: expiresAt.Unix(),
	}
	if user != nil {
		u := UserModelToResponse(*user)
		resp.User = &u
	}
	return resp
}

// ProfileModelToResponse converts model.Profile to ProfileResponse
func ProfileModelToResponse(profile model.Profile) ProfileResponse {
	return ProfileResponse{
		User:           UserModelToResponse(profile.User),
		Representative: profile.Representative,
		Client:         profile.Client,
	}
}
