// Package usecase contains the business operations of the loop service
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"loop/pkg/jwt"
	"loop/pkg/logger"
	"loop/services/loop-service/domain"
	"loop/services/loop-service/domain/model"
	"loop/services/loop-service/domain/repository"
)

// AuthUseCase defines the interface for authentication-related business operations
type AuthUseCase interface {
	// Register creates a login and the profile its role calls for
	Register(ctx context.Context, name, email, password string, role model.Role) (model.User, error)
	// Login checks the credentials and issues a token pair
	Login(ctx context.Context, email, password string) (*jwt.TokenPair, model.User, error)
	// Refresh issues a new pair from a refresh token whose user still exists
	Refresh(ctx context.Context, refreshToken string) (*jwt.TokenPair, error)
	// Profile returns the caller with its linked representative or client record
	Profile(ctx context.Context, caller model.Caller) (model.Profile, error)
}

type authUseCase struct {
	store     repository.Store
	jwtClient jwt.JWTClient
	events    repository.EventPublisher
	logger    logger.LoggerInterface
}

// NewAuthUseCase creates a new instance of authUseCase
func NewAuthUseCase(store repository.Store, jwtClient jwt.JWTClient, events repository.EventPublisher, appLogger logger.LoggerInterface) AuthUseCase {
	return &authUseCase{
		store:     store,
		jwtClient: jwtClient,
		events:    events,
		logger:    appLogger,
	}
}

func (uc *authUseCase) Register(ctx context.Context, name, email, password string, role model.Role) (model.User, error) {
	uc.logger.InfoContext(ctx, "Registering user", "email", email, "role", role)

	if !role.Valid() {
		uc.logger.WarnContext(ctx, "Unknown role for registration", "role", role)
		return model.User{}, domain.ErrInvalidRole
	}

	user, err := uc.store.Register(ctx, strings.TrimSpace(name), strings.TrimSpace(email), password, role)
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			uc.logger.WarnContext(ctx, "Email already registered", "email", email)
			return model.User{}, err
		}
		uc.logger.ErrorContext(ctx, "Failed to register user", "email", email, "error", err)
		return model.User{}, fmt.Errorf("error registering user: %w", err)
	}

	uc.events.Publish(ctx, model.Event{
		Type:    model.EventUserRegistered,
		Key:     "user-" + strconv.FormatInt(user.ID, 10),
		Payload: map[string]any{"userId": user.ID, "role": user.Role},
	})
	uc.logger.InfoContext(ctx, "User registered", "userID", user.ID, "role", user.Role)
	return user, nil
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*jwt.TokenPair, model.User, error) {
	uc.logger.InfoContext(ctx, "Login attempt", "email", email)

	user, ok := uc.store.FindUserByEmail(ctx, email)
	if !ok {
		uc.logger.WarnContext(ctx, "User not found", "email", email)
		return nil, model.User{}, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		uc.logger.WarnContext(ctx, "Invalid password", "email", email)
		return nil, model.User{}, domain.ErrInvalidCredentials
	}

	pair, err := uc.jwtClient.GenerateTokenPair(user.ID, string(user.Role))
	if err != nil {
		uc.logger.ErrorContext(ctx, "Error generating tokens", "userID", user.ID, "error", err)
		return nil, model.User{}, fmt.Errorf("error generating tokens: %w", err)
	}

	uc.logger.InfoContext(ctx, "Login successful", "userID", user.ID, "role", user.Role)
	return pair, user, nil
}

func (uc *authUseCase) Refresh(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := uc.jwtClient.ValidateRefreshToken(refreshToken)
	if err != nil {
		uc.logger.WarnContext(ctx, "Invalid refresh token", "error", err)
		return nil, domain.ErrInvalidCredentials
	}

	user, ok := uc.store.Users().Get(ctx, claims.UserID)
	if !ok {
		uc.logger.WarnContext(ctx, "Refresh for a deleted user", "userID", claims.UserID)
		return nil, domain.ErrInvalidCredentials
	}

	// The role is read again so a changed role takes effect on refresh.
	pair, err := uc.jwtClient.GenerateTokenPair(user.ID, string(user.Role))
	if err != nil {
		uc.logger.ErrorContext(ctx, "Error generating tokens", "userID", user.ID, "error", err)
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}
	return pair, nil
}

func (uc *authUseCase) Profile(ctx context.Context, caller model.Caller) (model.Profile, error) {
	user, ok := uc.store.Users().Get(ctx, caller.UserID)
	if !ok {
		uc.logger.WarnContext(ctx, "Profile of unknown user", "userID", caller.UserID)
		return model.Profile{}, domain.ErrUserNotFound
	}

	profile := model.Profile{User: user}
	switch user.Role {
	case model.RoleRepresentative:
		if rep, ok := uc.store.FindRepresentativeByUserID(ctx, user.ID); ok {
			profile.Representative = &rep
		}
	case model.RoleClient:
		if client, ok := uc.store.FindClientByUserID(ctx, user.ID); ok {
			profile.Client = &client
		}
	}
	return profile, nil
}
