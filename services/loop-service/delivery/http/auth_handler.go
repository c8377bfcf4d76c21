package http

import (
	"net/http"

	"loop/contracts/loop_service"
	"loop/pkg/logger"
	"loop/services/loop-service/domain/model"
	"loop/services/loop-service/usecase"
)

// AuthHandler handles HTTP requests for authentication operations
type AuthHandler struct {
	handler
	// AuthUseCase contains business logic for authentication operations
	AuthUseCase usecase.AuthUseCase
}

// NewAuthHandler creates a new instance of AuthHandler
func NewAuthHandler(authUseCase usecase.AuthUseCase, appLogger logger.LoggerInterface) *AuthHandler {
	return &AuthHandler{
		handler:     newHandler(appLogger),
		AuthUseCase: authUseCase,
	}
}

// RegisterHandler creates a Representante or Cliente account with its profile.
// Returns 201 with the user, 409 when the email is taken, 422 for validation errors.
func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.Logger.InfoContext(ctx, "Register handler called")

	var req loop_service.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.AuthUseCase.Register(ctx, req.Name, req.Email, req.Password, model.Role(req.Role))
	if err != nil {
		h.fail(ctx, w, err, "Failed to register user")
		return
	}
	h.API.Created(ctx, w, loop_service.UserModelToResponse(user))
}

// LoginHandler authenticates a user and returns a token pair.
// Returns 401 for invalid credentials.
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.Logger.InfoContext(ctx, "Login handler called")

	var req loop_service.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	pair, user, err := h.AuthUseCase.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.fail(ctx, w, err, "Failed to log in")
		return
	}
	h.API.Success(ctx, w, loop_service.TokenResponseOf(pair.AccessToken, pair.RefreshToken, pair.ExpiresAt, &user))
}

// RefreshHandler exchanges a refresh token for a new token pair
func (h *AuthHandler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.Logger.InfoContext(ctx, "Refresh token handler called")

	var req loop_service.RefreshTokenRequest
	if !h.decode(w, r, &req) {
		return
	}

	pair, err := h.AuthUseCase.Refresh(ctx, req.RefreshToken)
	if err != nil {
		h.fail(ctx, w, err, "Failed to refresh token")
		return
	}
	h.API.Success(ctx, w, loop_service.TokenResponseOf(pair.AccessToken, pair.RefreshToken, pair.ExpiresAt, nil))
}

// ProfileHandler returns the signed-in user with its linked profile
func (h *AuthHandler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	profile, err := h.AuthUseCase.Profile(ctx, caller)
	if err != nil {
		h.fail(ctx, w, err, "Failed to load profile")
		return
	}
	h.API.Success(ctx, w, loop_service.ProfileModelToResponse(profile))
}
