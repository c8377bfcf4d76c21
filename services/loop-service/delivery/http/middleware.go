package http

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"loop/pkg/api"
	"loop/pkg/jwt"
	"loop/pkg/logger"
	"loop/services/loop-service/domain/model"
)

type callerKey struct{}

// WithCaller stores the authenticated caller in ctx
func WithCaller(ctx context.Context, caller model.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the caller stored by JWTMiddleware
func CallerFromContext(ctx context.Context) (model.Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(model.Caller)
	return caller, ok
}

// LoggingMiddleware adds the request id to the log context of the request and logs every
// completed request with its status and duration
func LoggingMiddleware(appLogger logger.LoggerInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			ctx := r.Context()
			if reqID := middleware.GetReqID(ctx); reqID != "" {
				ctx = logger.AppendCtx(ctx, slog.String("request_id", reqID))
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(ww, r)

			appLogger.InfoContext(ctx, "HTTP request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).String(),
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		})
	}
}

// bearerToken returns the token of an "Authorization: Bearer" header
func bearerToken(r *http.Request) (string, bool) {
	const bearerPrefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	return header[len(bearerPrefix):], true
}

// JWTMiddleware validates the bearer access token and stores the caller in the request
// context. Missing or invalid tokens get a 401.
func JWTMiddleware(jwtClient jwt.JWTClient, appLogger logger.LoggerInterface, apiClient api.Api) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if r.Header.Get("Authorization") == "" {
				appLogger.WarnContext(ctx, "Missing Authorization header")
				apiClient.Unauthorized(ctx, w, "Missing Authorization header")
				return
			}
			token, ok := bearerToken(r)
			if !ok {
				appLogger.WarnContext(ctx, "Invalid Authorization header format")
				apiClient.Unauthorized(ctx, w, "Invalid Authorization header format")
				return
			}

			claims, err := jwtClient.ValidateAccessToken(token)
			if err != nil {
				appLogger.WarnContext(ctx, "Invalid access token", "error", err)
				apiClient.Unauthorized(ctx, w, "Invalid access token")
				return
			}

			caller := model.Caller{UserID: claims.UserID, Role: model.Role(claims.Role)}
			ctx = WithCaller(ctx, caller)
			ctx = logger.AppendCtx(ctx, slog.Int64("user_id", caller.UserID), slog.String("role", string(caller.Role)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RoleMiddleware lets through only callers holding one of roles. It must run after
// JWTMiddleware.
func RoleMiddleware(appLogger logger.LoggerInterface, apiClient api.Api, roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			caller, ok := CallerFromContext(ctx)
			if !ok || !slices.Contains(roles, caller.Role) {
				appLogger.WarnContext(ctx, "Access denied: role not allowed", "role", caller.Role, "allowed", roles)
				apiClient.Forbidden(ctx, w, "Access denied: insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
