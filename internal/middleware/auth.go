package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"evote-api/internal/domain"
	"evote-api/internal/service"
	"evote-api/pkg/errors"
	"evote-api/pkg/logger"
)

// ContextKey represents keys used in request context
type ContextKey string

const (
	// PrincipalContextKey is the key for the authenticated principal in context
	PrincipalContextKey ContextKey = "principal"
	// RequestIDContextKey is the key for request ID in context
	RequestIDContextKey ContextKey = "request_id"
)

// PrincipalFromContext extracts the authenticated principal, if any
func PrincipalFromContext(ctx context.Context) *domain.Principal {
	if principal, ok := ctx.Value(PrincipalContextKey).(*domain.Principal); ok {
		return principal
	}
	return nil
}

// Auth creates an authentication middleware
func Auth(authService service.AuthService, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				writeErrorResponse(w, err, logger)
				return
			}

			ctx := r.Context()
			principal, authErr := authService.ValidateToken(ctx, token)
			if authErr != nil {
				logger.WithError(authErr).Debug("Token validation failed")
				writeErrorResponse(w, errors.NewAuthenticationError("Invalid or expired token"), logger)
				return
			}

			ctx = context.WithValue(ctx, PrincipalContextKey, principal)
			r = r.WithContext(ctx)

			logger.WithField("user_id", principal.ID).Debug("User authenticated successfully")

			next.ServeHTTP(w, r)
		})
	}
}

// OptionalAuth validates a bearer token when one is presented and otherwise
// lets the request through unauthenticated. Results views use it to decide
// whether candidate names may be disclosed.
func OptionalAuth(authService service.AuthService, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, err := bearerToken(r)
			if err != nil {
				writeErrorResponse(w, err, logger)
				return
			}

			ctx := r.Context()
			principal, authErr := authService.ValidateToken(ctx, token)
			if authErr != nil {
				writeErrorResponse(w, errors.NewAuthenticationError("Invalid or expired token"), logger)
				return
			}

			ctx = context.WithValue(ctx, PrincipalContextKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route group to principals carrying the ADMIN role.
// Must run after Auth.
func RequireAdmin(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				writeErrorResponse(w, errors.NewAuthenticationError("Authentication required"), logger)
				return
			}
			if !principal.IsAdmin() {
				logger.WithField("user_id", principal.ID).Warn("Non-admin attempted administrative action")
				writeErrorResponse(w, errors.NewAuthorizationError("Administrator role required"), logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID creates a middleware that adds a unique request ID to each request
func RequestID(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := generateRequestID()

			ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
			r = r.WithContext(ctx)

			w.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from the Authorization header
func bearerToken(r *http.Request) (string, *errors.AppError) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.NewAuthenticationError("Authorization header is required")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errors.NewAuthenticationError("Invalid authorization header format")
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", errors.NewAuthenticationError("Token is required")
	}

	return token, nil
}

// generateRequestID generates a timestamp-based request identifier
func generateRequestID() string {
	return fmt.Sprintf("req_%d", time.Now().UnixNano())
}

// writeErrorResponse writes a structured error response
func writeErrorResponse(w http.ResponseWriter, err error, logger *logger.Logger) {
	appErr, ok := errors.IsAppError(err)
	if !ok {
		appErr = errors.NewInternalError("Internal server error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)

	response := map[string]interface{}{
		"success": false,
		"error": map[string]interface{}{
			"type":    appErr.Type,
			"message": appErr.Message,
		},
	}

	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		logger.WithError(encodeErr).Error("Failed to encode error response")
	}
}
