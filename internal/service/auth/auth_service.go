package auth

import (
	"context"
	"fmt"
	"strings"

	"evote-api/internal/domain"
	"evote-api/internal/service"
	"evote-api/pkg/errors"
	"evote-api/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

// Service validates bearer tokens issued by the institutional identity
// provider. Tokens are HS256 JWTs carrying the voter's classification and
// role alongside the usual identity claims.
type Service struct {
	jwtSecret string
	logger    *logger.Logger
}

// NewService creates a new auth service
func NewService(jwtSecret string, logger *logger.Logger) service.AuthService {
	return &Service{
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// ValidateToken validates an identity-provider JWT and returns the principal
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*domain.Principal, error) {
	if s.jwtSecret == "" {
		s.logger.Error("AUTH_JWT_SECRET not configured")
		return nil, errors.NewAuthenticationError("Token validation not configured")
	}

	if !isJWTToken(tokenString) {
		return nil, errors.NewAuthenticationError("Unrecognized token format")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		s.logger.WithError(err).Debug("JWT validation failed")
		return nil, errors.NewAuthenticationError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.NewAuthenticationError("Invalid token claims")
	}

	principal := &domain.Principal{
		ID:       getStringClaim(claims, "sub"),
		Email:    getStringClaim(claims, "email"),
		Name:     getStringClaim(claims, "name"),
		UserType: domain.UserType(getStringClaim(claims, "user_type")),
		Role:     domain.Role(getStringClaim(claims, "role")),
	}

	if principal.ID == "" {
		s.logger.Error("Token has no subject claim")
		return nil, errors.NewAuthenticationError("Invalid token: no user identifier")
	}

	if !principal.UserType.Valid() {
		s.logger.WithField("user_type", string(principal.UserType)).Error("Token carries unknown user classification")
		return nil, errors.NewAuthenticationError("Invalid token: unknown user classification")
	}

	if principal.Role != domain.RoleAdmin {
		principal.Role = domain.RoleVoter
	}

	s.logger.WithField("user_id", principal.ID).Debug("Token validated")

	return principal, nil
}

// isJWTToken checks whether the token has the three-segment JWT shape
func isJWTToken(token string) bool {
	return strings.Count(token, ".") == 2
}

// getStringClaim safely extracts a string claim
func getStringClaim(claims jwt.MapClaims, key string) string {
	if value, ok := claims[key].(string); ok {
		return value
	}
	return ""
}
