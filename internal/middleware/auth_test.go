package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"evote-api/internal/domain"
	"evote-api/pkg/errors"
	"evote-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	principal *domain.Principal
	err       error
}

func (s *stubAuthService) ValidateToken(ctx context.Context, token string) (*domain.Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.principal, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error")
	require.NoError(t, err)
	return log
}

func echoPrincipal() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := PrincipalFromContext(r.Context())
		if principal == nil {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("anonymous"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(principal.ID))
	})
}

func TestAuth_ValidToken(t *testing.T) {
	auth := &stubAuthService{principal: &domain.Principal{ID: "stu-001", UserType: domain.UserTypeStudent, Role: domain.RoleVoter}}
	handler := Auth(auth, testLogger(t))(echoPrincipal())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stu-001", rec.Body.String())
}

func TestAuth_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		authErr    error
		wantStatus int
	}{
		{
			name:       "Missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Empty bearer token",
			authHeader: "Bearer ",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Invalid token",
			authHeader: "Bearer bad-token",
			authErr:    errors.NewAuthenticationError("Invalid or expired token"),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &stubAuthService{err: tt.authErr}
			handler := Auth(auth, testLogger(t))(echoPrincipal())

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	handler := OptionalAuth(&stubAuthService{}, testLogger(t))(echoPrincipal())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestOptionalAuth_BadTokenStillRejected(t *testing.T) {
	auth := &stubAuthService{err: errors.NewAuthenticationError("Invalid or expired token")}
	handler := OptionalAuth(auth, testLogger(t))(echoPrincipal())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		principal  *domain.Principal
		wantStatus int
	}{
		{
			name:       "Admin passes",
			principal:  &domain.Principal{ID: "admin-001", Role: domain.RoleAdmin},
			wantStatus: http.StatusOK,
		},
		{
			name:       "Voter rejected",
			principal:  &domain.Principal{ID: "stu-001", Role: domain.RoleVoter},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "No principal rejected",
			principal:  nil,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireAdmin(testLogger(t))(echoPrincipal())

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.principal != nil {
				ctx := context.WithValue(req.Context(), PrincipalContextKey, tt.principal)
				req = req.WithContext(ctx)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequestID_SetsHeader(t *testing.T) {
	handler := RequestID(testLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
