package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"busynessBuster/internal/middleware"
	"busynessBuster/internal/models/user"
	repo "busynessBuster/internal/repository"
	"busynessBuster/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateToken(token string) (*service.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

type MockUserResolver struct {
	mock.Mock
}

func (m *MockUserResolver) GetUserByID(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func validClaims(subject string) *service.Claims {
	return &service.Claims{
		Username:         "owner",
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
	}
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		setupMock  func(*MockTokenValidator, *MockUserResolver)
		wantStatus int
		wantUser   bool
	}{
		{
			name:   "success",
			header: "Bearer good-token",
			setupMock: func(tokens *MockTokenValidator, users *MockUserResolver) {
				tokens.On("ValidateToken", "good-token").Return(validClaims("1"), nil)
				users.On("GetUserByID", mock.Anything, int64(1)).
					Return(&user.User{ID: 1, Username: "owner"}, nil)
			},
			wantStatus: http.StatusOK,
			wantUser:   true,
		},
		{
			name:       "error - no header",
			header:     "",
			setupMock:  func(tokens *MockTokenValidator, users *MockUserResolver) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "error - not a bearer scheme",
			header:     "Basic dXNlcjpwYXNz",
			setupMock:  func(tokens *MockTokenValidator, users *MockUserResolver) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "error - invalid token",
			header: "Bearer bad-token",
			setupMock: func(tokens *MockTokenValidator, users *MockUserResolver) {
				tokens.On("ValidateToken", "bad-token").Return(nil, service.NewAuthError())
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "error - non-numeric subject",
			header: "Bearer odd-token",
			setupMock: func(tokens *MockTokenValidator, users *MockUserResolver) {
				tokens.On("ValidateToken", "odd-token").Return(validClaims("abc"), nil)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "error - user deleted after token issued",
			header: "Bearer orphan-token",
			setupMock: func(tokens *MockTokenValidator, users *MockUserResolver) {
				tokens.On("ValidateToken", "orphan-token").Return(validClaims("7"), nil)
				users.On("GetUserByID", mock.Anything, int64(7)).Return(nil, repo.ErrNotFound)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "error - storage failure",
			header: "Bearer good-token",
			setupMock: func(tokens *MockTokenValidator, users *MockUserResolver) {
				tokens.On("ValidateToken", "good-token").Return(validClaims("1"), nil)
				users.On("GetUserByID", mock.Anything, int64(1)).
					Return(nil, errors.New("connection reset"))
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTokens := new(MockTokenValidator)
			mockUsers := new(MockUserResolver)
			tt.setupMock(mockTokens, mockUsers)

			var gotUser *user.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				u, ok := middleware.CurrentUser(r.Context())
				require.True(t, ok)
				gotUser = u
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			middleware.Auth(mockTokens, mockUsers)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
				assert.Nil(t, gotUser)
			}
			if tt.wantUser {
				require.NotNil(t, gotUser)
				assert.Equal(t, int64(1), gotUser.ID)
			}
			mockTokens.AssertExpectations(t)
			mockUsers.AssertExpectations(t)
		})
	}
}

func TestCurrentUser(t *testing.T) {
	_, ok := middleware.CurrentUser(context.Background())
	assert.False(t, ok)

	ctx := middleware.WithUser(context.Background(), &user.User{ID: 3})
	u, ok := middleware.CurrentUser(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(3), u.ID)
}

func TestRateLimit(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	limited := middleware.RateLimit(2)(next)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// другой клиент не задет лимитом первого
	other := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestID(t *testing.T) {
	var captured string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = middleware.GetRequestID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	middleware.RequestID(next).ServeHTTP(rec, req)

	assert.NotEmpty(t, captured)
	assert.Equal(t, captured, rec.Header().Get("X-Request-ID"))
}
