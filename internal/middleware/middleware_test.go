package middleware_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/apperrors"
	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	"github.com/SscSPs/mobile_banking_api/internal/middleware"
	"github.com/SscSPs/mobile_banking_api/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-test-secret"

type MockIdempotencyRepository struct {
	mock.Mock
}

func (m *MockIdempotencyRepository) Reserve(ctx context.Context, userID, key, requestHash string) (bool, *domain.IdempotencyRecord, error) {
	args := m.Called(ctx, userID, key, requestHash)
	var rec *domain.IdempotencyRecord
	if args.Get(1) != nil {
		rec = args.Get(1).(*domain.IdempotencyRecord)
	}
	return args.Bool(0), rec, args.Error(2)
}

func (m *MockIdempotencyRepository) Complete(ctx context.Context, userID, key string, statusCode int, body []byte) error {
	return m.Called(ctx, userID, key, statusCode, body).Error(0)
}

func (m *MockIdempotencyRepository) Release(ctx context.Context, userID, key string) error {
	return m.Called(ctx, userID, key).Error(0)
}

func newAuthedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{middleware.AuthMiddleware(secret)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		userID, _ := middleware.GetUserIDFromContext(c)
		c.JSON(http.StatusCreated, gin.H{"user": userID})
	})
	r.POST("/move", chain...)
	return r
}

func bearer(t *testing.T, userID string, ttl time.Duration, key string) string {
	t.Helper()
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}).SignedString([]byte(key))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", bearer(t, "user_a", time.Hour, secret), http.StatusCreated},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", bearer(t, "user_a", time.Hour, "other-secret"), http.StatusUnauthorized},
		{"expired", bearer(t, "user_a", -time.Minute, secret), http.StatusUnauthorized},
		{"empty subject", bearer(t, "", time.Hour, secret), http.StatusUnauthorized},
	}
	router := newAuthedRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/move", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), string(apperrors.KindUnauthorized))
			} else {
				assert.Contains(t, w.Body.String(), "user_a")
			}
		})
	}
}

func postWithKey(t *testing.T, router *gin.Engine, key, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/move", bytes.NewBufferString(body))
	req.Header.Set("Authorization", bearer(t, "user_a", time.Hour, secret))
	if key != "" {
		req.Header.Set(middleware.IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency_InFlightKeyConflicts(t *testing.T) {
	repo := new(MockIdempotencyRepository)
	body := `{"amount":"1"}`
	hash := utils.HashRequest([]byte(http.MethodPost), []byte("/move"), []byte(body))
	repo.On("Reserve", mock.Anything, "user_a", "k1", hash).
		Return(false, &domain.IdempotencyRecord{RequestHash: hash}, nil).Once()
	router := newAuthedRouter(middleware.Idempotency(repo))

	w := postWithKey(t, router, "k1", body)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), string(apperrors.KindConflict))
	repo.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIdempotency_StoresResponse(t *testing.T) {
	repo := new(MockIdempotencyRepository)
	repo.On("Reserve", mock.Anything, "user_a", "k2", mock.Anything).Return(true, nil, nil).Once()
	repo.On("Complete", mock.Anything, "user_a", "k2", http.StatusCreated, mock.MatchedBy(func(b []byte) bool {
		return bytes.Contains(b, []byte("user_a"))
	})).Return(nil).Once()
	router := newAuthedRouter(middleware.Idempotency(repo))

	w := postWithKey(t, router, "k2", `{}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	repo.AssertExpectations(t)
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	repo := new(MockIdempotencyRepository)
	router := newAuthedRouter(middleware.Idempotency(repo))

	w := postWithKey(t, router, "", `{}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	repo.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIdempotency_StoreFailureIsInternal(t *testing.T) {
	repo := new(MockIdempotencyRepository)
	repo.On("Reserve", mock.Anything, "user_a", "k3", mock.Anything).Return(false, nil, apperrors.Internal("db", io.ErrUnexpectedEOF)).Once()
	router := newAuthedRouter(middleware.Idempotency(repo))

	w := postWithKey(t, router, "k3", `{}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.GenericInternalMessage)
}

func TestStructuredLogging_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.GET("/ping", func(c *gin.Context) {
		assert.NotNil(t, middleware.GetLoggerFromCtx(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	const given = "6f1c1b8e-8a3f-4c55-9c3e-5b0a1f7f2f10"
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.RequestIDHeader, given)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, given, w.Header().Get(middleware.RequestIDHeader))
}

func TestIdempotency_StoresResponseAfterClientDisconnects(t *testing.T) {
	tests := []struct {
		name   string
		status int
		method string
	}{
		{"completed response", http.StatusOK, "Complete"},
		{"server fault", http.StatusInternalServerError, "Release"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockIdempotencyRepository)
			repo.On("Reserve", mock.Anything, "user_a", "k4", mock.Anything).Return(true, nil, nil).Once()
			liveCtx := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
			if tt.method == "Complete" {
				repo.On("Complete", liveCtx, "user_a", "k4", tt.status, mock.Anything).Return(nil).Once()
			} else {
				repo.On("Release", liveCtx, "user_a", "k4").Return(nil).Once()
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.POST("/move", middleware.AuthMiddleware(secret), middleware.Idempotency(repo), func(c *gin.Context) {
				cancel()
				c.JSON(tt.status, gin.H{"ok": true})
			})

			req := httptest.NewRequest(http.MethodPost, "/move", bytes.NewBufferString(`{}`)).WithContext(ctx)
			req.Header.Set("Authorization", bearer(t, "user_a", time.Hour, secret))
			req.Header.Set(middleware.IdempotencyHeader, "k4")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			repo.AssertExpectations(t)
		})
	}
}
