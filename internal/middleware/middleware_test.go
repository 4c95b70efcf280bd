package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fishmart-be/internal/access"
	"fishmart-be/internal/auth"
	"fishmart-be/internal/logger"
	"fishmart-be/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) FindByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.User), args.Error(1)
}

const testSecret = "test-secret"

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequestID(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestIDFrom(r.Context())
	})
	handler := logger.RequestID(LoggingMiddleware(next))

	t.Run("Generates ID when missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get(logger.RequestIDHeader))
	})

	t.Run("Preserves existing ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(logger.RequestIDHeader, "test-id-123")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "test-id-123", seen)
	})
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest("GET", "/api/orders/x", nil)
	req = req.WithContext(logger.WithRequestID(req.Context(), "rid-1"))
	LoggingMiddleware(next).ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
	assert.Equal(t, "/api/orders/x", fields["path"])
	assert.Equal(t, "rid-1", fields["request_id"])
}

func TestCors(t *testing.T) {
	handler := CORS("http://localhost:3000")(http.HandlerFunc(okHandler))

	t.Run("OPTIONS request", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/test", nil))

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Normal request", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuth(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	userID := uuid.New()

	t.Run("Missing Token", func(t *testing.T) {
		users := new(MockUsers)
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := access.ActorFrom(r.Context())
			assert.False(t, ok, "Context should not contain an actor")
			w.WriteHeader(http.StatusOK)
		})

		w := httptest.NewRecorder()
		AuthMiddleware(tokens, users)(next).ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("Invalid Token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w := httptest.NewRecorder()

		AuthMiddleware(tokens, new(MockUsers))(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token is not valid")
	})

	t.Run("Valid Token", func(t *testing.T) {
		users := new(MockUsers)
		users.On("FindByID", mock.Anything, userID).
			Return(user.User{ID: userID, Role: access.RolePartner}, nil)

		// the token claims admin but the stored role wins
		tokenString, err := tokens.Generate(userID, "admin")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := access.ActorFrom(r.Context())
			assert.True(t, ok)
			assert.Equal(t, userID, actor.ID)
			assert.Equal(t, access.RolePartner, actor.Role)
			assert.Equal(t, userID.String(), logger.UserIDFrom(r.Context()))
			w.WriteHeader(http.StatusOK)
		})

		AuthMiddleware(tokens, users)(next).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Cookie Token", func(t *testing.T) {
		users := new(MockUsers)
		users.On("FindByID", mock.Anything, userID).
			Return(user.User{ID: userID, Role: access.RoleCustomer}, nil)

		tokenString, err := tokens.Generate(userID, "customer")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.AddCookie(&http.Cookie{Name: auth.TokenCookie, Value: tokenString})
		w := httptest.NewRecorder()

		AuthMiddleware(tokens, users)(RequireAuth(http.HandlerFunc(okHandler))).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Expired Token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
			UserID: userID.String(),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})
		tokenString, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()

		AuthMiddleware(tokens, new(MockUsers))(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Unknown User", func(t *testing.T) {
		users := new(MockUsers)
		users.On("FindByID", mock.Anything, userID).Return(user.User{}, user.ErrUserNotFound)

		tokenString, _ := tokens.Generate(userID, "customer")
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()

		AuthMiddleware(tokens, users)(http.NotFoundHandler()).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Lookup Failure", func(t *testing.T) {
		users := new(MockUsers)
		users.On("FindByID", mock.Anything, userID).Return(user.User{}, errors.New("db down"))

		tokenString, _ := tokens.Generate(userID, "customer")
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()

		AuthMiddleware(tokens, users)(http.NotFoundHandler()).ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("Malformed Header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Basic user:pass")
		w := httptest.NewRecorder()

		AuthMiddleware(tokens, new(MockUsers))(http.HandlerFunc(okHandler)).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireAuth(t *testing.T) {
	w := httptest.NewRecorder()
	RequireAuth(http.HandlerFunc(okHandler)).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimiter(t *testing.T) {
	t.Run("General tier by IP", func(t *testing.T) {
		l := NewRateLimiter(1, 2)
		handler := l.Middleware(http.HandlerFunc(okHandler))

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest("GET", "/api/products", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}
		assert.Equal(t, []int{200, 200, 429}, codes)

		// a different address has its own bucket
		req := httptest.NewRequest("GET", "/api/products", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Checkout tier keyed by actor", func(t *testing.T) {
		l := NewRateLimiter(100, 100)
		handler := l.Middleware(http.HandlerFunc(okHandler))
		actor := access.Actor{ID: uuid.New(), Role: access.RoleCustomer}

		limited := false
		for i := 0; i < burstCheckout+1; i++ {
			req := httptest.NewRequest("POST", "/api/orders", nil)
			req = req.WithContext(access.WithActor(req.Context(), actor))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code == http.StatusTooManyRequests {
				limited = true
			}
		}
		assert.True(t, limited)

		_, ok := l.visitors["user:"+actor.ID.String()+":checkout"]
		assert.True(t, ok)
	})

	t.Run("Evicts idle visitors", func(t *testing.T) {
		l := NewRateLimiter(1, 1)
		l.getVisitor("ip:1", 1, 1)
		l.evict(time.Now().Add(visitorTTL + time.Second))
		assert.Empty(t, l.visitors)
	})

	t.Run("Cleanup exits on cancel", func(t *testing.T) {
		l := NewRateLimiter(1, 1)
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan struct{})
		go func() {
			l.Cleanup(ctx, time.Hour)
			close(done)
		}()
		cancel()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("Cleanup kept running after cancel")
		}
	})
}
