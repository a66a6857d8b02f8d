package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bazaar-be/internal/auth"
	"bazaar-be/internal/logger"
	"bazaar-be/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := logger.RequestIDFrom(r.Context())
		assert.NotEmpty(t, rid, "request ID should be present in context")
	})

	handler := logger.RequestIDMiddleware(nextHandler)

	t.Run("GeneratesIDWhenMissing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("PreservesExistingID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", "test-id-123")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, "test-id-123", w.Header().Get("X-Request-ID"))
	})
}

func TestCORS(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS(nextHandler)

	t.Run("PreflightShortCircuits", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/test", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("NormalRequestPassesThrough", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("ValidTokenInjectsActor", func(t *testing.T) {
		storeID := "s1"
		token, err := user.GenerateJWT("u1", "VENDOR", "vendor@example.com", &storeID)
		require.NoError(t, err)

		nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := auth.ActorFromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, "u1", actor.UserID)
			assert.Equal(t, auth.RoleVendor, actor.Role)
			require.NotNil(t, actor.StoreID)
			assert.Equal(t, "s1", *actor.StoreID)
		})

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		AuthMiddleware(nextHandler).ServeHTTP(httptest.NewRecorder(), req)
	})

	t.Run("InvalidTokenStaysAnonymous", func(t *testing.T) {
		nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := auth.ActorFromContext(r.Context())
			assert.False(t, ok)
		})

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		AuthMiddleware(nextHandler).ServeHTTP(httptest.NewRecorder(), req)
	})

	t.Run("MissingHeaderStaysAnonymous", func(t *testing.T) {
		nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := auth.ActorFromContext(r.Context())
			assert.False(t, ok)
		})

		AuthMiddleware(nextHandler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/test", nil))
	})
}

func TestRequireAuth(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("AnonymousRejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		RequireAuth(nextHandler).ServeHTTP(w, httptest.NewRequest("GET", "/cart", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("AuthenticatedPasses", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/cart", nil)
		ctx := auth.SetActorContext(req.Context(), auth.Actor{UserID: "u1", Role: auth.RoleUser})
		w := httptest.NewRecorder()
		RequireAuth(nextHandler).ServeHTTP(w, req.WithContext(ctx))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
