package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leavesync/internal/domain"
	"go-leavesync/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

type fakeRBAC struct {
	allow map[string]bool
	err   error
}

func (f fakeRBAC) Enforce(req domain.EnforceRequest) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.allow[req.Role+":"+req.Resource+":"+req.Action], nil
}

func withRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if role != "" {
			c.Set("role", role)
		}
		c.Set("user_id", "u-1")
		c.Next()
	}
}

func ok(c *gin.Context) { c.Status(http.StatusNoContent) }

func TestRBACAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rbac := fakeRBAC{allow: map[string]bool{"manager:leave:sync": true}}

	tests := []struct {
		name string
		role string
		svc  fakeRBAC
		want int
	}{
		{name: "allowed", role: domain.RoleManager, svc: rbac, want: http.StatusNoContent},
		{name: "forbidden", role: domain.RoleEmployee, svc: rbac, want: http.StatusForbidden},
		{name: "no role", role: "", svc: rbac, want: http.StatusUnauthorized},
		{name: "enforcer error", role: domain.RoleManager, svc: fakeRBAC{err: errors.New("policy")}, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/x", withRole(tt.role), middleware.RBACAuthorize(tt.svc, "leave", "sync"), ok)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rbac := fakeRBAC{allow: map[string]bool{"manager:leave:sync": true}}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, middleware.Can(c, rbac, "leave", "sync"))

	c.Set("role", domain.RoleManager)
	assert.True(t, middleware.Can(c, rbac, "leave", "sync"))
	assert.False(t, middleware.Can(c, nil, "leave", "sync"))
	assert.False(t, middleware.Can(c, fakeRBAC{err: errors.New("policy")}, "leave", "sync"))
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	assert.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":     c.GetString("user_id"),
			"role":        c.GetString("role"),
			"employee_id": c.GetString("employee_id"),
		})
	})

	t.Run("bearer token", func(t *testing.T) {
		token := signed(t, jwt.MapClaims{
			"user_id":     "u-1",
			"role":        domain.RoleManager,
			"employee_id": "e-1",
			"exp":         time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "u-1", got["user_id"])
		assert.Equal(t, domain.RoleManager, got["role"])
		assert.Equal(t, "e-1", got["employee_id"])
	})

	t.Run("expired token", func(t *testing.T) {
		token := signed(t, jwt.MapClaims{
			"user_id": "u-1",
			"role":    domain.RoleManager,
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	})

	t.Run("missing role claim", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signed(t, jwt.MapClaims{"user_id": "u-1"}))
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Role not found in token")
	})

	t.Run("no token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	const (
		cacheKey = "idemp:/leaves:u-1:k-1"
		lockKey  = cacheKey + ":lock"
	)

	newRouter := func(handler gin.HandlerFunc) (*gin.Engine, redismock.ClientMock) {
		rdb, mock := redismock.NewClientMock()
		r := gin.New()
		r.POST("/leaves", withRole(domain.RoleEmployee), middleware.Idempotency(rdb), func(c *gin.Context) {
			handler(c)
			middleware.RememberResponse(c, rdb, gin.H{"id": "leave-1"})
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		})
		return r, mock
	}

	post := func(r *gin.Engine) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/leaves", nil)
		req.Header.Set("Idempotency-Key", "k-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("first request runs the handler and caches the response", func(t *testing.T) {
		called := false
		r, mock := newRouter(func(c *gin.Context) { called = true })

		raw, _ := json.Marshal(gin.H{"id": "leave-1"})
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, raw, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		w := post(r)

		assert.True(t, called)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replayed request returns the cached body", func(t *testing.T) {
		called := false
		r, mock := newRouter(func(c *gin.Context) { called = true })

		mock.ExpectGet(cacheKey).SetVal(`{"id":"leave-1"}`)

		w := post(r)

		assert.False(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true,"data":{"id":"leave-1"}}`, w.Body.String())
	})

	t.Run("concurrent request is rejected while locked", func(t *testing.T) {
		r, mock := newRouter(func(c *gin.Context) { t.Fatal("handler must not run") })

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		w := post(r)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "PROCESSING")
	})
}
