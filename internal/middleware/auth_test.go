package middleware

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ManuelBanchero/roadmap-sh-projects/internal/session"
)

func setupSessionStore(t *testing.T) *session.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return session.NewStore(client, time.Hour)
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func sessionCookie(t *testing.T, store *session.Store, userID int) *http.Cookie {
	t.Helper()
	token, err := store.Create(context.Background(), userID)
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return &http.Cookie{Name: session.CookieName, Value: token}
}

func okHandler(t *testing.T, wantUserID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserIDFromContext(c)
		if !ok {
			t.Errorf("expected user id in context")
		} else if userID != wantUserID {
			t.Errorf("expected user id %d, got %d", wantUserID, userID)
		}
		c.Status(http.StatusOK)
	}
}

func TestRequireAuthMissingCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := setupSessionStore(t)

	router := gin.New()
	router.GET("/protected", RequireAuth(sessions), func(c *gin.Context) {
		t.Errorf("downstream handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestRequireAuthUnknownSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := setupSessionStore(t)

	router := gin.New()
	router.GET("/protected", RequireAuth(sessions), func(c *gin.Context) {
		t.Errorf("downstream handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "not-a-session"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestRequireAuthValidSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := setupSessionStore(t)

	router := gin.New()
	router.GET("/protected", RequireAuth(sessions), okHandler(t, 101))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(sessionCookie(t, sessions, 101))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestRequireAdminNoSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := setupSessionStore(t)
	db, _ := setupMockDB(t)

	router := gin.New()
	router.POST("/admin", RequireAdmin(db, sessions), func(c *gin.Context) {
		t.Errorf("downstream handler must not run")
	})

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestRequireAdminNonAdminIsForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := setupSessionStore(t)
	db, mock := setupMockDB(t)

	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT role FROM users WHERE id = $1`)).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("user"))

	router := gin.New()
	router.POST("/admin", RequireAdmin(db, sessions), func(c *gin.Context) {
		t.Errorf("downstream handler must not run")
	})

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.AddCookie(sessionCookie(t, sessions, 101))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Authenticated but not admin: must be 403, never 401.
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := setupSessionStore(t)
	db, mock := setupMockDB(t)

	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT role FROM users WHERE id = $1`)).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("admin"))

	router := gin.New()
	router.POST("/admin", RequireAdmin(db, sessions), okHandler(t, 101))

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.AddCookie(sessionCookie(t, sessions, 101))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRequireAdminRoleLookupFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := setupSessionStore(t)
	db, mock := setupMockDB(t)

	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT role FROM users WHERE id = $1`)).
		WithArgs(101).
		WillReturnError(errors.New("connection reset"))

	router := gin.New()
	router.POST("/admin", RequireAdmin(db, sessions), func(c *gin.Context) {
		t.Errorf("downstream handler must not run")
	})

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.AddCookie(sessionCookie(t, sessions, 101))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
