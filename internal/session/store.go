// Package session implements the server-side session store: an opaque token
// keyed in Redis, mapping to the authenticated user id, delivered to the
// client through a cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no session exists for a token.
var ErrNotFound = errors.New("session not found")

// CookieName is the cookie carrying the session token.
const CookieName = "spiral_session"

const keyPrefix = "session:"

// Store persists sessions in Redis with a fixed TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Create issues a new opaque token bound to userID.
func (s *Store) Create(ctx context.Context, userID int) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, keyPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// Get resolves a token to the user id it was bound to.
func (s *Store) Get(ctx context.Context, token string) (int, error) {
	raw, err := s.client.Get(ctx, keyPrefix+token).Result()
	if err == redis.Nil {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get session: %w", err)
	}

	userID, err := strconv.Atoi(raw)
	if err != nil || userID <= 0 {
		return 0, ErrNotFound
	}
	return userID, nil
}

// Destroy removes a session. Destroying an absent session is not an error.
func (s *Store) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// TTL reports the session lifetime, which is also the cookie max-age.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// SetCookie attaches the session cookie to the response.
// Secure is intentionally off: development posture, must be flipped together
// with TLS termination before any production deployment.
func SetCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(ttl.Seconds()), "/", "", false, true)
}

// ClearCookie expires the session cookie on the client.
func ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}
