// Package session implements the cookie session store: an opaque token
// in the caller's cookie mapped to a Redis entry. Every visitor gets a
// session lazily, so anonymous carts work; logging in rotates the token
// and attaches the user.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"sweetiegarden/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const keyPrefix = "session:"

// Session is the state carried between requests for one visitor. UserID
// zero means an anonymous guest; the token itself is then the guest cart
// owner identity.
type Session struct {
	Token     string    `json:"-"`
	UserID    int64     `json:"user_id,omitempty"`
	Role      string    `json:"role,omitempty"`
	Email     string    `json:"email,omitempty"`
	FullName  string    `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity resolves the session to an owner identity: the user when
// authenticated, the session token as guest token otherwise.
func (s *Session) Identity() models.Identity {
	if s.UserID > 0 {
		return models.Identity{UserID: s.UserID, Role: s.Role}
	}
	return models.Identity{GuestToken: s.Token}
}

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore connects to Redis and returns a session store
func NewStore(addr, password string, db int, ttl time.Duration) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Store{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.rdb.Close()
}

// Get loads the session for a token, refreshing its TTL. Returns nil
// when the token is unknown or expired.
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}

	data, err := s.rdb.Get(ctx, keyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	sess.Token = token

	_ = s.rdb.Expire(ctx, keyPrefix+token, s.ttl).Err()
	return &sess, nil
}

// Create mints a fresh anonymous session
func (s *Store) Create(ctx context.Context) (*Session, error) {
	sess := &Session{
		Token:     newToken(),
		CreatedAt: time.Now(),
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Login rotates the session token and attaches the user, discarding the
// previous session entry.
func (s *Store) Login(ctx context.Context, old *Session, user *models.User) (*Session, error) {
	sess := &Session{
		Token:     newToken(),
		UserID:    user.ID,
		Role:      user.Role,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: time.Now(),
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	if old != nil {
		_ = s.rdb.Del(ctx, keyPrefix+old.Token).Err()
	}
	return sess, nil
}

// Delete removes a session (logout)
func (s *Store) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, keyPrefix+token).Err()
}

func (s *Store) save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, keyPrefix+sess.Token, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func newToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
