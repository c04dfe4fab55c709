// Package session stores server-side sessions in Redis keyed by an opaque
// identifier. The rest of the system never touches the cookie or the store
// directly: middleware resolves the session once and hands the business
// layer a User value.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"todo-app/backend/internal/apperr"

	"github.com/gofrs/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// User is the resolved identity carried by a session.
type User struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

type StoreConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	TTL          time.Duration
}

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(config StoreConfig) *Store {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	return &Store{client: client, ttl: ttl}
}

// NewStoreWithClient wires an existing client, used by tests with miniredis.
func NewStoreWithClient(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

// Create stores the user under a fresh opaque id and returns the id.
func (s *Store) Create(ctx context.Context, user User) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", apperr.Wrap(err, apperr.KindInternal, "SESSION_ID_FAILED", "failed to create session")
	}

	data, err := json.Marshal(user)
	if err != nil {
		return "", apperr.Wrap(err, apperr.KindInternal, "SESSION_ENCODE_FAILED", "failed to create session")
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := s.client.Set(ctx, keyPrefix+id.String(), data, s.ttl).Err(); err != nil {
		return "", storeErr(err, "failed to create session")
	}
	return id.String(), nil
}

// Get resolves a session id. A missing or expired session returns
// ok=false without an error; the TTL of a live session is refreshed so
// activity keeps it alive.
func (s *Store) Get(ctx context.Context, id string) (User, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	data, err := s.client.Get(ctx, keyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return User{}, false, nil
		}
		return User{}, false, storeErr(err, "failed to resolve session")
	}

	var user User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return User{}, false, apperr.Wrap(err, apperr.KindInternal, "SESSION_DECODE_FAILED", "failed to resolve session")
	}

	s.client.Expire(ctx, keyPrefix+id, s.ttl)

	return user, true, nil
}

// Destroy removes a session. Destroying an unknown id is not an error.
func (s *Store) Destroy(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return storeErr(err, "failed to destroy session")
	}
	return nil
}

func storeErr(err error, message string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(err, apperr.KindTimeout, "SESSION_STORE_TIMEOUT", message)
	}
	return apperr.Wrap(err, apperr.KindExternalDependency, "SESSION_STORE_UNAVAILABLE", fmt.Sprintf("%s: session store unavailable", message))
}
