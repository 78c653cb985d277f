// Package redis stores login sessions in Redis with a key TTL per token.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Apurer/clothes-shop-api/internal/domains/users/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/users/ports"
)

// DefaultKeyPrefix namespaces session keys.
const DefaultKeyPrefix = "clothes-shop:sessions"

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore keeps each session under {prefix}:session:{token}. Redis drops
// the key once the session expires, so no purge job is needed.
type SessionStore struct {
	client    *redis.Client
	keyPrefix string
	now       func() time.Time
}

type sessionPayload struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewSessionStore(client *redis.Client, keyPrefix string) *SessionStore {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &SessionStore{client: client, keyPrefix: keyPrefix, now: time.Now}
}

// NewClientFromURL parses a redis:// URL into a client.
func NewClientFromURL(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (s *SessionStore) sessionKey(token string) string {
	return fmt.Sprintf("%s:session:%s", s.keyPrefix, token)
}

func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	token := strings.TrimSpace(session.Token)
	if token == "" || strings.TrimSpace(session.Username) == "" {
		return errors.New("username and token are required")
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(sessionPayload{Username: session.Username, ExpiresAt: session.ExpiresAt})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.sessionKey(token), data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.sessionKey(strings.TrimSpace(token))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var payload sessionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &domain.Session{Token: token, Username: payload.Username, ExpiresAt: payload.ExpiresAt}, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.sessionKey(strings.TrimSpace(token))).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis session store not configured")
	}
	return nil
}
