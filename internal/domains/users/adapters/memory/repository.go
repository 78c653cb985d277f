package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/clothes-shop-api/internal/domains/users/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/users/ports"
	"github.com/Apurer/clothes-shop-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps users in memory keyed by username.
type Repository struct {
	mu    sync.RWMutex
	users map[string]*ports.UserProjection
}

func NewRepository() *Repository {
	return &Repository{users: make(map[string]*ports.UserProjection)}
}

func (r *Repository) Create(_ context.Context, user *domain.User) (*ports.UserProjection, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Username]; ok {
		return nil, ports.ErrUserExists
	}
	now := time.Now().UTC()
	row := projection.New(*user, now, now)
	r.users[user.Username] = row
	clone := *row
	return &clone, nil
}

func (r *Repository) GetByUsername(_ context.Context, username string) (*ports.UserProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.users[strings.TrimSpace(username)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *row
	return &clone, nil
}
