package ports

import (
	"context"
	"errors"

	"github.com/Apurer/clothes-shop-api/internal/domains/users/domain"
	"github.com/Apurer/clothes-shop-api/internal/shared/projection"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrUserExists  = errors.New("user already exists")
	ErrPersistence = errors.New("user store unavailable")
)

type UserProjection = projection.Projection[domain.User]

// Repository stores accounts keyed by unique username.
type Repository interface {
	// Create fails with ErrUserExists when the username is taken.
	Create(ctx context.Context, user *domain.User) (*UserProjection, error)
	GetByUsername(ctx context.Context, username string) (*UserProjection, error)
}
