package ports

import (
	"context"
	"time"
)

type RegisterInput struct {
	Username string
	Password string
	IsAdmin  bool
}

// LoginResult carries the bearer token issued on login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

// Service exposes user bounded context use cases to adapters.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*UserProjection, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Authenticate(ctx context.Context, token string) (*UserProjection, error)
	Logout(ctx context.Context, token string) error
}
