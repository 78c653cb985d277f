package mapper

import (
	"github.com/Apurer/clothes-shop-api/internal/domains/users/ports"
)

// Credentials is the login body. The admin UI posts userName, not username.
type Credentials struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// Registration is the register body.
type Registration struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"`
}

// User is the public view of an account; the hash never leaves the service.
type User struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
	IsAdmin  bool   `json:"isAdmin"`
}

// LoginResponse mirrors the original login reply.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func ToRegisterInput(body Registration) ports.RegisterInput {
	return ports.RegisterInput{Username: body.UserName, Password: body.Password, IsAdmin: body.IsAdmin}
}

func FromUser(p *ports.UserProjection) User {
	if p == nil {
		return User{}
	}
	return User{ID: p.Entity.ID, UserName: p.Entity.Username, IsAdmin: p.Entity.IsAdmin}
}
