package shopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usermapper "github.com/Apurer/clothes-shop-api/internal/domains/users/adapters/http/mapper"
	userports "github.com/Apurer/clothes-shop-api/internal/domains/users/ports"
)

// AuthAPI wires HTTP transport with the users service.
type AuthAPI struct {
	service userports.Service
}

func NewAuthAPI(service userports.Service) AuthAPI {
	return AuthAPI{service: service}
}

// Post /auth/register
func (api *AuthAPI) Register(c *gin.Context) {
	var body usermapper.Registration
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	user, err := api.service.Register(c.Request.Context(), usermapper.ToRegisterInput(body))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": usermapper.FromUser(user)})
}

// Post /auth/login
func (api *AuthAPI) Login(c *gin.Context) {
	var body usermapper.Credentials
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, err)
		return
	}
	result, err := api.service.Login(c.Request.Context(), body.UserName, body.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usermapper.LoginResponse{Message: "Login successful", Token: result.Token})
}

// Post /auth/logout
// Revokes the bearer token; an absent token is a no-op.
func (api *AuthAPI) Logout(c *gin.Context) {
	if err := api.service.Logout(c.Request.Context(), bearerToken(c.GetHeader("Authorization"))); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}
