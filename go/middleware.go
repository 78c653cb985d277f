package shopserver

import (
	"strings"

	"github.com/gin-gonic/gin"

	userapp "github.com/Apurer/clothes-shop-api/internal/domains/users/application"
	userports "github.com/Apurer/clothes-shop-api/internal/domains/users/ports"
)

const currentUserKey = "shop.currentUser"

// RequireAuth resolves the bearer token through the users service and stores
// the account on the context. Requests without a valid token get a 401 problem.
func RequireAuth(users userports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			respondError(c, userapp.ErrUnauthorized)
			return
		}
		user, err := users.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the account RequireAuth attached, if any.
func CurrentUser(c *gin.Context) (*userports.UserProjection, bool) {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*userports.UserProjection)
	return user, ok
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
