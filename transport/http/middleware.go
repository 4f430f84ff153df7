package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/doorkeep/doorkeep/core"
	"github.com/doorkeep/doorkeep/service"
)

const identityContextKey = "doorkeep.identity"

// BearerAuth gates protected routes on a valid access token in the
// Authorization header. A missing or malformed credential fails with
// auth/unauthorized before any verification runs; verification failures
// keep the expired/unauthenticated distinction so clients can refresh
// silently.
func BearerAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, credential, found := strings.Cut(header, " ")
		if header == "" || !found || scheme != "Bearer" || credential == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, core.ErrUnauthorized)
			return
		}

		claims, err := authService.VerifyAccess(credential)
		if err != nil {
			var coreErr *core.Error
			if !errors.As(err, &coreErr) {
				coreErr = core.ErrUnauthenticated
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, coreErr)
			return
		}

		c.Set(identityContextKey, claims.Identity)
		c.Next()
	}
}

// IdentityFromContext returns the identity the auth gate stored for this
// request.
func IdentityFromContext(c *gin.Context) (core.Identity, bool) {
	v, ok := c.Get(identityContextKey)
	if !ok {
		return core.Identity{}, false
	}
	identity, ok := v.(core.Identity)
	return identity, ok
}
