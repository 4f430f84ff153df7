package http

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RefreshCookieName is the HTTP-only cookie carrying the refresh token.
const RefreshCookieName = "jwt"

// setRefreshCookie delivers the refresh token as an HTTP-only cookie with
// MaxAge equal to the refresh lifetime. Secure outside development so the
// cookie only travels over TLS in production.
func setRefreshCookie(c *gin.Context, token string, maxAge time.Duration, secure bool) {
	c.SetCookie(RefreshCookieName, token, int(maxAge.Seconds()), "/", "", secure, true)
}

// clearRefreshCookie expires the refresh cookie on the client.
func clearRefreshCookie(c *gin.Context, secure bool) {
	c.SetCookie(RefreshCookieName, "", -1, "/", "", secure, true)
}

// refreshFromRequest extracts the refresh credential from the cookie.
func refreshFromRequest(c *gin.Context) string {
	token, err := c.Cookie(RefreshCookieName)
	if err != nil {
		return ""
	}
	return token
}
