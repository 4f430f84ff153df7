package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/doorkeep/doorkeep/core"
	"github.com/doorkeep/doorkeep/service"
)

// AuthHandlers contains the HTTP handlers for the auth endpoints.
type AuthHandlers struct {
	authService  *service.AuthService
	refreshTTL   time.Duration
	secureCookie bool
}

// NewAuthHandlers creates handlers delivering refresh cookies with
// refreshTTL MaxAge. secureCookie should be true outside development.
func NewAuthHandlers(authService *service.AuthService, refreshTTL time.Duration, secureCookie bool) *AuthHandlers {
	return &AuthHandlers{
		authService:  authService,
		refreshTTL:   refreshTTL,
		secureCookie: secureCookie,
	}
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// Create handles registration. On success the refresh token goes out as a
// cookie and the access token in the body, never the other way around.
func (h *AuthHandlers) Create(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, core.NewValidationError("auth/request-invalid", "Request body is invalid."), http.StatusBadRequest)
		return
	}

	if err := validateCredentials(req.Name, req.Email, req.Username, req.Password, true); err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	_, pair, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Username, req.Password)
	if err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	setRefreshCookie(c, pair.Refresh, h.refreshTTL, h.secureCookie)
	c.JSON(http.StatusCreated, authResponse{
		Code:    "auth/created",
		Message: "User created.",
		Token:   pair.Access,
	})
}

// Authenticate handles login.
func (h *AuthHandlers) Authenticate(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, core.NewValidationError("auth/request-invalid", "Request body is invalid."), http.StatusBadRequest)
		return
	}

	if err := validateCredentials(req.Name, req.Email, req.Username, req.Password, false); err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	_, pair, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	setRefreshCookie(c, pair.Refresh, h.refreshTTL, h.secureCookie)
	c.JSON(http.StatusOK, authResponse{
		Code:    "auth/authenticated",
		Message: "User logged in.",
		Token:   pair.Access,
	})
}

// Token mints a new access token from the refresh cookie.
func (h *AuthHandlers) Token(c *gin.Context) {
	refreshToken := refreshFromRequest(c)
	if refreshToken == "" {
		respondError(c, core.ErrUnauthenticated, http.StatusUnauthorized)
		return
	}

	access, err := h.authService.RefreshAccess(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, err, http.StatusUnauthorized)
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		Code:    "auth/authorized",
		Message: "Token created.",
		Token:   access,
	})
}

// Clear logs the account out everywhere by advancing the session version,
// then expires the refresh cookie.
func (h *AuthHandlers) Clear(c *gin.Context) {
	refreshToken := refreshFromRequest(c)
	if refreshToken == "" {
		respondError(c, core.ErrUnauthenticated, http.StatusUnauthorized)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), refreshToken); err != nil {
		respondError(c, err, http.StatusUnauthorized)
		return
	}

	clearRefreshCookie(c, h.secureCookie)
	c.JSON(http.StatusResetContent, authResponse{
		Code:    "auth/clear",
		Message: "Token removed.",
	})
}

// Me returns the identity asserted by the access token the gate verified.
func (h *AuthHandlers) Me(c *gin.Context) {
	identity, ok := IdentityFromContext(c)
	if !ok {
		respondError(c, core.ErrUnauthenticated, http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": identity})
}

// respondError serializes a core error with the status its kind implies.
// fallback decides where service errors land, since the original contract
// reports them as 400 on the credential flows and 401 on the token flows.
func respondError(c *gin.Context, err error, fallback int) {
	var coreErr *core.Error
	if !errors.As(err, &coreErr) {
		coreErr = core.NewServiceError(core.CodeInvalid, "Server encounter error while processing data.")
	}

	status := fallback
	switch coreErr.Kind {
	case core.KindValidation:
		status = http.StatusBadRequest
	case core.KindAuthentication:
		status = http.StatusUnauthorized
	}

	c.JSON(status, coreErr)
}
