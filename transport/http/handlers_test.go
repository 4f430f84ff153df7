package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/doorkeep/doorkeep/adapters/hasher"
	"github.com/doorkeep/doorkeep/adapters/store"
	"github.com/doorkeep/doorkeep/adapters/tokenizer"
	"github.com/doorkeep/doorkeep/service"
	transport "github.com/doorkeep/doorkeep/transport/http"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type noopPublisher struct{}

func (noopPublisher) PublishRegistered(ctx context.Context, accountID string) error { return nil }
func (noopPublisher) PublishLogout(ctx context.Context, accountID string, version int64) error {
	return nil
}

func newTestRouter(t *testing.T, accessTTL time.Duration) *gin.Engine {
	t.Helper()

	memStore := store.NewMemoryStore()
	svc := service.NewAuthService(
		memStore,
		memStore,
		hasher.NewBcryptHasher(bcrypt.MinCost),
		tokenizer.NewAccessTokenizer([]byte("access-test-secret"), accessTTL),
		tokenizer.NewRefreshTokenizer([]byte("refresh-test-secret")),
		noopPublisher{},
		zerolog.Nop(),
	)
	return transport.SetupRouter(svc, 7*24*time.Hour, false)
}

type apiResponse struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == transport.RefreshCookieName {
			return cookie
		}
	}
	t.Fatal("no refresh cookie in response")
	return nil
}

var aliceBody = map[string]string{
	"name":     "Alice",
	"email":    "a@x.com",
	"username": "alice",
	"password": "secret1",
}

func TestFullSessionLifecycle(t *testing.T) {
	router := newTestRouter(t, 5*time.Minute)

	// Register.
	w, resp := doJSON(t, router, http.MethodPost, "/auth/create", aliceBody)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "auth/created", resp.Code)
	assert.NotEmpty(t, resp.Token)

	cookie := refreshCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)

	// Wrong password.
	w, resp = doJSON(t, router, http.MethodPost, "/auth/authenticate", map[string]string{
		"username": "alice",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "auth/invalid", resp.Code)

	// Correct password.
	w, resp = doJSON(t, router, http.MethodPost, "/auth/authenticate", map[string]string{
		"username": "alice",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "auth/authenticated", resp.Code)
	assert.NotEmpty(t, resp.Token)
	loginCookie := refreshCookie(t, w)

	// Refresh the access token from the cookie.
	w, resp = doJSON(t, router, http.MethodPost, "/auth/token", nil, loginCookie)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "auth/authorized", resp.Code)
	assert.NotEmpty(t, resp.Token)
	accessToken := resp.Token

	// Protected resource with the fresh access token.
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	me := httptest.NewRecorder()
	router.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "a@x.com")

	// Logout.
	w, resp = doJSON(t, router, http.MethodPost, "/auth/clear", nil, loginCookie)
	require.Equal(t, http.StatusResetContent, w.Code)
	assert.Equal(t, "auth/clear", resp.Code)

	// The old refresh cookie is now permanently unusable.
	w, resp = doJSON(t, router, http.MethodPost, "/auth/token", nil, loginCookie)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "auth/invalid", resp.Code)

	// A new login works and yields a usable refresh token again.
	w, _ = doJSON(t, router, http.MethodPost, "/auth/authenticate", map[string]string{
		"username": "alice",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	w, resp = doJSON(t, router, http.MethodPost, "/auth/token", nil, refreshCookie(t, w))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, resp.Token)
}

func TestCreateDuplicateUser(t *testing.T) {
	router := newTestRouter(t, 5*time.Minute)

	w, _ := doJSON(t, router, http.MethodPost, "/auth/create", aliceBody)
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := doJSON(t, router, http.MethodPost, "/auth/create", aliceBody)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "auth/user-exist", resp.Code)
	assert.Equal(t, "ServiceError", resp.Name)
}

func TestCreateValidatesInput(t *testing.T) {
	router := newTestRouter(t, 5*time.Minute)

	tests := []struct {
		name string
		body map[string]string
		code string
	}{
		{
			name: "missing username",
			body: map[string]string{"name": "Alice", "email": "a@x.com", "password": "secret1"},
			code: "auth/username-empty",
		},
		{
			name: "short password",
			body: map[string]string{"name": "Alice", "email": "a@x.com", "username": "alice", "password": "abc"},
			code: "auth/password-invalid",
		},
		{
			name: "non-alphanumeric username",
			body: map[string]string{"name": "Alice", "email": "a@x.com", "username": "al ice!", "password": "secret1"},
			code: "auth/username-invalid",
		},
		{
			name: "bad email",
			body: map[string]string{"name": "Alice", "email": "not-an-email", "username": "alice", "password": "secret1"},
			code: "auth/email-invalid",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := doJSON(t, router, http.MethodPost, "/auth/create", tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.code, resp.Code)
			assert.Equal(t, "ValidationError", resp.Name)
		})
	}
}

func TestTokenWithoutCookie(t *testing.T) {
	router := newTestRouter(t, 5*time.Minute)

	w, resp := doJSON(t, router, http.MethodPost, "/auth/token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "auth/unauthenticated", resp.Code)
}

func TestClearWithTamperedCookie(t *testing.T) {
	router := newTestRouter(t, 5*time.Minute)

	w, resp := doJSON(t, router, http.MethodPost, "/auth/clear", nil, &http.Cookie{
		Name:  transport.RefreshCookieName,
		Value: "tampered.token.value",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "auth/unauthenticated", resp.Code)
}
