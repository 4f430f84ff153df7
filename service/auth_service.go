package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/doorkeep/doorkeep/core"
	"github.com/doorkeep/doorkeep/ports"
)

// TokenPair bundles the two assertions handed to a client: the access
// token for the response body and the refresh token for the cookie.
type TokenPair struct {
	Access  string
	Refresh string
}

// AuthService is the session lifecycle manager. It owns the rotation and
// revocation protocol; everything stateful it touches goes through the
// account repository and the session store.
type AuthService struct {
	accounts ports.AccountRepository
	sessions ports.SessionStore
	hasher   ports.PasswordHasher
	access   ports.AccessTokenizer
	refresh  ports.RefreshTokenizer
	events   ports.EventPublisher
	log      zerolog.Logger
}

// NewAuthService wires the lifecycle manager. The publisher may be nil
// when no event transport is configured.
func NewAuthService(
	accounts ports.AccountRepository,
	sessions ports.SessionStore,
	hasher ports.PasswordHasher,
	access ports.AccessTokenizer,
	refresh ports.RefreshTokenizer,
	events ports.EventPublisher,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		accounts: accounts,
		sessions: sessions,
		hasher:   hasher,
		access:   access,
		refresh:  refresh,
		events:   events,
		log:      log,
	}
}

// Register creates an account and its version-0 session record in one
// commit, then issues the first token pair. Duplicate usernames and
// emails both fail with the same user-exist error.
func (s *AuthService) Register(ctx context.Context, name, email, username, password string) (*core.Account, *TokenPair, error) {
	_, err := s.accounts.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, nil, core.ErrUserExists
	case !errors.Is(err, ports.ErrAccountNotFound):
		return nil, nil, s.storeFailure(err)
	}

	taken, err := s.accounts.EmailTaken(ctx, email)
	if err != nil {
		return nil, nil, s.storeFailure(err)
	}
	if taken {
		return nil, nil, core.ErrUserExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, nil, s.storeFailure(err)
	}

	account := &core.Account{
		ID:           username,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, ports.ErrAccountExists) {
			return nil, nil, core.ErrUserExists
		}
		return nil, nil, s.storeFailure(err)
	}

	pair, err := s.issueTokens(account, 0)
	if err != nil {
		return nil, nil, err
	}

	if s.events != nil {
		if err := s.events.PublishRegistered(ctx, account.ID); err != nil {
			s.log.Warn().Err(err).Str("account", account.ID).Msg("failed to publish registered event")
		}
	}

	return account, pair, nil
}

// Login verifies the password and issues a token pair at the account's
// current session version. Login never advances the version, so existing
// refresh tokens stay valid. An absent account and a wrong password
// return the identical error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*core.Account, *TokenPair, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrAccountNotFound) {
			return nil, nil, core.ErrInvalidCredentials
		}
		return nil, nil, s.storeFailure(err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, nil, core.ErrInvalidCredentials
	}

	version, err := s.sessions.GetVersion(ctx, account.ID)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return nil, nil, core.ErrSessionInvalid
		}
		return nil, nil, s.storeFailure(err)
	}

	pair, err := s.issueTokens(account, version)
	if err != nil {
		return nil, nil, err
	}
	return account, pair, nil
}

// RefreshAccess mints a new access token for a refresh token whose
// version still matches the server-side counter. The refresh token itself
// is not rotated.
func (s *AuthService) RefreshAccess(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.validateRefresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	account, err := s.accounts.GetByUsername(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, ports.ErrAccountNotFound) {
			return "", core.ErrSessionInvalid
		}
		return "", s.storeFailure(err)
	}

	return s.access.Issue(account.Identity())
}

// Logout validates the refresh token and then atomically advances the
// session version, invalidating the presented token and every other
// refresh token outstanding for that account.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.validateRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}

	version, err := s.sessions.IncrementVersion(ctx, claims.AccountID)
	if err != nil {
		return s.storeFailure(err)
	}

	if s.events != nil {
		if err := s.events.PublishLogout(ctx, claims.AccountID, version); err != nil {
			s.log.Warn().Err(err).Str("account", claims.AccountID).Msg("failed to publish logout event")
		}
	}

	return nil
}

// VerifyAccess decodes a bearer credential for the auth gate. Purely
// stateless; a revoked session does not invalidate an already-issued
// access token before its natural expiry.
func (s *AuthService) VerifyAccess(token string) (*core.AccessClaims, error) {
	if token == "" {
		return nil, core.ErrUnauthenticated
	}
	return s.access.Verify(token)
}

// validateRefresh decodes the refresh token and checks its version
// against the session store. A missing session record is a revocation
// signal, never something to auto-heal.
func (s *AuthService) validateRefresh(ctx context.Context, refreshToken string) (*core.RefreshClaims, error) {
	if refreshToken == "" {
		return nil, core.ErrUnauthenticated
	}

	claims, err := s.refresh.Verify(refreshToken)
	if err != nil {
		return nil, err
	}

	version, err := s.sessions.GetVersion(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return nil, core.ErrSessionInvalid
		}
		return nil, s.storeFailure(err)
	}

	if claims.Version != version {
		return nil, core.ErrSessionInvalid
	}
	return claims, nil
}

func (s *AuthService) issueTokens(account *core.Account, version int64) (*TokenPair, error) {
	access, err := s.access.Issue(account.Identity())
	if err != nil {
		return nil, s.storeFailure(err)
	}
	refresh, err := s.refresh.Issue(account.ID, version)
	if err != nil {
		return nil, s.storeFailure(err)
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// storeFailure logs the raw cause and returns a client-safe service
// error; adapter internals never leak to callers.
func (s *AuthService) storeFailure(err error) error {
	s.log.Error().Err(err).Msg("auth operation failed")
	return core.NewServiceError(core.CodeInvalid, "Server encounter error while processing data.")
}
