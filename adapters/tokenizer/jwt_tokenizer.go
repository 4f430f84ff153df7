package tokenizer

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/doorkeep/doorkeep/core"
	"github.com/doorkeep/doorkeep/ports"
)

// JWTAccessTokenizer implements the access codec with HS256 and a
// process-wide secret loaded once at startup.
type JWTAccessTokenizer struct {
	secret []byte
	ttl    time.Duration
}

// NewAccessTokenizer returns an access codec signing with secret and
// expiring tokens after ttl.
func NewAccessTokenizer(secret []byte, ttl time.Duration) ports.AccessTokenizer {
	return &JWTAccessTokenizer{secret: secret, ttl: ttl}
}

// Issue produces a signed, time-boxed identity assertion.
func (t *JWTAccessTokenizer) Issue(identity core.Identity) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			Audience:  jwt.ClaimStrings{AudienceAccess},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			ID:        uuid.New().String(),
		},
		Name:  identity.Name,
		Email: identity.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify returns the embedded claims unchanged; no store lookup happens.
// Expiry is reported distinctly from every other failure so clients can
// trigger a silent refresh instead of forcing re-login.
func (t *JWTAccessTokenizer) Verify(tokenStr string) (*core.AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, core.ErrUnauthenticated
		}
		return t.secret, nil
	}, jwt.WithAudience(AudienceAccess))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, core.ErrTokenExpired
		}
		return nil, core.ErrUnauthenticated
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, core.ErrUnauthenticated
	}

	return &core.AccessClaims{
		Identity: core.Identity{
			ID:    claims.Subject,
			Name:  claims.Name,
			Email: claims.Email,
		},
		IssuedAt:  numericTime(claims.IssuedAt),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// JWTRefreshTokenizer implements the refresh codec with HS256 and a
// secret distinct from the access codec's.
type JWTRefreshTokenizer struct {
	secret []byte
}

// NewRefreshTokenizer returns a refresh codec signing with secret.
func NewRefreshTokenizer(secret []byte) ports.RefreshTokenizer {
	return &JWTRefreshTokenizer{secret: secret}
}

// Issue signs an identity+version assertion without an expiry claim.
func (t *JWTRefreshTokenizer) Issue(accountID string, version int64) (string, error) {
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  accountID,
			Audience: jwt.ClaimStrings{AudienceRefresh},
			IssuedAt: jwt.NewNumericDate(time.Now()),
			ID:       uuid.New().String(),
		},
		Version: version,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify returns the embedded account id and version, or
// core.ErrUnauthenticated on any signature or format failure.
func (t *JWTRefreshTokenizer) Verify(tokenStr string) (*core.RefreshClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &RefreshClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, core.ErrUnauthenticated
		}
		return t.secret, nil
	}, jwt.WithAudience(AudienceRefresh))
	if err != nil {
		return nil, core.ErrUnauthenticated
	}

	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, core.ErrUnauthenticated
	}

	return &core.RefreshClaims{
		AccountID: claims.Subject,
		Version:   claims.Version,
		IssuedAt:  numericTime(claims.IssuedAt),
	}, nil
}

func numericTime(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
