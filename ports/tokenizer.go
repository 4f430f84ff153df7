package ports

import "github.com/doorkeep/doorkeep/core"

// AccessTokenizer signs and verifies short-lived, stateless identity
// assertions. Verification never touches a store; an issued access token
// stays valid until its natural expiry.
type AccessTokenizer interface {
	Issue(identity core.Identity) (string, error)

	// Verify returns the embedded claims, core.ErrTokenExpired past the
	// expiry, or core.ErrUnauthenticated on any other failure.
	Verify(token string) (*core.AccessClaims, error)
}

// RefreshTokenizer signs and verifies long-lived identity+version
// assertions. Refresh tokens embed no expiry; revocation happens through
// the session version counter.
type RefreshTokenizer interface {
	Issue(accountID string, version int64) (string, error)

	// Verify returns the embedded claims or core.ErrUnauthenticated on any
	// signature or format failure.
	Verify(token string) (*core.RefreshClaims, error)
}
