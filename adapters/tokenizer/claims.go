package tokenizer

import "github.com/golang-jwt/jwt/v5"

// Audience values keep the two token types from ever verifying as each
// other, on top of the distinct signing secrets.
const (
	AudienceAccess  = "session:access"
	AudienceRefresh = "session:refresh"
)

// AccessClaims combines standard claims with the public identity the
// token asserts.
type AccessClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RefreshClaims combines standard claims with the session version the
// token was minted at. Deliberately no exp claim: the version check is
// the only invalidation mechanism.
type RefreshClaims struct {
	jwt.RegisteredClaims
	Version int64 `json:"ver"`
}
