package core

import "time"

// Account is the stored credential record. The ID is chosen by the
// registrant (the username), is unique, and never changes.
type Account struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// Identity returns the public identity embedded in access tokens.
func (a *Account) Identity() Identity {
	return Identity{ID: a.ID, Name: a.Name, Email: a.Email}
}

// Identity is the claim set an access token asserts about its holder.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AccessClaims is a decoded access assertion: a short-lived, stateless
// proof of identity. It is never persisted; it only exists inside a signed
// token string held by the client.
type AccessClaims struct {
	Identity
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RefreshClaims is a decoded refresh assertion. It carries no expiry; the
// only invalidation mechanism is the per-account version counter mirrored
// in the session store.
type RefreshClaims struct {
	AccountID string
	Version   int64
	IssuedAt  time.Time
}
