package ports

import (
	"context"
	"errors"

	"github.com/doorkeep/doorkeep/core"
)

var (
	// ErrAccountNotFound is returned when no account exists for a username.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists is returned when an account create loses a race to
	// a concurrent registration of the same username.
	ErrAccountExists = errors.New("account already exists")

	// ErrSessionNotFound is returned when an account has no session
	// version record. Callers must not auto-heal this; a missing record
	// invalidates every outstanding refresh token for the account.
	ErrSessionNotFound = errors.New("session record not found")
)

// AccountRepository persists account documents keyed by username.
type AccountRepository interface {
	// GetByUsername returns the account including its password hash, or
	// ErrAccountNotFound.
	GetByUsername(ctx context.Context, username string) (*core.Account, error)

	// EmailTaken reports whether any account already claims email.
	EmailTaken(ctx context.Context, email string) (bool, error)

	// Create writes the account document and its version-0 session record
	// in one commit. Either both writes land or neither does.
	Create(ctx context.Context, account *core.Account) error
}

// SessionStore holds the single piece of mutable server-side auth state:
// the current refresh-token version per account.
type SessionStore interface {
	// GetVersion returns the current version or ErrSessionNotFound.
	GetVersion(ctx context.Context, accountID string) (int64, error)

	// SetVersion upserts the version; idempotent.
	SetVersion(ctx context.Context, accountID string, version int64) error

	// IncrementVersion atomically advances the version by one and returns
	// the new value. Two racing increments must never observe and write
	// the same version.
	IncrementVersion(ctx context.Context, accountID string) (int64, error)
}
