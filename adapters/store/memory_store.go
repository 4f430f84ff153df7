package store

import (
	"context"
	"strings"
	"sync"

	"github.com/doorkeep/doorkeep/core"
	"github.com/doorkeep/doorkeep/ports"
)

// MemoryStore is an in-memory implementation of the account repository
// and session store, primarily intended for testing.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]core.Account
	emails   map[string]string
	versions map[string]int64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]core.Account),
		emails:   make(map[string]string),
		versions: make(map[string]int64),
	}
}

// GetByUsername returns a copy of the stored account.
func (s *MemoryStore) GetByUsername(ctx context.Context, username string) (*core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[username]
	if !ok {
		return nil, ports.ErrAccountNotFound
	}
	return &account, nil
}

// EmailTaken reports whether any account already claims email.
func (s *MemoryStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.emails[strings.ToLower(email)]
	return ok, nil
}

// Create stores the account and initializes its session version to 0
// under a single lock, so no partial registration is ever observable.
func (s *MemoryStore) Create(ctx context.Context, account *core.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.ID]; ok {
		return ports.ErrAccountExists
	}
	s.accounts[account.ID] = *account
	s.emails[strings.ToLower(account.Email)] = account.ID
	s.versions[account.ID] = 0
	return nil
}

// GetVersion returns the current session version for accountID.
func (s *MemoryStore) GetVersion(ctx context.Context, accountID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.versions[accountID]
	if !ok {
		return 0, ports.ErrSessionNotFound
	}
	return v, nil
}

// SetVersion upserts the session version.
func (s *MemoryStore) SetVersion(ctx context.Context, accountID string, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.versions[accountID] = version
	return nil
}

// IncrementVersion advances the version under the write lock; racing
// increments serialize rather than both writing the same value.
func (s *MemoryStore) IncrementVersion(ctx context.Context, accountID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.versions[accountID] + 1
	s.versions[accountID] = v
	return v, nil
}

// DropSession removes an account's session record, useful for exercising
// the missing-record path in tests.
func (s *MemoryStore) DropSession(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.versions, accountID)
}

// Clear resets the store between tests.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = make(map[string]core.Account)
	s.emails = make(map[string]string)
	s.versions = make(map[string]int64)
}
