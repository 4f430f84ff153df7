package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/doorkeep/doorkeep/core"
	"github.com/doorkeep/doorkeep/ports"
)

// RedisStore backs both the account repository and the session version
// store. Account documents are keyed by username; the password hash and
// the version counter live under sibling keys so a registration can
// commit all of them in one transaction.
type RedisStore struct {
	client *redis.Client
	prefix string
}

type accountDoc struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewRedisStore returns a store using client, with keys under
// "doorkeep:".
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "doorkeep:"}
}

func (s *RedisStore) accountKey(username string) string {
	return s.prefix + "account:" + username
}

func (s *RedisStore) secretKey(username string) string {
	return s.prefix + "secret:" + username
}

func (s *RedisStore) emailKey(email string) string {
	return s.prefix + "email:" + strings.ToLower(email)
}

func (s *RedisStore) sessionKey(accountID string) string {
	return s.prefix + "session:" + accountID
}

// GetByUsername loads the account document and its password hash.
func (s *RedisStore) GetByUsername(ctx context.Context, username string) (*core.Account, error) {
	raw, err := s.client.Get(ctx, s.accountKey(username)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	var doc accountDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}

	hash, err := s.client.Get(ctx, s.secretKey(username)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get password hash: %w", err)
	}

	return &core.Account{
		ID:           doc.ID,
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: hash,
	}, nil
}

// EmailTaken checks the email uniqueness index.
func (s *RedisStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	n, err := s.client.Exists(ctx, s.emailKey(email)).Result()
	if err != nil {
		return false, fmt.Errorf("check email index: %w", err)
	}
	return n > 0, nil
}

// Create commits the account document, password hash, email index entry
// and the version-0 session record in one transaction, conditional on
// both the username and the email being free. The WATCH on those keys
// makes the existence check and the four writes a single atomic step:
// a duplicate registration returns ErrAccountExists without touching
// the existing account's hash, email index or session version.
func (s *RedisStore) Create(ctx context.Context, account *core.Account) error {
	doc, err := json.Marshal(accountDoc{ID: account.ID, Name: account.Name, Email: account.Email})
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}

	accountKey := s.accountKey(account.ID)
	emailKey := s.emailKey(account.Email)

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		taken, err := tx.Exists(ctx, accountKey, emailKey).Result()
		if err != nil {
			return err
		}
		if taken > 0 {
			return ports.ErrAccountExists
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, accountKey, doc, 0)
			pipe.Set(ctx, s.secretKey(account.ID), account.PasswordHash, 0)
			pipe.Set(ctx, emailKey, account.ID, 0)
			pipe.Set(ctx, s.sessionKey(account.ID), 0, 0)
			return nil
		})
		return err
	}, accountKey, emailKey)
	if errors.Is(err, ports.ErrAccountExists) {
		return ports.ErrAccountExists
	}
	// A watched key changing between EXISTS and EXEC means a concurrent
	// registration claimed the username or email first.
	if errors.Is(err, redis.TxFailedErr) {
		return ports.ErrAccountExists
	}
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// GetVersion returns the current session version for accountID.
func (s *RedisStore) GetVersion(ctx context.Context, accountID string) (int64, error) {
	v, err := s.client.Get(ctx, s.sessionKey(accountID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, ports.ErrSessionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get session version: %w", err)
	}
	return v, nil
}

// SetVersion upserts the session version.
func (s *RedisStore) SetVersion(ctx context.Context, accountID string, version int64) error {
	if err := s.client.Set(ctx, s.sessionKey(accountID), version, 0).Err(); err != nil {
		return fmt.Errorf("set session version: %w", err)
	}
	return nil
}

// IncrementVersion advances the version with a single INCR, so two racing
// logouts can never write the same value.
func (s *RedisStore) IncrementVersion(ctx context.Context, accountID string) (int64, error) {
	v, err := s.client.Incr(ctx, s.sessionKey(accountID)).Result()
	if err != nil {
		return 0, fmt.Errorf("increment session version: %w", err)
	}
	return v, nil
}
