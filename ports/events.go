package ports

import "context"

// EventPublisher notifies other instances about session lifecycle changes.
// Publishing is best-effort; the session store remains the source of truth.
type EventPublisher interface {
	PublishRegistered(ctx context.Context, accountID string) error
	PublishLogout(ctx context.Context, accountID string, version int64) error
}
