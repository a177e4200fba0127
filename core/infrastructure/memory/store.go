package memory

import (
	"context"

	"github.com/growthsystem/erpchat/core/domain"
)

// Store keeps a bounded recent-message window per conversation. It exists so
// callers can feed history back into prompt construction; it is not a
// durable message archive.
type Store interface {
	// Append adds a message to a conversation's history.
	Append(ctx context.Context, conversationID string, msg domain.Message) error

	// Recent returns up to limit most recent messages, oldest first.
	Recent(ctx context.Context, conversationID string, limit int) ([]domain.Message, error)

	// Reset drops a conversation's history.
	Reset(ctx context.Context, conversationID string) error

	// Close releases store resources.
	Close() error
}
