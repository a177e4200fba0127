package memory

import (
	"context"
	"sync"
	"time"

	"github.com/growthsystem/erpchat/core/domain"
)

type conversation struct {
	messages []domain.Message
	touched  time.Time
}

// InProcessStore is the Store used when no Redis URL is configured: a
// mutex-guarded map with the same window and TTL semantics. Suitable for
// single-instance deployments, dev and tests.
type InProcessStore struct {
	mu            sync.Mutex
	conversations map[string]*conversation
	window        int
	ttl           time.Duration
	now           func() time.Time
}

// NewInProcessStore creates an in-process conversation store.
func NewInProcessStore(window int, ttl time.Duration) *InProcessStore {
	return &InProcessStore{
		conversations: make(map[string]*conversation),
		window:        window,
		ttl:           ttl,
		now:           time.Now,
	}
}

// Append adds a message and trims the history to the configured window.
func (s *InProcessStore) Append(_ context.Context, conversationID string, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()

	conv := s.conversations[conversationID]
	if conv == nil {
		conv = &conversation{}
		s.conversations[conversationID] = conv
	}

	conv.messages = append(conv.messages, msg)
	if len(conv.messages) > s.window {
		conv.messages = conv.messages[len(conv.messages)-s.window:]
	}
	conv.touched = s.now()
	return nil
}

// Recent returns up to limit most recent messages, oldest first.
func (s *InProcessStore) Recent(_ context.Context, conversationID string, limit int) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()

	conv := s.conversations[conversationID]
	if conv == nil {
		return nil, nil
	}

	messages := conv.messages
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	out := make([]domain.Message, len(messages))
	copy(out, messages)
	return out, nil
}

// Reset drops a conversation's history.
func (s *InProcessStore) Reset(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, conversationID)
	return nil
}

// Close is a no-op for the in-process store.
func (s *InProcessStore) Close() error {
	return nil
}

// expireLocked drops conversations idle past the TTL. Called with the lock
// held on every access, which is cheap at the scale this store targets.
func (s *InProcessStore) expireLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, conv := range s.conversations {
		if conv.touched.Before(cutoff) {
			delete(s.conversations, id)
		}
	}
}
