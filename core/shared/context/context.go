package context

import (
	"context"
)

type contextKey string

// ConversationIDKey is the context key for the active conversation.
const ConversationIDKey contextKey = "conversation_id"

// WithConversationID adds a conversation ID to the context.
func WithConversationID(ctx context.Context, conversationID string) context.Context {
	return context.WithValue(ctx, ConversationIDKey, conversationID)
}

// GetConversationID retrieves the conversation ID from context, or "" when
// the call is not tied to a conversation.
func GetConversationID(ctx context.Context) string {
	if id, ok := ctx.Value(ConversationIDKey).(string); ok {
		return id
	}
	return ""
}
