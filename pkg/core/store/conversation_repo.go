package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"finsight/pkg/models"
)

// maxHistoryPairs bounds how much prior conversation is fed back into
// prompts. Older turns add tokens without adding grounding.
const maxHistoryPairs = 3

// ConversationRepo persists chat turns keyed by conversation UUID.
//
// CREATE TABLE conversation_messages (
//   id BIGSERIAL PRIMARY KEY,
//   conversation_id UUID NOT NULL,
//   role TEXT NOT NULL,
//   content TEXT NOT NULL,
//   created_at TIMESTAMPTZ NOT NULL
// );
type ConversationRepo struct{}

// NewConversationRepo creates a new repository instance.
func NewConversationRepo() *ConversationRepo {
	return &ConversationRepo{}
}

// Append stores one turn.
func (r *ConversationRepo) Append(ctx context.Context, conversationID uuid.UUID, role, content string) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	query := `
		INSERT INTO conversation_messages (conversation_id, role, content, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := pool.Exec(ctx, query, conversationID, role, content, time.Now())
	if err != nil {
		return fmt.Errorf("failed to append conversation message: %w", err)
	}
	return nil
}

// Recent returns the most recent turns in chronological order, trimmed to
// the last maxHistoryPairs user/assistant pairs.
func (r *ConversationRepo) Recent(ctx context.Context, conversationID uuid.UUID) ([]models.ChatMessage, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT role, content FROM conversation_messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`
	rows, err := pool.Query(ctx, query, conversationID, maxHistoryPairs*2)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	defer rows.Close()

	var newestFirst []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			return nil, fmt.Errorf("failed to scan conversation row: %w", err)
		}
		newestFirst = append(newestFirst, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("conversation rows error: %w", err)
	}

	// Reverse into chronological order for prompt formatting.
	history := make([]models.ChatMessage, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		history = append(history, newestFirst[i])
	}
	return history, nil
}
