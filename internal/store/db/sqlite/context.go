package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/propstack/tenant-chatbot/internal/model"
)

func (d *DB) GetContext(ctx context.Context, conversationID int64) (*model.ContextState, error) {
	var state model.ContextState
	err := d.q.QueryRowContext(ctx,
		`SELECT conversation_id, data, updated_at FROM contexts WHERE conversation_id = ?`,
		conversationID).Scan(&state.ConversationID, &state.Data, &state.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (d *DB) UpsertContext(ctx context.Context, conversationID int64, data model.Mapping) (*model.ContextState, error) {
	if data == nil {
		data = model.Mapping{}
	}
	now := time.Now().UTC()
	_, err := d.q.ExecContext(ctx,
		`INSERT INTO contexts (conversation_id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(conversation_id) DO UPDATE SET
		    data = excluded.data,
		    updated_at = excluded.updated_at`,
		conversationID, data, now)
	if err != nil {
		return nil, err
	}
	return &model.ContextState{
		ConversationID: conversationID,
		Data:           data,
		UpdatedAt:      now,
	}, nil
}
