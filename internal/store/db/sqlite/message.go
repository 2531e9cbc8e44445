package sqlite

import (
	"context"
	"database/sql"

	"github.com/propstack/tenant-chatbot/internal/model"
	"github.com/propstack/tenant-chatbot/internal/store"
)

func (d *DB) CreateMessage(ctx context.Context, create *store.CreateMessage) (*model.Message, error) {
	res, err := d.q.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, sender, text, intent, confidence, entities, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		create.ConversationID, string(create.Sender), create.Text,
		create.Intent, create.Confidence, create.Entities, create.CreatedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Message{
		ID:             id,
		ConversationID: create.ConversationID,
		Sender:         create.Sender,
		Text:           create.Text,
		Intent:         create.Intent,
		Confidence:     create.Confidence,
		Entities:       create.Entities,
		CreatedAt:      create.CreatedAt,
	}, nil
}

func (d *DB) GetMessage(ctx context.Context, id int64) (*model.Message, error) {
	rows, err := d.q.QueryContext(ctx,
		`SELECT id, conversation_id, sender, text, intent, confidence, entities, created_at
		 FROM messages WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (d *DB) ListMessages(ctx context.Context, find *store.FindMessage) ([]*model.Message, error) {
	query := `SELECT id, conversation_id, sender, text, intent, confidence, entities, created_at
	          FROM messages WHERE conversation_id = ? ORDER BY id DESC`
	args := []any{find.ConversationID}
	if find.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, find.Limit)
	}

	rows, err := d.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]*model.Message, error) {
	var list []*model.Message
	for rows.Next() {
		var (
			msg        model.Message
			sender     string
			intent     sql.NullString
			confidence sql.NullFloat64
		)
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &sender, &msg.Text,
			&intent, &confidence, &msg.Entities, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.Sender = model.Sender(sender)
		if intent.Valid {
			msg.Intent = &intent.String
		}
		if confidence.Valid {
			msg.Confidence = &confidence.Float64
		}
		list = append(list, &msg)
	}
	return list, rows.Err()
}
