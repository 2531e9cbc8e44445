package postgres

import (
	"context"
	"database/sql"

	"github.com/propstack/tenant-chatbot/internal/model"
	"github.com/propstack/tenant-chatbot/internal/store"
)

func (d *DB) CreateMessage(ctx context.Context, create *store.CreateMessage) (*model.Message, error) {
	msg := &model.Message{
		ConversationID: create.ConversationID,
		Sender:         create.Sender,
		Text:           create.Text,
		Intent:         create.Intent,
		Confidence:     create.Confidence,
		Entities:       create.Entities,
		CreatedAt:      create.CreatedAt,
	}
	err := d.q.QueryRowContext(ctx,
		`INSERT INTO messages (conversation_id, sender, text, intent, confidence, entities, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		create.ConversationID, string(create.Sender), create.Text,
		create.Intent, create.Confidence, create.Entities, create.CreatedAt).Scan(&msg.ID)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (d *DB) GetMessage(ctx context.Context, id int64) (*model.Message, error) {
	rows, err := d.q.QueryContext(ctx,
		`SELECT id, conversation_id, sender, text, intent, confidence, entities, created_at
		 FROM messages WHERE id = $1`, id)
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
	          FROM messages WHERE conversation_id = $1 ORDER BY id DESC`
	args := []any{find.ConversationID}
	if find.Limit > 0 {
		query += ` LIMIT $2`
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
