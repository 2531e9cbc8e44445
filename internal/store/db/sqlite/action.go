package sqlite

import (
	"context"
	"database/sql"

	"github.com/propstack/tenant-chatbot/internal/model"
	"github.com/propstack/tenant-chatbot/internal/store"
)

func (d *DB) CreateAction(ctx context.Context, create *store.CreateAction) (*model.Action, error) {
	res, err := d.q.ExecContext(ctx,
		`INSERT INTO actions (message_id, action_type, details, success, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		create.MessageID, create.ActionType, create.Details, create.Success, create.CreatedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Action{
		ID:         id,
		MessageID:  create.MessageID,
		ActionType: create.ActionType,
		Details:    create.Details,
		Success:    create.Success,
		CreatedAt:  create.CreatedAt,
	}, nil
}

func (d *DB) ListActions(ctx context.Context, messageID int64) ([]*model.Action, error) {
	rows, err := d.q.QueryContext(ctx,
		`SELECT id, message_id, action_type, details, success, created_at FROM actions
		 WHERE message_id = ? ORDER BY id ASC`, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.Action
	for rows.Next() {
		var action model.Action
		if err := rows.Scan(&action.ID, &action.MessageID, &action.ActionType,
			&action.Details, &action.Success, &action.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &action)
	}
	return list, rows.Err()
}

func (d *DB) CreateFeedback(ctx context.Context, create *store.CreateFeedback) (*model.Feedback, error) {
	res, err := d.q.ExecContext(ctx,
		`INSERT INTO feedback (message_id, helpful, text, created_at) VALUES (?, ?, ?, ?)`,
		create.MessageID, create.Helpful, create.Text, create.CreatedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Feedback{
		ID:        id,
		MessageID: create.MessageID,
		Helpful:   create.Helpful,
		Text:      create.Text,
		CreatedAt: create.CreatedAt,
	}, nil
}

func (d *DB) ListFeedback(ctx context.Context, messageID int64) ([]*model.Feedback, error) {
	rows, err := d.q.QueryContext(ctx,
		`SELECT id, message_id, helpful, text, created_at FROM feedback
		 WHERE message_id = ? ORDER BY id ASC`, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.Feedback
	for rows.Next() {
		var (
			fb   model.Feedback
			text sql.NullString
		)
		if err := rows.Scan(&fb.ID, &fb.MessageID, &fb.Helpful, &text, &fb.CreatedAt); err != nil {
			return nil, err
		}
		if text.Valid {
			fb.Text = &text.String
		}
		list = append(list, &fb)
	}
	return list, rows.Err()
}
