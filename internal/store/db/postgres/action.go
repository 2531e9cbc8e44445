package postgres

import (
	"context"
	"database/sql"

	"github.com/propstack/tenant-chatbot/internal/model"
	"github.com/propstack/tenant-chatbot/internal/store"
)

func (d *DB) CreateAction(ctx context.Context, create *store.CreateAction) (*model.Action, error) {
	action := &model.Action{
		MessageID:  create.MessageID,
		ActionType: create.ActionType,
		Details:    create.Details,
		Success:    create.Success,
		CreatedAt:  create.CreatedAt,
	}
	err := d.q.QueryRowContext(ctx,
		`INSERT INTO actions (message_id, action_type, details, success, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		create.MessageID, create.ActionType, create.Details, create.Success, create.CreatedAt).
		Scan(&action.ID)
	if err != nil {
		return nil, err
	}
	return action, nil
}

func (d *DB) ListActions(ctx context.Context, messageID int64) ([]*model.Action, error) {
	rows, err := d.q.QueryContext(ctx,
		`SELECT id, message_id, action_type, details, success, created_at FROM actions
		 WHERE message_id = $1 ORDER BY id ASC`, messageID)
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
	fb := &model.Feedback{
		MessageID: create.MessageID,
		Helpful:   create.Helpful,
		Text:      create.Text,
		CreatedAt: create.CreatedAt,
	}
	err := d.q.QueryRowContext(ctx,
		`INSERT INTO feedback (message_id, helpful, text, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		create.MessageID, create.Helpful, create.Text, create.CreatedAt).Scan(&fb.ID)
	if err != nil {
		return nil, err
	}
	return fb, nil
}

func (d *DB) ListFeedback(ctx context.Context, messageID int64) ([]*model.Feedback, error) {
	rows, err := d.q.QueryContext(ctx,
		`SELECT id, message_id, helpful, text, created_at FROM feedback
		 WHERE message_id = $1 ORDER BY id ASC`, messageID)
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
