package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/propstack/tenant-chatbot/internal/model"
	"github.com/propstack/tenant-chatbot/internal/store"
)

func (d *DB) CreateConversation(ctx context.Context, tenantID string, startedAt time.Time) (*model.Conversation, error) {
	res, err := d.q.ExecContext(ctx,
		`INSERT INTO conversations (tenant_id, started_at) VALUES (?, ?)`,
		tenantID, startedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Conversation{
		ID:        id,
		TenantID:  tenantID,
		StartedAt: startedAt,
	}, nil
}

func (d *DB) GetConversation(ctx context.Context, find *store.FindConversation) (*model.Conversation, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.TenantID; v != nil {
		where, args = append(where, "tenant_id = ?"), append(args, *v)
	}

	row := d.q.QueryRowContext(ctx,
		`SELECT id, tenant_id, started_at, ended_at, summary
		 FROM conversations WHERE `+strings.Join(where, " AND ")+`
		 ORDER BY id DESC LIMIT 1`, args...)
	return scanConversation(row)
}

func (d *DB) EndConversation(ctx context.Context, end *store.EndConversation) (*model.Conversation, error) {
	// COALESCE keeps the original end timestamp, so closing twice with the
	// same summary yields the same observable state.
	_, err := d.q.ExecContext(ctx,
		`UPDATE conversations SET ended_at = COALESCE(ended_at, ?), summary = ? WHERE id = ?`,
		end.EndedAt, end.Summary, end.ID)
	if err != nil {
		return nil, err
	}
	return d.GetConversation(ctx, &store.FindConversation{ID: &end.ID})
}

func scanConversation(row *sql.Row) (*model.Conversation, error) {
	var (
		conv    model.Conversation
		endedAt sql.NullTime
		summary sql.NullString
	)
	if err := row.Scan(&conv.ID, &conv.TenantID, &conv.StartedAt, &endedAt, &summary); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if endedAt.Valid {
		conv.EndedAt = &endedAt.Time
	}
	if summary.Valid {
		conv.Summary = &summary.String
	}
	return &conv, nil
}
