package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/propstack/tenant-chatbot/internal/model"
	"github.com/propstack/tenant-chatbot/internal/store"
)

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func (d *DB) CreateConversation(ctx context.Context, tenantID string, startedAt time.Time) (*model.Conversation, error) {
	conv := &model.Conversation{TenantID: tenantID, StartedAt: startedAt}
	err := d.q.QueryRowContext(ctx,
		`INSERT INTO conversations (tenant_id, started_at) VALUES ($1, $2) RETURNING id`,
		tenantID, startedAt).Scan(&conv.ID)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func (d *DB) GetConversation(ctx context.Context, find *store.FindConversation) (*model.Conversation, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.TenantID; v != nil {
		where, args = append(where, "tenant_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	row := d.q.QueryRowContext(ctx,
		`SELECT id, tenant_id, started_at, ended_at, summary
		 FROM conversations WHERE `+strings.Join(where, " AND ")+`
		 ORDER BY id DESC LIMIT 1`, args...)
	return scanConversation(row)
}

func (d *DB) EndConversation(ctx context.Context, end *store.EndConversation) (*model.Conversation, error) {
	row := d.q.QueryRowContext(ctx,
		`UPDATE conversations SET ended_at = COALESCE(ended_at, $1), summary = $2
		 WHERE id = $3
		 RETURNING id, tenant_id, started_at, ended_at, summary`,
		end.EndedAt, end.Summary, end.ID)
	return scanConversation(row)
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
