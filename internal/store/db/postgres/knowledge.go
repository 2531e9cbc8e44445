package postgres

import (
	"context"
	"database/sql"
	"strings"
	"unicode"

	"github.com/propstack/tenant-chatbot/internal/model"
)

func (d *DB) CreateKnowledgeEntry(ctx context.Context, entry *model.KnowledgeEntry) (*model.KnowledgeEntry, error) {
	err := d.q.QueryRowContext(ctx,
		`INSERT INTO knowledge (question, answer, category, keywords)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		entry.Question, entry.Answer, entry.Category, entry.Keywords).Scan(&entry.ID)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// SearchKnowledge ranks entries with ts_rank over question and keyword
// text. Tokens are OR-joined so partial overlap still ranks, matching the
// natural-language behavior of the SQLite driver.
func (d *DB) SearchKnowledge(ctx context.Context, query string) (*model.KnowledgeMatch, error) {
	tsquery := buildTsquery(query)
	if tsquery == "" {
		return nil, nil
	}

	var result model.KnowledgeMatch
	err := d.q.QueryRowContext(ctx,
		`SELECT id, answer, category, question
		 FROM knowledge
		 WHERE to_tsvector('english', question || ' ' || keywords) @@ to_tsquery('english', $1)
		 ORDER BY ts_rank(to_tsvector('english', question || ' ' || keywords),
		                  to_tsquery('english', $1)) DESC
		 LIMIT 1`, tsquery).
		Scan(&result.EntryID, &result.Answer, &result.Category, &result.Question)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (d *DB) CountKnowledge(ctx context.Context) (int64, error) {
	var count int64
	err := d.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM knowledge`).Scan(&count)
	return count, err
}

// buildTsquery turns free text into an OR-joined tsquery of its
// alphanumeric tokens. Returns "" when the text contains no tokens.
func buildTsquery(text string) string {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	return strings.Join(tokens, " | ")
}
