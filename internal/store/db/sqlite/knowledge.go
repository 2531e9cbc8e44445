package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"unicode"

	"github.com/propstack/tenant-chatbot/internal/model"
)

func (d *DB) CreateKnowledgeEntry(ctx context.Context, entry *model.KnowledgeEntry) (*model.KnowledgeEntry, error) {
	res, err := d.q.ExecContext(ctx,
		`INSERT INTO knowledge (question, answer, category, keywords) VALUES (?, ?, ?, ?)`,
		entry.Question, entry.Answer, entry.Category, entry.Keywords)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	entry.ID = id
	return entry, nil
}

// SearchKnowledge returns the bm25-best entry for the query, or nil when no
// entry ranks. User text is reduced to bare tokens before matching because
// FTS5 treats punctuation and operators as query syntax.
func (d *DB) SearchKnowledge(ctx context.Context, query string) (*model.KnowledgeMatch, error) {
	match := buildMatchQuery(query)
	if match == "" {
		return nil, nil
	}

	var result model.KnowledgeMatch
	err := d.q.QueryRowContext(ctx,
		`SELECT k.id, k.answer, k.category, k.question
		 FROM knowledge_fts f
		 JOIN knowledge k ON k.id = f.rowid
		 WHERE knowledge_fts MATCH ?
		 ORDER BY bm25(knowledge_fts)
		 LIMIT 1`, match).
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

// buildMatchQuery turns free text into an OR query of its alphanumeric
// tokens. Returns "" when the text contains no tokens at all.
func buildMatchQuery(text string) string {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if len(tokens) == 0 {
		return ""
	}
	for i, tok := range tokens {
		tokens[i] = `"` + tok + `"`
	}
	return strings.Join(tokens, " OR ")
}
