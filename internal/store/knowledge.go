package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/propstack/tenant-chatbot/internal/model"
	"github.com/propstack/tenant-chatbot/pkg/metrics"
)

// KeywordMatchConfidence is the confidence stored with keyword-matched
// replies. It is a fixed placeholder meaning "matched by full-text keyword
// relevance, not verified by a model" and is deliberately not derived from
// the relevance rank.
const KeywordMatchConfidence = 0.75

// CreateKnowledgeEntry inserts one question/answer pair and indexes its
// question and keyword text for relevance search.
func (s *Store) CreateKnowledgeEntry(ctx context.Context, entry *model.KnowledgeEntry) (*model.KnowledgeEntry, error) {
	return s.driver.CreateKnowledgeEntry(ctx, entry)
}

// SearchKnowledge runs a relevance search over question and keyword text
// and returns the single highest-ranked entry, or nil when nothing ranks.
// Safe for concurrent callers; the knowledge table is never mutated here.
func (s *Store) SearchKnowledge(ctx context.Context, query string) (*model.KnowledgeMatch, error) {
	start := time.Now()
	match, err := s.driver.SearchKnowledge(ctx, query)
	metrics.KnowledgeLookupDuration.Observe(time.Since(start).Seconds())
	if err != nil || match == nil {
		return nil, err
	}
	match.Confidence = KeywordMatchConfidence
	return match, nil
}

// LoadKnowledgeSeed reads a JSON array of knowledge entries from path and
// populates the knowledge base with them. Seeding only runs against an
// empty knowledge table; a populated table is left untouched.
func (s *Store) LoadKnowledgeSeed(ctx context.Context, path string) (int, error) {
	count, err := s.driver.CountKnowledge(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read knowledge seed: %w", err)
	}

	var entries []model.KnowledgeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("parse knowledge seed: %w", err)
	}

	inserted := 0
	for i := range entries {
		entry := &entries[i]
		if entry.Question == "" || entry.Answer == "" {
			return inserted, fmt.Errorf("knowledge seed entry %d missing question or answer", i)
		}
		if _, err := s.CreateKnowledgeEntry(ctx, entry); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
