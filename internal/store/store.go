// Package store provides the persistence contract for the chatbot core.
// Domain logic talks to Store; Store delegates to a database Driver so the
// service can run against SQLite or Postgres unchanged.
package store

import (
	"context"
	"time"

	"github.com/propstack/tenant-chatbot/internal/model"
)

// Driver is implemented by each supported database backend.
type Driver interface {
	Ping(ctx context.Context) error
	Close() error

	// WithTx runs fn against a transaction-bound copy of the driver. fn
	// returning an error rolls the transaction back.
	WithTx(ctx context.Context, fn func(Driver) error) error

	CreateConversation(ctx context.Context, tenantID string, startedAt time.Time) (*model.Conversation, error)
	GetConversation(ctx context.Context, find *FindConversation) (*model.Conversation, error)
	EndConversation(ctx context.Context, end *EndConversation) (*model.Conversation, error)

	CreateMessage(ctx context.Context, create *CreateMessage) (*model.Message, error)
	GetMessage(ctx context.Context, id int64) (*model.Message, error)
	ListMessages(ctx context.Context, find *FindMessage) ([]*model.Message, error)

	GetContext(ctx context.Context, conversationID int64) (*model.ContextState, error)
	UpsertContext(ctx context.Context, conversationID int64, data model.Mapping) (*model.ContextState, error)

	CreateAction(ctx context.Context, create *CreateAction) (*model.Action, error)
	ListActions(ctx context.Context, messageID int64) ([]*model.Action, error)

	CreateFeedback(ctx context.Context, create *CreateFeedback) (*model.Feedback, error)
	ListFeedback(ctx context.Context, messageID int64) ([]*model.Feedback, error)

	CreateKnowledgeEntry(ctx context.Context, entry *model.KnowledgeEntry) (*model.KnowledgeEntry, error)
	SearchKnowledge(ctx context.Context, query string) (*model.KnowledgeMatch, error)
	CountKnowledge(ctx context.Context) (int64, error)
}

// Store wraps a Driver with the domain-facing persistence API.
type Store struct {
	driver Driver
}

// New creates a store backed by the given driver.
func New(driver Driver) *Store {
	return &Store{driver: driver}
}

// Ping reports whether the underlying database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.driver.Ping(ctx)
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.driver.Close()
}

// WithTx runs fn against a store bound to a single transaction.
func (s *Store) WithTx(ctx context.Context, fn func(*Store) error) error {
	return s.driver.WithTx(ctx, func(d Driver) error {
		return fn(&Store{driver: d})
	})
}
