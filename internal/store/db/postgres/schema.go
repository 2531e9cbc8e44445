package postgres

// schema statements applied on open, all idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS conversations (
		id         BIGSERIAL PRIMARY KEY,
		tenant_id  TEXT        NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		ended_at   TIMESTAMPTZ,
		summary    TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id              BIGSERIAL PRIMARY KEY,
		conversation_id BIGINT      NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		sender          TEXT        NOT NULL,
		text            TEXT        NOT NULL,
		intent          TEXT,
		confidence      DOUBLE PRECISION,
		entities        JSONB,
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS contexts (
		conversation_id BIGINT      PRIMARY KEY REFERENCES conversations(id) ON DELETE CASCADE,
		data            JSONB       NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS actions (
		id          BIGSERIAL PRIMARY KEY,
		message_id  BIGINT      NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
		action_type TEXT        NOT NULL,
		details     JSONB,
		success     BOOLEAN     NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id         BIGSERIAL PRIMARY KEY,
		message_id BIGINT      NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
		helpful    BOOLEAN     NOT NULL,
		text       TEXT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS knowledge (
		id       BIGSERIAL PRIMARY KEY,
		question TEXT NOT NULL,
		answer   TEXT NOT NULL,
		category TEXT NOT NULL,
		keywords TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_conversations_tenant ON conversations(tenant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id)`,
	`CREATE INDEX IF NOT EXISTS idx_actions_message ON actions(message_id)`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_message ON feedback(message_id)`,
	`CREATE INDEX IF NOT EXISTS idx_knowledge_fts ON knowledge
		USING GIN (to_tsvector('english', question || ' ' || keywords))`,
}
