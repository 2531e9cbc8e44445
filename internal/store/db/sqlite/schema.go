package sqlite

// schema contains the DDL applied on open. Statements are idempotent so
// reopening an existing database is a no-op.
const schema = `
CREATE TABLE IF NOT EXISTS conversations (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    tenant_id  TEXT     NOT NULL,
    started_at DATETIME NOT NULL,
    ended_at   DATETIME,
    summary    TEXT
);

CREATE TABLE IF NOT EXISTS messages (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    conversation_id INTEGER  NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
    sender          TEXT     NOT NULL,
    text            TEXT     NOT NULL,
    intent          TEXT,
    confidence      REAL,
    entities        TEXT,
    created_at      DATETIME NOT NULL
);

-- One context record per conversation; writes are upserts.
CREATE TABLE IF NOT EXISTS contexts (
    conversation_id INTEGER  PRIMARY KEY REFERENCES conversations(id) ON DELETE CASCADE,
    data            TEXT     NOT NULL,
    updated_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS actions (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    message_id  INTEGER  NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
    action_type TEXT     NOT NULL,
    details     TEXT,
    success     INTEGER  NOT NULL DEFAULT 0,
    created_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS feedback (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    message_id INTEGER  NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
    helpful    INTEGER  NOT NULL,
    text       TEXT,
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS knowledge (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    question TEXT NOT NULL,
    answer   TEXT NOT NULL,
    category TEXT NOT NULL,
    keywords TEXT NOT NULL DEFAULT ''
);

-- Full-text index over question and keyword text. Knowledge rows are only
-- ever inserted (seeding), so an insert trigger keeps the index in sync.
CREATE VIRTUAL TABLE IF NOT EXISTS knowledge_fts USING fts5(
    question, keywords, content='knowledge', content_rowid='id'
);

CREATE TRIGGER IF NOT EXISTS knowledge_fts_insert AFTER INSERT ON knowledge BEGIN
    INSERT INTO knowledge_fts(rowid, question, keywords)
    VALUES (new.id, new.question, new.keywords);
END;

CREATE INDEX IF NOT EXISTS idx_conversations_tenant ON conversations(tenant_id);
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
CREATE INDEX IF NOT EXISTS idx_actions_message ON actions(message_id);
CREATE INDEX IF NOT EXISTS idx_feedback_message ON feedback(message_id);
`
