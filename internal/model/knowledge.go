package model

// KnowledgeEntry is one question/answer pair in the read-mostly knowledge
// base. Question and Keywords feed the full-text index; Category doubles as
// the provisional intent label when the entry matches a user message.
type KnowledgeEntry struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
	Keywords string `json:"keywords,omitempty"`
}

// KnowledgeMatch is the highest-ranked entry for a lookup. Confidence is a
// fixed placeholder meaning "keyword match, not verified by a model"; it is
// deliberately not derived from the relevance rank.
type KnowledgeMatch struct {
	EntryID    int64   `json:"entry_id"`
	Answer     string  `json:"answer"`
	Category   string  `json:"category"`
	Question   string  `json:"question"`
	Confidence float64 `json:"confidence"`
}
