// Package store holds the DocumentStore backends of the coach engine.
// Every backend keeps one JSON document per user and replaces it as a whole on Put.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/2beens/fitcoach/internal/coach"
)

var (
	_ coach.DocumentStore = (*MemStore)(nil)
	_ coach.DocumentStore = (*PsqlStore)(nil)
	_ coach.DocumentStore = (*RedisStore)(nil)
	_ coach.DocumentStore = (*SQLiteStore)(nil)
	_ coach.DocumentStore = (*CachedStore)(nil)
)

func encode(doc *coach.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return raw, nil
}

func decode(raw []byte) (*coach.Document, error) {
	doc := coach.NewDocument()
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	if doc.DailyFeedback == nil {
		doc.DailyFeedback = []coach.CheckInRecord{}
	}
	if doc.WorkoutHistory == nil {
		doc.WorkoutHistory = []coach.WorkoutHistoryEntry{}
	}
	return doc, nil
}
