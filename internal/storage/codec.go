package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/evanschultz/kanbo/internal/board"
	"github.com/evanschultz/kanbo/internal/domain"
)

// taskRecord is the on-disk shape of one task row.
type taskRecord struct {
	ID             *int    `json:"id"`
	Title          *string `json:"title"`
	Status         string  `json:"status"`
	CompletionDate *string `json:"completion_date"`
	CreatedAt      *string `json:"created_at"`
}

// boardRecord fixes the column key order in the written file.
type boardRecord struct {
	Todo       []taskRecord `json:"todo"`
	InProgress []taskRecord `json:"in-progress"`
	Done       []taskRecord `json:"done"`
}

// Encode renders a board state as pretty-printed JSON with RFC 3339
// UTC timestamps.
func Encode(state board.State) ([]byte, error) {
	rec := boardRecord{
		Todo:       recordsFor(state, domain.StatusTodo),
		InProgress: recordsFor(state, domain.StatusInProgress),
		Done:       recordsFor(state, domain.StatusDone),
	}
	data, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return data, nil
}

// Decode parses a tasks file. The legacy "doing" key is treated as
// "in-progress" when the canonical key is absent; timestamps accept
// both RFC 3339 and the naive ISO form written by earlier versions,
// and unparseable ones decode to nil.
func Decode(data []byte) (board.State, error) {
	var raw map[string][]taskRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	if doing, ok := raw["doing"]; ok {
		if _, exists := raw["in-progress"]; !exists {
			raw["in-progress"] = doing
		}
		delete(raw, "doing")
	}

	state := board.State{}
	for _, status := range domain.Statuses() {
		rows := raw[string(status)]
		out := make([]board.StoredTask, 0, len(rows))
		for _, rec := range rows {
			row := board.StoredTask{Title: rec.Title}
			if rec.ID != nil {
				row.ID = *rec.ID
			}
			if rec.CompletionDate != nil {
				row.CompletionDate = parseTimestamp(*rec.CompletionDate)
			}
			if rec.CreatedAt != nil {
				row.CreatedAt = parseTimestamp(*rec.CreatedAt)
			}
			out = append(out, row)
		}
		state[status] = out
	}
	return state, nil
}

func recordsFor(state board.State, status domain.Status) []taskRecord {
	rows := state[status]
	out := make([]taskRecord, 0, len(rows))
	for _, row := range rows {
		id := row.ID
		out = append(out, taskRecord{
			ID:             &id,
			Title:          row.Title,
			Status:         string(status),
			CompletionDate: formatTimestamp(row.CompletionDate),
			CreatedAt:      formatTimestamp(row.CreatedAt),
		})
	}
	return out
}

// timestampLayouts lists accepted parse forms: RFC 3339 first, then
// the zone-less ISO strings older files carry.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func parseTimestamp(raw string) *time.Time {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			ts = ts.UTC()
			return &ts
		}
	}
	return nil
}

func formatTimestamp(ts *time.Time) *string {
	if ts == nil {
		return nil
	}
	s := ts.UTC().Format(time.RFC3339Nano)
	return &s
}
