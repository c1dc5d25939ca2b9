package audit

import (
	"fmt"
	"time"

	"github.com/chronos-hr/chronos/internal/access"
)

// Entry is one immutable audit record: who did what to which record.
// Entries are written once and never updated or deleted.
type Entry struct {
	Resource  string         `json:"resource"`
	RecordID  string         `json:"record_id"`
	Action    string         `json:"action"`
	ActorID   string         `json:"actor_id"`
	Details   map[string]any `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}

// ReplayKey identifies an entry for at-least-once delivery: replays of the
// same permitted mutation collapse onto one stored row.
func (e Entry) ReplayKey() string {
	return fmt.Sprintf("audit:%s:%s:%s:%d", e.Resource, e.RecordID, e.Action, e.CreatedAt.UnixNano())
}

// RecordIDPath builds an extractor that walks nested map outcomes along the
// given keys, e.g. RecordIDPath("timesheet", "id") for {timesheet:{id:...}}.
func RecordIDPath(path ...string) access.RecordIDFunc {
	return func(outcome any) string {
		current := outcome
		for _, key := range path {
			m, ok := current.(map[string]any)
			if !ok {
				return ""
			}
			current, ok = m[key]
			if !ok {
				return ""
			}
		}
		return stringify(current)
	}
}

// DefaultRecordID is the fallback extraction chain for loosely shaped map
// outcomes: a top-level id, then data.id, then the id of the single nested
// entity. Explicit per-operation extractors should be preferred; this exists
// for handlers whose outcomes genuinely have no stable shape.
func DefaultRecordID(outcome any) string {
	m, ok := outcome.(map[string]any)
	if !ok {
		return ""
	}
	if id := stringify(m["id"]); id != "" {
		return id
	}
	if data, ok := m["data"].(map[string]any); ok {
		if id := DefaultRecordID(data); id != "" {
			return id
		}
	}
	var nested map[string]any
	for key, v := range m {
		if key == "data" {
			continue
		}
		child, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if nested != nil {
			// Ambiguous: more than one nested entity, no guess.
			return ""
		}
		nested = child
	}
	if nested != nil {
		return stringify(nested["id"])
	}
	return ""
}

func stringify(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case fmt.Stringer:
		return value.String()
	case float64:
		return fmt.Sprintf("%.0f", value)
	case int:
		return fmt.Sprintf("%d", value)
	case int64:
		return fmt.Sprintf("%d", value)
	default:
		return ""
	}
}
