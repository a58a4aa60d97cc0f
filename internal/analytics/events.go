package analytics

import "time"

type EventType string

const (
	EventSearch     EventType = "search"
	EventZeroResult EventType = "zero_result"
)

// SearchEvent describes one completed search. Record text is never included.
type SearchEvent struct {
	Type          EventType `json:"type"`
	SessionID     string    `json:"session_id"`
	Dataset       string    `json:"dataset"`
	Strategy      string    `json:"strategy"`
	Terms         []string  `json:"terms"`
	TotalRecords  int       `json:"total_records"`
	Matches       int       `json:"matches"`
	LatencyMicros int64     `json:"latency_us"`
	CacheHit      bool      `json:"cache_hit"`
	Timestamp     time.Time `json:"timestamp"`
}

// EventTypeFor classifies a search by its match count.
func EventTypeFor(matches int) EventType {
	if matches == 0 {
		return EventZeroResult
	}
	return EventSearch
}
