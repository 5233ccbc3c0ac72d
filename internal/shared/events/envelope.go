package events

import "time"

// Envelope is the shared signal shape used in Strongbox.
// Signals feed the external audit sink and never drive control flow.
type Envelope struct {
	SignalID       string    `json:"signal_id"`
	SignalType     string    `json:"signal_type"`
	SourceService  string    `json:"source_service"`
	OccurredAtUTC  time.Time `json:"occurred_at_utc"`
	EntityType     string    `json:"entity_type"`
	EntityID       string    `json:"entity_id"`
	PayloadVersion int       `json:"payload_version"`
	Payload        any       `json:"payload"`
}
