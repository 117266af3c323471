package storage

import "time"

// Event is one completed exchange written to the transcript log.
// The log is an audit trail; nothing reads it back into the running service.
type Event struct {
	Timestamp         time.Time `json:"timestamp"`
	Language          string    `json:"language"`
	UserMessage       string    `json:"user_message"`
	AssistantResponse string    `json:"assistant_response"`
	ResponseTimeMs    int64     `json:"response_time_ms"`
}

// Recorder abstracts persistence of interaction events.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
}
