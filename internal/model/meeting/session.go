package meeting

import "time"

// Session captures one isolated conversation grounded in an uploaded transcript.
type Session struct {
	ID           string    `json:"id"`
	Transcript   string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// Summary is the listing projection of a session, without transcript or history.
type Summary struct {
	ID               string    `json:"session_id"`
	TranscriptLength int       `json:"transcript_length"`
	MessageCount     int       `json:"message_count"`
	CreatedAt        time.Time `json:"created_at"`
	LastActiveAt     time.Time `json:"last_activity"`
}
