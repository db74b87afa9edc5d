package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yuchenzhao/minutemate/internal/model/meeting"
)

var (
	ErrEmptyTranscript    = errors.New("transcript is required")
	ErrTranscriptTooShort = errors.New("transcript too short, provide a valid meeting transcript")
	ErrSessionNotFound    = errors.New("session not found")
)

// minTranscriptLen rejects uploads that cannot be a real meeting transcript.
const minTranscriptLen = 10

// Service is the single source of truth for session state. All transcript,
// history and activity bookkeeping lives behind one lock; nothing is persisted
// across restarts.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]meeting.Session
	messages map[string][]meeting.Message
	now      func() time.Time
}

// NewService bootstraps the in-memory session registry.
func NewService() *Service {
	return &Service{
		sessions: make(map[string]meeting.Session),
		messages: make(map[string][]meeting.Message),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewServiceWithClock substitutes the activity clock, for tests.
func NewServiceWithClock(now func() time.Time) *Service {
	svc := NewService()
	svc.now = now
	return svc
}

// Create registers a session for the transcript. An empty requestedID yields a
// generated identifier; a requestedID that already exists reuses that slot,
// replacing the transcript and dropping accumulated history (re-upload).
func (s *Service) Create(_ context.Context, transcript, requestedID string) (meeting.Session, error) {
	if transcript == "" {
		return meeting.Session{}, ErrEmptyTranscript
	}
	if len(transcript) < minTranscriptLen {
		return meeting.Session{}, ErrTranscriptTooShort
	}

	id := requestedID
	if id == "" {
		id = uuid.NewString()
	}

	now := s.now()
	session := meeting.Session{
		ID:           id,
		Transcript:   transcript,
		CreatedAt:    now,
		LastActiveAt: now,
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.messages[id] = make([]meeting.Message, 0, 16)
	s.mu.Unlock()

	return session, nil
}

// Get retrieves a session by identifier.
func (s *Service) Get(_ context.Context, sessionID string) (meeting.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return meeting.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// List returns a summary per registered session, in no particular order.
func (s *Service) List(_ context.Context) []meeting.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]meeting.Summary, 0, len(s.sessions))
	for id, session := range s.sessions {
		summaries = append(summaries, meeting.Summary{
			ID:               id,
			TranscriptLength: len(session.Transcript),
			MessageCount:     len(s.messages[id]),
			CreatedAt:        session.CreatedAt,
			LastActiveAt:     session.LastActiveAt,
		})
	}
	return summaries
}

// History returns the session's messages in insertion order.
func (s *Service) History(_ context.Context, sessionID string) ([]meeting.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.messages[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]meeting.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}

// AppendExchange records one completed turn: the user message followed by the
// assistant reply, timestamped and appended under a single lock acquisition so
// a concurrent turn can never observe half an exchange.
func (s *Service) AppendExchange(_ context.Context, sessionID, userMessage, assistantMessage string) error {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}

	s.messages[sessionID] = append(s.messages[sessionID],
		meeting.Message{Role: meeting.RoleUser, Content: userMessage, CreatedAt: now},
		meeting.Message{Role: meeting.RoleAssistant, Content: assistantMessage, CreatedAt: now},
	)

	session.LastActiveAt = now
	s.sessions[sessionID] = session
	return nil
}

// Touch refreshes a session's last-active timestamp.
func (s *Service) Touch(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	session.LastActiveAt = s.now()
	s.sessions[sessionID] = session
	return nil
}

// Delete removes the session and its history.
func (s *Service) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	delete(s.messages, sessionID)
	return nil
}

// ClearAll empties the registry unconditionally and reports how many sessions
// were dropped. Intended for development resets.
func (s *Service) ClearAll(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := len(s.sessions)
	s.sessions = make(map[string]meeting.Session)
	s.messages = make(map[string][]meeting.Message)
	return dropped
}

// Count reports the number of active sessions.
func (s *Service) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
