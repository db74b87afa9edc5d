package chat

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/yuchenzhao/minutemate/internal/model/meeting"
	"github.com/yuchenzhao/minutemate/internal/service/session"
)

// ErrUpstream marks a failed remote model call. The caller may retry the same
// message safely: history is only written after a successful response.
var ErrUpstream = errors.New("upstream model call failed")

// Responder produces an assistant answer for a session's transcript, replayed
// history and new user message. Implemented by the AI service; faked in tests.
type Responder interface {
	GenerateResponse(ctx context.Context, s meeting.Session, history []meeting.Message, userMessage string) (string, error)
}

// Service executes question-answer turns against registered sessions.
type Service struct {
	registry  *session.Service
	responder Responder
}

// NewService wires the turn handler to the session registry and the model.
func NewService(registry *session.Service, responder Responder) *Service {
	return &Service{registry: registry, responder: responder}
}

// Chat runs one exchange: look up the session, ask the model with transcript
// and full history as context, then record the completed turn. A failed model
// call leaves the session history exactly as it was.
func (s *Service) Chat(ctx context.Context, sessionID, userMessage string) (string, error) {
	sess, err := s.registry.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	// The turn counts as activity even if the model call below fails.
	if err := s.registry.Touch(ctx, sessionID); err != nil {
		return "", err
	}

	history, err := s.registry.History(ctx, sessionID)
	if err != nil {
		return "", err
	}

	answer, err := s.responder.GenerateResponse(ctx, sess, history, userMessage)
	if err != nil {
		log.Printf("[chat] model call failed for session=%s: %v", sessionID, err)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if err := s.registry.AppendExchange(ctx, sessionID, userMessage, answer); err != nil {
		// Session vanished underneath us (deleted mid-turn).
		return "", err
	}

	return answer, nil
}
