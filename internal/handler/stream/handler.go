package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/cloudwego/eino/schema"

	"github.com/yuchenzhao/minutemate/internal/model/meeting"
	sessionService "github.com/yuchenzhao/minutemate/internal/service/session"
	"github.com/yuchenzhao/minutemate/pkg/utils"
)

// Generator produces answers for a session, either whole or chunk by chunk.
// Implemented by the AI service; faked in tests.
type Generator interface {
	StreamingEnabled() bool
	GenerateResponse(ctx context.Context, s meeting.Session, history []meeting.Message, userMessage string) (string, error)
	StreamResponse(ctx context.Context, s meeting.Session, history []meeting.Message, userMessage string) (*schema.StreamReader[*schema.Message], error)
}

// Handler manages streaming answers via Server-Sent Events.
type Handler struct {
	generator Generator
	registry  *sessionService.Service
}

// New creates a new stream handler.
func New(generator Generator, registry *sessionService.Service) *Handler {
	return &Handler{generator: generator, registry: registry}
}

// StreamResponse represents a streaming response chunk.
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleStreamRequest answers one question over SSE. The exchange is only
// recorded once the full answer has been produced, so an aborted stream never
// leaves a partial turn in the history.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	session, err := h.registry.Get(ctx, sessionID)
	if err != nil {
		h.sendSSEError(w, flusher, fmt.Sprintf("session lookup failed: %v", err))
		return err
	}

	history, err := h.registry.History(ctx, sessionID)
	if err != nil {
		h.sendSSEError(w, flusher, fmt.Sprintf("history lookup failed: %v", err))
		return err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "start",
		SessionID: sessionID,
	})

	answer, err := h.dispatchAIResponse(ctx, w, flusher, session, history, userMessage)
	if err != nil {
		h.sendSSEError(w, flusher, fmt.Sprintf("answer generation failed: %v", err))
		return err
	}

	if err := h.registry.AppendExchange(ctx, sessionID, userMessage, answer); err != nil {
		log.Printf("[stream] failed to record exchange for session=%s: %v", sessionID, err)
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		Finished:  true,
	})

	log.Printf("[stream] completed response for session=%s", sessionID)
	return nil
}

// dispatchAIResponse streams deltas when streaming is enabled, otherwise sends
// the full answer as a single message event.
func (h *Handler) dispatchAIResponse(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, session meeting.Session, history []meeting.Message, userMessage string) (string, error) {
	if h.generator.StreamingEnabled() {
		return h.streamAIResponse(ctx, w, flusher, session, history, userMessage)
	}

	answer, err := h.generator.GenerateResponse(ctx, session, history, userMessage)
	if err != nil {
		return "", err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: session.ID,
		Content:   answer,
	})

	return answer, nil
}

func (h *Handler) streamAIResponse(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, session meeting.Session, history []meeting.Message, userMessage string) (string, error) {
	stream, err := h.generator.StreamResponse(ctx, session, history, userMessage)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)

	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", recvErr
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			h.sendSSE(w, flusher, StreamResponse{
				Event:     "delta",
				SessionID: session.ID,
				Content:   chunk.Content,
			})
		}
	}

	response, err := schema.ConcatMessages(chunks)
	if err != nil {
		return "", err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: session.ID,
		Content:   response.Content,
	})

	return response.Content, nil
}

// sendSSE sends a Server-Sent Event.
func (h *Handler) sendSSE(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	utils.SendSSEChunk(w, flusher, response)
}

func (h *Handler) sendSSEError(w http.ResponseWriter, flusher http.Flusher, message string) {
	h.sendSSE(w, flusher, StreamResponse{Event: "error", Error: message, Finished: true})
}
