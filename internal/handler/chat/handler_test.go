package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/yuchenzhao/minutemate/internal/model/meeting"
	chatservice "github.com/yuchenzhao/minutemate/internal/service/chat"
	sessionservice "github.com/yuchenzhao/minutemate/internal/service/session"
)

type stubResponder struct {
	answer string
	err    error
}

func (r *stubResponder) GenerateResponse(_ context.Context, _ meeting.Session, _ []meeting.Message, _ string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.answer, nil
}

func setupRouter(responder chatservice.Responder) (*chi.Mux, *sessionservice.Service) {
	registry := sessionservice.NewService()
	chatSvc := chatservice.NewService(registry, responder)
	handler := New(chatSvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, registry
}

func postChat(r http.Handler, body map[string]string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatReturnsAnswer(t *testing.T) {
	r, registry := setupRouter(&stubResponder{answer: "Alice opened the meeting."})

	created, err := registry.Create(context.Background(), "Alice: Hello\nBob: Hi there", "")
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}

	resp := postChat(r, map[string]string{"session_id": created.ID, "message": "Who spoke first?"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Response  string `json:"response"`
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Response != "Alice opened the meeting." {
		t.Fatalf("unexpected response: %q", body.Response)
	}
	if body.SessionID != created.ID {
		t.Fatalf("unexpected session_id: %q", body.SessionID)
	}
}

func TestChatUnknownSession(t *testing.T) {
	r, _ := setupRouter(&stubResponder{answer: "ok"})

	resp := postChat(r, map[string]string{"session_id": "missing", "message": "hello"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestChatMissingFields(t *testing.T) {
	r, _ := setupRouter(&stubResponder{answer: "ok"})

	if resp := postChat(r, map[string]string{"message": "hello"}); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing session_id, got %d", resp.Code)
	}
	if resp := postChat(r, map[string]string{"session_id": "abc"}); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing message, got %d", resp.Code)
	}
}

func TestChatUpstreamFailure(t *testing.T) {
	responder := &stubResponder{err: fmt.Errorf("model unavailable")}
	r, registry := setupRouter(responder)
	ctx := context.Background()

	created, err := registry.Create(ctx, "Alice: Hello\nBob: Hi there", "")
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}

	resp := postChat(r, map[string]string{"session_id": created.ID, "message": "doomed"})
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}

	history, err := registry.History(ctx, created.ID)
	if err != nil {
		t.Fatalf("History err: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("failed chat mutated history: %d entries", len(history))
	}
}
