package chat_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/yuchenzhao/minutemate/internal/model/meeting"
	chat "github.com/yuchenzhao/minutemate/internal/service/chat"
	session "github.com/yuchenzhao/minutemate/internal/service/session"
)

type stubResponder struct {
	answer      string
	err         error
	gotHistory  int
	gotQuestion string
}

func (r *stubResponder) GenerateResponse(_ context.Context, _ meeting.Session, history []meeting.Message, userMessage string) (string, error) {
	r.gotHistory = len(history)
	r.gotQuestion = userMessage
	if r.err != nil {
		return "", r.err
	}
	return r.answer, nil
}

func newSession(t *testing.T, registry *session.Service) meeting.Session {
	t.Helper()
	created, err := registry.Create(context.Background(), "Alice: Hello\nBob: Hi there", "")
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	return created
}

func TestChatAppendsExchange(t *testing.T) {
	registry := session.NewService()
	responder := &stubResponder{answer: "Alice and Bob spoke."}
	svc := chat.NewService(registry, responder)
	ctx := context.Background()

	sess := newSession(t, registry)

	answer, err := svc.Chat(ctx, sess.ID, "Who spoke?")
	if err != nil {
		t.Fatalf("Chat err: %v", err)
	}
	if answer != "Alice and Bob spoke." {
		t.Fatalf("unexpected answer: %q", answer)
	}
	if responder.gotQuestion != "Who spoke?" {
		t.Fatalf("responder saw question %q", responder.gotQuestion)
	}

	history, err := registry.History(ctx, sess.ID)
	if err != nil {
		t.Fatalf("History err: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].Role != meeting.RoleUser || history[0].Content != "Who spoke?" {
		t.Fatalf("unexpected first entry: %+v", history[0])
	}
	if history[1].Role != meeting.RoleAssistant || history[1].Content != "Alice and Bob spoke." {
		t.Fatalf("unexpected second entry: %+v", history[1])
	}
}

func TestChatReplaysPriorHistory(t *testing.T) {
	registry := session.NewService()
	responder := &stubResponder{answer: "ok"}
	svc := chat.NewService(registry, responder)
	ctx := context.Background()

	sess := newSession(t, registry)

	if _, err := svc.Chat(ctx, sess.ID, "first"); err != nil {
		t.Fatalf("Chat err: %v", err)
	}
	if _, err := svc.Chat(ctx, sess.ID, "second"); err != nil {
		t.Fatalf("Chat err: %v", err)
	}

	// The second turn must have seen the first exchange as context.
	if responder.gotHistory != 2 {
		t.Fatalf("expected 2 replayed messages on second turn, got %d", responder.gotHistory)
	}
}

func TestChatUnknownSession(t *testing.T) {
	registry := session.NewService()
	svc := chat.NewService(registry, &stubResponder{answer: "ok"})

	if _, err := svc.Chat(context.Background(), "missing", "hello"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestChatUpstreamFailureLeavesHistoryUntouched(t *testing.T) {
	registry := session.NewService()
	responder := &stubResponder{answer: "fine"}
	svc := chat.NewService(registry, responder)
	ctx := context.Background()

	sess := newSession(t, registry)

	if _, err := svc.Chat(ctx, sess.ID, "warm up"); err != nil {
		t.Fatalf("Chat err: %v", err)
	}
	before, _ := registry.History(ctx, sess.ID)

	responder.err = fmt.Errorf("model timeout")
	_, err := svc.Chat(ctx, sess.ID, "doomed question")
	if !errors.Is(err, chat.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}

	after, _ := registry.History(ctx, sess.ID)
	if len(after) != len(before) {
		t.Fatalf("failed turn mutated history: before=%d after=%d", len(before), len(after))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Fatalf("history entry %d changed after failed turn", i)
		}
	}
}
