package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/yuchenzhao/minutemate/internal/config"
	"github.com/yuchenzhao/minutemate/internal/model/meeting"
)

// Service answers transcript questions through the configured chat model.
type Service struct {
	cfg   config.AIConfig
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the analyst prompt chain on top of the configured model.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		cfg:   cfg,
		chain: runnable,
	}, nil
}

// StreamingEnabled 指示是否开启 SSE 流式输出。
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// GenerateResponse runs one question against the session's transcript and
// replayed history, returning the assistant text.
func (s *Service) GenerateResponse(ctx context.Context, session meeting.Session, history []meeting.Message, userMessage string) (string, error) {
	input := buildChainInput(session, history, userMessage)

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run analyst chain: %w", err)
	}

	log.Printf("[ai] generated response for session=%s, length=%d", session.ID, len(response.Content))
	return response.Content, nil
}

// StreamResponse streams answer chunks via the configured chain.
func (s *Service) StreamResponse(ctx context.Context, session meeting.Session, history []meeting.Message, userMessage string) (*schema.StreamReader[*schema.Message], error) {
	if !s.StreamingEnabled() {
		return nil, fmt.Errorf("streaming disabled in configuration")
	}

	input := buildChainInput(session, history, userMessage)

	stream, err := s.chain.Stream(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to stream analyst chain output: %w", err)
	}

	return stream, nil
}

func buildChainInput(session meeting.Session, history []meeting.Message, userMessage string) map[string]any {
	return map[string]any{
		"system":  BuildSystemPrompt(session.Transcript),
		"history": buildHistoryMessages(history),
		"query":   userMessage,
	}
}

// buildHistoryMessages replays the full stored history in order. Transcript
// analysis follows up on earlier answers, so no recency window is applied.
func buildHistoryMessages(messages []meeting.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case meeting.RoleUser:
			history = append(history, schema.UserMessage(msg.Content))
		case meeting.RoleAssistant:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}

	return history
}
