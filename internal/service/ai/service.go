// Package ai implements the model-backed collaborators: the feedback Q&A
// chat and the structured speech improver.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/orviss/podium/backend/internal/config"
	"github.com/orviss/podium/backend/internal/model/feedback"
	"github.com/orviss/podium/backend/internal/model/ideal"
)

var ErrConversationNotFound = errors.New("conversation not found")

// conversationState keeps the service-side context of one chat: the
// serialized document plus the model-visible history.
type conversationState struct {
	feedbackJSON string
	history      []*schema.Message
}

// Service runs eino chains against the configured Ark model.
type Service struct {
	cfg          config.AIConfig
	chatChain    compose.Runnable[map[string]any, *schema.Message]
	improveChain compose.Runnable[map[string]any, *schema.Message]

	mu            sync.Mutex
	conversations map[string]*conversationState
}

// NewService compiles the chat and improvement chains.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	chatTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(coachSystemInstruction),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage(chatUserPrompt),
	)
	chatChain := compose.NewChain[map[string]any, *schema.Message]()
	chatChain.AppendChatTemplate(chatTemplate)
	chatChain.AppendChatModel(chatModel)
	chatRunnable, err := chatChain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	improveTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(improveSystemPrompt),
		schema.UserMessage(improveUserPrompt),
	)
	improveChain := compose.NewChain[map[string]any, *schema.Message]()
	improveChain.AppendChatTemplate(improveTemplate)
	improveChain.AppendChatModel(chatModel)
	improveRunnable, err := improveChain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile improvement chain: %w", err)
	}

	return &Service{
		cfg:           cfg,
		chatChain:     chatRunnable,
		improveChain:  improveRunnable,
		conversations: make(map[string]*conversationState),
	}, nil
}

// StartChat opens a conversation scoped to doc and returns its id with the
// fixed greeting.
func (s *Service) StartChat(_ context.Context, doc *feedback.Document) (string, string, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", "", fmt.Errorf("failed to serialize feedback document: %w", err)
	}

	conversationID := uuid.NewString()

	s.mu.Lock()
	s.conversations[conversationID] = &conversationState{feedbackJSON: string(payload)}
	s.mu.Unlock()

	log.Printf("[ai] started conversation %s", conversationID)
	return conversationID, greeting, nil
}

// SendMessage answers one user turn using only the conversation's document.
func (s *Service) SendMessage(ctx context.Context, conversationID, text string) (string, error) {
	s.mu.Lock()
	state, ok := s.conversations[conversationID]
	if !ok {
		s.mu.Unlock()
		return "", ErrConversationNotFound
	}
	history := make([]*schema.Message, len(state.history))
	copy(history, state.history)
	feedbackJSON := state.feedbackJSON
	s.mu.Unlock()

	input := map[string]any{
		"history":       trimHistory(history, s.cfg.HistoryLimit),
		"feedback_json": feedbackJSON,
		"user_message":  text,
	}

	response, err := s.chatChain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run chat chain: %w", err)
	}

	s.mu.Lock()
	state.history = append(state.history,
		schema.UserMessage(text),
		schema.AssistantMessage(response.Content, nil),
	)
	s.mu.Unlock()

	log.Printf("[ai] answered turn for conversation=%s, length=%d", conversationID, len(response.Content))
	return response.Content, nil
}

// ImproveSpeech rewrites a transcription and parses the structured result.
func (s *Service) ImproveSpeech(ctx context.Context, transcription, focus string) (*ideal.Improvement, error) {
	focusLine := ""
	if strings.TrimSpace(focus) != "" {
		focusLine = "Focus areas: " + strings.TrimSpace(focus)
	}

	response, err := s.improveChain.Invoke(ctx, map[string]any{
		"transcription": transcription,
		"focus_line":    focusLine,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to run improvement chain: %w", err)
	}

	improvement, err := parseImprovement(response.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse improvement output: %w", err)
	}
	return improvement, nil
}

// parseImprovement extracts the JSON object from the model output, which may
// be wrapped in prose or code fences.
func parseImprovement(content string) (*ideal.Improvement, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	improvement := &ideal.Improvement{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), improvement); err != nil {
		return nil, err
	}
	if strings.TrimSpace(improvement.ImprovedSpeech) == "" {
		return nil, fmt.Errorf("improved_speech is empty")
	}
	return improvement, nil
}

// trimHistory keeps the most recent turns within the configured limit.
func trimHistory(history []*schema.Message, limit int) []*schema.Message {
	if limit <= 0 {
		limit = 10
	}
	if len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}
