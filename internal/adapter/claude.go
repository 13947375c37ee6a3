package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/vibecheck/vibecheck/internal/prompt"
)

// DefaultClaudeChatModel is used when no chat model is configured.
const DefaultClaudeChatModel = "claude-sonnet-4-6"

// claudeAdapter implements Backend for Anthropic Claude. Claude has no
// embedding endpoint, so only Chat is functional.
type claudeAdapter struct {
	client    *anthropic.Client
	chatModel string
	maxTokens int
}

// NewClaude creates a Claude adapter. If apiKey is empty, ANTHROPIC_API_KEY is used.
func NewClaude(apiKey, chatModel string, maxTokens int) (Backend, error) {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is not set", ErrMissingCredential)
	}
	if chatModel == "" {
		chatModel = DefaultClaudeChatModel
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &claudeAdapter{
		client:    anthropic.NewClient(apiKey),
		chatModel: chatModel,
		maxTokens: maxTokens,
	}, nil
}

func (c *claudeAdapter) Info() ModelInfo {
	return ModelInfo{
		Provider:           ProviderClaude,
		ChatModel:          c.chatModel,
		SupportsEmbeddings: false,
	}
}

func (c *claudeAdapter) EmbedBatch(_ context.Context, _ string, _ []string) ([][]float32, error) {
	return nil, fmt.Errorf("claude adapter: embeddings: %w; use openai, ollama or gemini", ErrUnsupported)
}

func (c *claudeAdapter) EmbedOne(_ context.Context, _, _ string) ([]float32, error) {
	return nil, fmt.Errorf("claude adapter: embeddings: %w; use openai, ollama or gemini", ErrUnsupported)
}

func (c *claudeAdapter) Chat(ctx context.Context, messages []prompt.Message) (string, error) {
	system, turns := splitClaudeMessages(messages)
	if len(turns) == 0 {
		return "", errors.New("claude chat: no user or assistant messages")
	}

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.chatModel),
		Messages:  turns,
		MaxTokens: c.maxTokens,
		System:    system,
	})
	if err != nil {
		return "", backendErr(ProviderClaude, "chat", err)
	}
	if len(resp.Content) == 0 {
		return "", backendErr(ProviderClaude, "chat", errors.New("empty content"))
	}
	return resp.Content[0].GetText(), nil
}

// splitClaudeMessages moves system messages into the request's System field,
// which is where the Messages API expects them.
func splitClaudeMessages(messages []prompt.Message) (string, []anthropic.Message) {
	var system []string
	turns := make([]anthropic.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case prompt.RoleSystem:
			system = append(system, m.Content)
		case prompt.RoleAssistant:
			turns = append(turns, anthropic.Message{
				Role:    anthropic.RoleAssistant,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(m.Content)},
			})
		default:
			turns = append(turns, anthropic.Message{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(m.Content)},
			})
		}
	}
	return strings.Join(system, "\n\n"), turns
}
