package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vibecheck/vibecheck/internal/prompt"
)

// DefaultOpenAIChatModel is used when no chat model is configured.
const DefaultOpenAIChatModel = "gpt-4o-mini"

// openaiAdapter implements Backend for OpenAI and OpenAI-compatible servers.
type openaiAdapter struct {
	client    *openai.Client
	chatModel string
}

// NewOpenAI creates an OpenAI adapter. If apiKey is empty, OPENAI_API_KEY is
// used; if that is empty too, ErrMissingCredential is returned.
func NewOpenAI(apiKey, baseURL, chatModel string) (Backend, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrMissingCredential)
	}
	if chatModel == "" {
		chatModel = DefaultOpenAIChatModel
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}

	return &openaiAdapter{
		client:    openai.NewClientWithConfig(cfg),
		chatModel: chatModel,
	}, nil
}

func (o *openaiAdapter) Info() ModelInfo {
	return ModelInfo{
		Provider:           ProviderOpenAI,
		ChatModel:          o.chatModel,
		SupportsEmbeddings: true,
	}
}

func (o *openaiAdapter) EmbedBatch(ctx context.Context, model string, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(model),
	})
	if err != nil {
		return nil, backendErr(ProviderOpenAI, "embed", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, backendErr(ProviderOpenAI, "embed",
			fmt.Errorf("got %d embeddings for %d inputs", len(resp.Data), len(texts)))
	}

	// The API reports each vector's input position; place by index rather
	// than trusting response order.
	result := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) || result[d.Index] != nil {
			return nil, backendErr(ProviderOpenAI, "embed", fmt.Errorf("invalid embedding index %d", d.Index))
		}
		result[d.Index] = d.Embedding
	}
	return result, nil
}

func (o *openaiAdapter) EmbedOne(ctx context.Context, model, text string) ([]float32, error) {
	vecs, err := o.EmbedBatch(ctx, model, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (o *openaiAdapter) Chat(ctx context.Context, messages []prompt.Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("openai chat: no messages")
	}

	req := openai.ChatCompletionRequest{
		Model:    o.chatModel,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", backendErr(ProviderOpenAI, "chat", err)
	}
	if len(resp.Choices) == 0 {
		return "", backendErr(ProviderOpenAI, "chat", errors.New("empty choices"))
	}
	return resp.Choices[0].Message.Content, nil
}
