package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vibecheck/vibecheck/internal/prompt"
)

// DefaultOllamaHost is the address of a local Ollama server.
const DefaultOllamaHost = "http://localhost:11434"

// DefaultOllamaChatModel is used when no chat model is configured.
const DefaultOllamaChatModel = "llama3.2"

// ollamaAdapter implements Backend for a local Ollama instance.
type ollamaAdapter struct {
	host      string
	chatModel string
	client    *http.Client
}

// NewOllama creates an Ollama adapter. Ollama needs no credential.
func NewOllama(host, chatModel string) Backend {
	if host == "" {
		host = DefaultOllamaHost
	}
	if chatModel == "" {
		chatModel = DefaultOllamaChatModel
	}
	return &ollamaAdapter{
		host:      strings.TrimRight(host, "/"),
		chatModel: chatModel,
		client:    &http.Client{},
	}
}

func (o *ollamaAdapter) Info() ModelInfo {
	return ModelInfo{
		Provider:           ProviderOllama,
		ChatModel:          o.chatModel,
		SupportsEmbeddings: true,
	}
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (o *ollamaAdapter) EmbedBatch(ctx context.Context, model string, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	var result ollamaEmbedResponse
	if err := o.post(ctx, "/api/embed", ollamaEmbedRequest{Model: model, Input: texts}, &result); err != nil {
		return nil, backendErr(ProviderOllama, "embed", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, backendErr(ProviderOllama, "embed",
			fmt.Errorf("got %d embeddings for %d inputs", len(result.Embeddings), len(texts)))
	}
	return result.Embeddings, nil
}

func (o *ollamaAdapter) EmbedOne(ctx context.Context, model, text string) ([]float32, error) {
	vecs, err := o.EmbedBatch(ctx, model, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

type ollamaChatRequest struct {
	Model    string           `json:"model"`
	Messages []prompt.Message `json:"messages"`
	Stream   bool             `json:"stream"`
}

type ollamaChatResponse struct {
	Message prompt.Message `json:"message"`
	Done    bool           `json:"done"`
}

func (o *ollamaAdapter) Chat(ctx context.Context, messages []prompt.Message) (string, error) {
	var result ollamaChatResponse
	err := o.post(ctx, "/api/chat", ollamaChatRequest{
		Model:    o.chatModel,
		Messages: messages,
		Stream:   false,
	}, &result)
	if err != nil {
		return "", backendErr(ProviderOllama, "chat", err)
	}
	return result.Message.Content, nil
}

// post sends body as JSON to path and decodes the JSON reply into out.
func (o *ollamaAdapter) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
