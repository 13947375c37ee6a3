package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/vibecheck/vibecheck/internal/prompt"
)

const (
	DefaultGeminiBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiChatModel  = "gemini-2.0-flash"
	DefaultGeminiEmbedModel = "text-embedding-004"
)

// geminiAdapter implements Backend for Google Gemini via the REST API.
type geminiAdapter struct {
	apiKey    string
	baseURL   string
	chatModel string
	client    *http.Client
}

// NewGemini creates a Gemini adapter. If apiKey is empty, GEMINI_API_KEY is used.
func NewGemini(apiKey, baseURL, chatModel string) (Backend, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set GEMINI_API_KEY or keys.gemini", ErrMissingCredential)
	}
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	if chatModel == "" {
		chatModel = DefaultGeminiChatModel
	}
	return &geminiAdapter{
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		chatModel: chatModel,
		client:    &http.Client{},
	}, nil
}

func (g *geminiAdapter) Info() ModelInfo {
	return ModelInfo{
		Provider:           ProviderGemini,
		ChatModel:          g.chatModel,
		SupportsEmbeddings: true,
	}
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiEmbedRequest struct {
	Model   string        `json:"model"`
	Content geminiContent `json:"content"`
}

type geminiBatchEmbedRequest struct {
	Requests []geminiEmbedRequest `json:"requests"`
}

type geminiBatchEmbedResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

// EmbedBatch sends all texts in one batchEmbedContents call.
func (g *geminiAdapter) EmbedBatch(ctx context.Context, model string, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if model == "" {
		model = DefaultGeminiEmbedModel
	}

	req := geminiBatchEmbedRequest{Requests: make([]geminiEmbedRequest, len(texts))}
	for i, text := range texts {
		req.Requests[i] = geminiEmbedRequest{
			Model:   "models/" + model,
			Content: geminiContent{Parts: []geminiPart{{Text: text}}},
		}
	}

	var result geminiBatchEmbedResponse
	if err := g.post(ctx, "/models/"+model+":batchEmbedContents", req, &result); err != nil {
		return nil, backendErr(ProviderGemini, "embed", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, backendErr(ProviderGemini, "embed",
			fmt.Errorf("got %d embeddings for %d inputs", len(result.Embeddings), len(texts)))
	}

	vecs := make([][]float32, len(texts))
	for i, e := range result.Embeddings {
		vecs[i] = e.Values
	}
	return vecs, nil
}

func (g *geminiAdapter) EmbedOne(ctx context.Context, model, text string) ([]float32, error) {
	vecs, err := g.EmbedBatch(ctx, model, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

type geminiGenerateRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *geminiAdapter) Chat(ctx context.Context, messages []prompt.Message) (string, error) {
	var result geminiGenerateResponse
	if err := g.post(ctx, "/models/"+g.chatModel+":generateContent", buildGeminiRequest(messages), &result); err != nil {
		return "", backendErr(ProviderGemini, "chat", err)
	}

	var parts []string
	for _, cand := range result.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				parts = append(parts, part.Text)
			}
		}
	}
	return strings.Join(parts, ""), nil
}

// buildGeminiRequest lifts system messages into the system instruction.
// Gemini names the assistant role "model".
func buildGeminiRequest(messages []prompt.Message) geminiGenerateRequest {
	var req geminiGenerateRequest
	var system []string
	for _, m := range messages {
		switch m.Role {
		case prompt.RoleSystem:
			system = append(system, m.Content)
		case prompt.RoleAssistant:
			req.Contents = append(req.Contents, geminiContent{Role: "model", Parts: []geminiPart{{Text: m.Content}}})
		default:
			req.Contents = append(req.Contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: m.Content}}})
		}
	}
	if len(system) > 0 {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: strings.Join(system, "\n\n")}}}
	}
	return req
}

func (g *geminiAdapter) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
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
