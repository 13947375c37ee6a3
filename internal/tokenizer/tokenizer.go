// Package tokenizer counts and trims prompt tokens.
package tokenizer

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"

	"github.com/vibecheck/vibecheck/internal/prompt"
)

// Encoding is used for every provider. It is exact for OpenAI chat models and
// a close estimate for the others.
const Encoding = "cl100k_base"

const (
	tokensPerMessage = 4
	replyPriming     = 2
)

// Tokenizer wraps tiktoken for approximate token counting.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

func New() (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(Encoding)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: get encoding: %w", err)
	}
	return &Tokenizer{enc: enc}, nil
}

// Count returns the approximate number of tokens in s.
func (t *Tokenizer) Count(s string) int {
	if s == "" {
		return 0
	}
	return len(t.enc.Encode(s, nil, nil))
}

// CountMessages estimates the prompt size of a chat request, including the
// per-message framing and the tokens that prime the reply.
func (t *Tokenizer) CountMessages(messages []prompt.Message) int {
	if len(messages) == 0 {
		return 0
	}
	n := replyPriming
	for _, m := range messages {
		n += tokensPerMessage + t.Count(string(m.Role)) + t.Count(m.Content)
	}
	return n
}

// Truncate cuts s to at most maxTokens tokens.
func (t *Tokenizer) Truncate(s string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	tokens := t.enc.Encode(s, nil, nil)
	if len(tokens) <= maxTokens {
		return s
	}
	return t.enc.Decode(tokens[:maxTokens])
}
