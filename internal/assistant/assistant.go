// Package assistant composes role prompts into chat calls for the wellness
// assistant.
package assistant

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/vibecheck/vibecheck/internal/adapter"
	"github.com/vibecheck/vibecheck/internal/prompt"
)

// ErrEmptyQuestion is returned when a query has no text.
var ErrEmptyQuestion = errors.New("assistant: question is required")

// DefaultSystemPrompt instructs the model to act as a wellness assistant.
const DefaultSystemPrompt = `You are a holistic wellness assistant that provides both mental health support and physical fitness recommendations.

Your capabilities:
- Provide mental health support and stress management techniques
- Recommend exercises appropriate for different mental states
- Offer breathing exercises and mindfulness techniques
- Give nutrition and sleep hygiene advice
- Suggest lifestyle improvements for overall wellbeing

Guidelines:
- Be warm, supportive, and encouraging
- Provide practical, actionable advice
- When recommending exercises, consider the user's mental state:
  * For stress/anxiety: suggest gentle movements, stretching, breathing exercises
  * For low energy: suggest energizing compound movements
  * For tension: suggest progressive muscle relaxation, stretching
- Always remind users to consult healthcare professionals for medical concerns
- Include safety reminders for physical activity when appropriate

Exercise recommendations by mental state:
- Stress Relief: Bench Dips, Glute Bridges, gentle stretching (bodyweight, novice)
- Energy Boost: Squats, Push-ups, Lunges (compound movements)
- Anxiety Reduction: Deep breathing, Progressive muscle relaxation, slow stretching
- Mood Improvement: Walking, Dancing, any enjoyable physical activity
- Tension Release: Neck rolls, Shoulder shrugs, full body stretching`

// userTemplate carries the caller's question verbatim.
const userTemplate = "{question}"

// Option configures an Assistant.
type Option func(*Assistant)

// WithSystemPrompt replaces the default system prompt.
func WithSystemPrompt(text string) Option {
	return func(a *Assistant) {
		a.system.Store(prompt.NewSystemPrompt(text))
	}
}

// Assistant answers wellness questions through a chat backend. It is built
// once and shared; all methods are safe for concurrent use.
type Assistant struct {
	chat   adapter.Chatter
	system atomic.Pointer[prompt.RolePrompt]
	user   *prompt.RolePrompt
}

// New creates an Assistant that sends messages to chat.
func New(chat adapter.Chatter, opts ...Option) *Assistant {
	a := &Assistant{
		chat: chat,
		user: prompt.NewUserPrompt(userTemplate),
	}
	a.system.Store(prompt.NewSystemPrompt(DefaultSystemPrompt))
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetSystemPrompt swaps the system prompt used by subsequent queries.
func (a *Assistant) SetSystemPrompt(text string) {
	a.system.Store(prompt.NewSystemPrompt(text))
}

// SystemPrompt returns the current system prompt text.
func (a *Assistant) SystemPrompt() string {
	return a.system.Load().Text()
}

// Messages returns the message list Query would send for question.
func (a *Assistant) Messages(question string) ([]prompt.Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	return prompt.Compose(
		prompt.Part{Prompt: a.system.Load()},
		prompt.Part{Prompt: a.user, Values: prompt.Values{"question": question}},
	)
}

// Query sends question to the chat backend and returns the reply. Backend
// errors are returned unchanged.
func (a *Assistant) Query(ctx context.Context, question string) (string, error) {
	msgs, err := a.Messages(question)
	if err != nil {
		return "", err
	}
	reply, err := a.chat.Chat(ctx, msgs)
	if err != nil {
		return "", err
	}
	return reply, nil
}
