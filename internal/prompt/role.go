package prompt

import (
	"fmt"
	"strings"
)

// Role is the conversational speaker tag attached to a message.
type Role string

// Valid roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ValidRole reports whether r is one of the supported roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// ParseRole converts s to a Role, rejecting anything outside the closed set.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !ValidRole(r) {
		return "", fmt.Errorf("%w %q; must be one of system, user, assistant", ErrInvalidRole, s)
	}
	return r, nil
}

// Message is a single role/content pair sent to a chat backend.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// RolePrompt binds a Template to a fixed role.
type RolePrompt struct {
	*Template
	role Role
}

// NewRolePrompt creates a RolePrompt. It fails with ErrInvalidRole when role
// is not system, user or assistant.
func NewRolePrompt(text string, role Role, opts ...Option) (*RolePrompt, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf("%w %q; must be one of system, user, assistant", ErrInvalidRole, role)
	}
	return &RolePrompt{Template: NewTemplate(text, opts...), role: role}, nil
}

// NewSystemPrompt creates a system-role prompt.
func NewSystemPrompt(text string, opts ...Option) *RolePrompt {
	return &RolePrompt{Template: NewTemplate(text, opts...), role: RoleSystem}
}

// NewUserPrompt creates a user-role prompt.
func NewUserPrompt(text string, opts ...Option) *RolePrompt {
	return &RolePrompt{Template: NewTemplate(text, opts...), role: RoleUser}
}

// NewAssistantPrompt creates an assistant-role prompt.
func NewAssistantPrompt(text string, opts ...Option) *RolePrompt {
	return &RolePrompt{Template: NewTemplate(text, opts...), role: RoleAssistant}
}

// Role returns the prompt's fixed role.
func (p *RolePrompt) Role() Role { return p.role }

// Message renders the template with values and wraps it with the prompt's role.
func (p *RolePrompt) Message(values Values) (Message, error) {
	content, err := p.Render(values)
	if err != nil {
		return Message{}, fmt.Errorf("%s prompt: %w", p.role, err)
	}
	return Message{Role: p.role, Content: content}, nil
}

// Part pairs a RolePrompt with the values it should be rendered with.
type Part struct {
	Prompt *RolePrompt
	Values Values
}

// Compose renders parts in order into a message list.
func Compose(parts ...Part) ([]Message, error) {
	msgs := make([]Message, 0, len(parts))
	for i, part := range parts {
		if part.Prompt == nil {
			return nil, fmt.Errorf("prompt: compose: part %d has no prompt", i)
		}
		m, err := part.Prompt.Message(part.Values)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
