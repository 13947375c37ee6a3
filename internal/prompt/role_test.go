package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRolePrompt_ValidRoles(t *testing.T) {
	for _, r := range []Role{RoleSystem, RoleUser, RoleAssistant} {
		p, err := NewRolePrompt("hi {x}", r)
		require.NoError(t, err)
		assert.Equal(t, r, p.Role())
	}
}

func TestNewRolePrompt_InvalidRole(t *testing.T) {
	for _, r := range []Role{"", "System", "tool", "function", "admin", " user"} {
		_, err := NewRolePrompt("hi", r)
		assert.ErrorIs(t, err, ErrInvalidRole, "role %q", r)
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Assistant ")
	require.NoError(t, err)
	assert.Equal(t, RoleAssistant, r)

	_, err = ParseRole("narrator")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestSystemPrompt_DefaultsOnly(t *testing.T) {
	p := NewSystemPrompt("Be {tone}.", WithDefaults(Values{"tone": "helpful"}))
	msg, err := p.Message(nil)
	require.NoError(t, err)
	assert.Equal(t, Message{Role: RoleSystem, Content: "Be helpful."}, msg)
}

func TestConvenienceConstructorsMatchDirect(t *testing.T) {
	values := Values{"q": "why?"}
	cases := []struct {
		conv func(string, ...Option) *RolePrompt
		role Role
	}{
		{NewSystemPrompt, RoleSystem},
		{NewUserPrompt, RoleUser},
		{NewAssistantPrompt, RoleAssistant},
	}
	for _, tc := range cases {
		direct, err := NewRolePrompt("Q: {q}", tc.role)
		require.NoError(t, err)

		want, err := direct.Message(values)
		require.NoError(t, err)
		got, err := tc.conv("Q: {q}").Message(values)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestMessage_Repeatable(t *testing.T) {
	p := NewUserPrompt("{question}")
	a, err := p.Message(Values{"question": "one"})
	require.NoError(t, err)
	b, err := p.Message(Values{"question": "two"})
	require.NoError(t, err)
	assert.Equal(t, "one", a.Content)
	assert.Equal(t, "two", b.Content)
	assert.Equal(t, RoleUser, b.Role)
}

func TestMessage_StrictError(t *testing.T) {
	p := NewUserPrompt("{question}", WithStrict(true))
	_, err := p.Message(nil)
	assert.ErrorIs(t, err, ErrMissingVariable)
}

func TestCompose(t *testing.T) {
	sys := NewSystemPrompt("You are {persona}.", WithDefaults(Values{"persona": "calm"}))
	usr := NewUserPrompt("{question}")

	msgs, err := Compose(
		Part{Prompt: sys},
		Part{Prompt: usr, Values: Values{"question": "How do I relax?"}},
	)
	require.NoError(t, err)
	assert.Equal(t, []Message{
		{Role: RoleSystem, Content: "You are calm."},
		{Role: RoleUser, Content: "How do I relax?"},
	}, msgs)

	_, err = Compose(Part{})
	assert.Error(t, err)
}
