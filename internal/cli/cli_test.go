package cli

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibecheck/vibecheck/internal/config"
	"github.com/vibecheck/vibecheck/internal/embedding"
	"github.com/vibecheck/vibecheck/internal/prompt"
)

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRender_Substitutes(t *testing.T) {
	out, err := run(t, newRenderCmd(), "Hello {name}, you are {age}", "--set", "name=Ana", "--set", "age=30")
	require.NoError(t, err)
	assert.Equal(t, "Hello Ana, you are 30\n", out)
}

func TestRender_MissingBecomesEmpty(t *testing.T) {
	out, err := run(t, newRenderCmd(), "[{x}]")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestRender_Strict(t *testing.T) {
	_, err := run(t, newRenderCmd(), "Hi {name}", "--strict")
	assert.ErrorIs(t, err, prompt.ErrMissingVariable)
}

func TestRender_DefaultsAndJSON(t *testing.T) {
	out, err := run(t, newRenderCmd(), "{greeting} <{name}>", "--role", "system", "--default", "greeting=Hi", "--set", "name=Bo", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"system","content":"Hi <Bo>"}`, out)
}

func TestRender_InvalidRole(t *testing.T) {
	_, err := run(t, newRenderCmd(), "x", "--role", "narrator")
	assert.ErrorIs(t, err, prompt.ErrInvalidRole)
}

func TestRender_Vars(t *testing.T) {
	out, err := run(t, newRenderCmd(), "{b} {a} {b}", "--vars")
	require.NoError(t, err)
	assert.Equal(t, "b\na\n", out)
}

func TestParseAssignments(t *testing.T) {
	v, err := parseAssignments([]string{"a=1", "b=x=y", "c="})
	require.NoError(t, err)
	assert.Equal(t, prompt.Values{"a": "1", "b": "x=y", "c": ""}, v)

	_, err = parseAssignments([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseAssignments([]string{"=v"})
	assert.Error(t, err)
}

func TestReadLines(t *testing.T) {
	lines, err := readLines(strings.NewReader("one\n\n  two  \r\n\t\nthree"))
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, lines)
}

func TestRunSetup_Claude(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("2\nak-123\n1\nsk-456\n"))
	cfg := runSetup(in, io.Discard)

	assert.Equal(t, "claude", cfg.Provider)
	assert.Equal(t, "ak-123", cfg.Keys.Anthropic)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.Equal(t, "sk-456", cfg.Keys.OpenAI)
}

func TestRunSetup_OllamaHost(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("3\n2\nhttp://gpu:11434\n"))
	cfg := runSetup(in, io.Discard)

	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, "ollama", cfg.Embedding.Provider)
	assert.Equal(t, "http://gpu:11434", cfg.Ollama.Host)
}

func TestSetup_WritesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfgFile = path
	t.Cleanup(func() { cfgFile = "" })

	cmd := newSetupCmd()
	cmd.SetIn(strings.NewReader("1\nsk-abc\n1\n"))
	out, err := run(t, cmd)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	t.Setenv("OPENAI_API_KEY", "")
	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-abc", cfg.Keys.OpenAI)
}

func TestVersion(t *testing.T) {
	out, err := run(t, newVersionCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "vibecheck dev")
}

func TestRunSetup_Gemini(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("4\ng-1\n3\n"))
	cfg := runSetup(in, io.Discard)

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "gemini", cfg.Embedding.Provider)
	assert.Equal(t, "g-1", cfg.Keys.Gemini)
}

func TestReadInputs_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tips.txt")
	require.NoError(t, os.WriteFile(path, []byte("rest\n\nwalk\n"), 0o644))

	texts, labels, err := readInputs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"rest", "walk"}, texts)
	assert.Equal(t, texts, labels)
}

func TestReadInputs_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\ntwo"), 0o644))

	texts, labels, err := readInputs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"one\ntwo"}, texts)
	assert.Equal(t, []string{"a.txt:1-2"}, labels)
}

func TestPrintMatches(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	matches := []embedding.Match{{Index: 1, Score: 0.9}, {Index: 0, Score: 0.5}, {Index: 2, Score: 0.1}}
	printMatches(cmd, matches, []string{"a", "b", "c"}, 2)
	assert.Equal(t, "0.9000  b\n0.5000  a\n", out.String())
}
