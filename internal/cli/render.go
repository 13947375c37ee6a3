package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vibecheck/vibecheck/internal/prompt"
	"github.com/vibecheck/vibecheck/internal/tokenizer"
)

func newRenderCmd() *cobra.Command {
	var (
		role     string
		sets     []string
		defaults []string
		strict   bool
		tokens   bool
		asJSON   bool
		listVars bool
	)

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Fill {name} placeholders in a prompt template",
		Long: `Render a template, substituting each {name} placeholder.

Pass "-" to read the template from stdin. Values given with --set win over
--default; anything left unresolved renders as an empty string unless
--strict is given.

Examples:
  vibecheck render "Hello {name}" --set name=Ana
  vibecheck render - --role system --json < system.txt
  vibecheck render "Summarize {doc}" --vars`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			if text == "-" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read template: %w", err)
				}
				text = string(data)
			}

			r, err := prompt.ParseRole(role)
			if err != nil {
				return err
			}
			values, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			defs, err := parseAssignments(defaults)
			if err != nil {
				return err
			}

			rp, err := prompt.NewRolePrompt(text, r, prompt.WithDefaults(defs), prompt.WithStrict(strict))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if listVars {
				for _, name := range rp.Placeholders() {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			msg, err := rp.Message(values)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetEscapeHTML(false)
				if err := enc.Encode(msg); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, msg.Content)
			}

			if tokens {
				tok, err := tokenizer.New()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "--- %d tokens ---\n", tok.Count(msg.Content))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&role, "role", "r", string(prompt.RoleUser), "message role: system, user, assistant")
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "placeholder value as name=value (repeatable)")
	cmd.Flags().StringArrayVar(&defaults, "default", nil, "template default as name=value (repeatable)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when a placeholder has no value")
	cmd.Flags().BoolVar(&tokens, "tokens", false, "print the rendered token count to stderr")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the role-tagged message as JSON")
	cmd.Flags().BoolVar(&listVars, "vars", false, "list the template's placeholder names and exit")

	return cmd
}

// parseAssignments turns name=value pairs into prompt values. The value may
// itself contain "=".
func parseAssignments(pairs []string) (prompt.Values, error) {
	values := make(prompt.Values, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid assignment %q: want name=value", p)
		}
		values[name] = value
	}
	return values, nil
}
