// Package corpus turns a directory of text files into passages sized for
// embedding.
package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Passage is one embeddable piece of a source file.
type Passage struct {
	Source    string // path relative to the corpus root
	StartLine int
	EndLine   int
	Text      string
}

// Options controls Load.
type Options struct {
	MaxLines   int      // lines per passage; 0 = DefaultMaxLines
	Overlap    int      // lines shared by consecutive passages; 0 = DefaultOverlap
	Extensions []string // nil = DefaultExtensions
}

// Load walks root, honouring root/.gitignore, and splits every matching text
// file into passages. Blank passages are dropped. Unreadable files are
// reported in errs and skipped.
func Load(root string, opts Options) (passages []Passage, errs []error) {
	if opts.MaxLines <= 0 {
		opts.MaxLines = DefaultMaxLines
	}
	if opts.Overlap <= 0 {
		opts.Overlap = DefaultOverlap
	}
	if opts.Extensions == nil {
		opts.Extensions = DefaultExtensions
	}

	ignore := newIgnoreMatcher(root)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if SkipDir(d.Name()) || ignore.match(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !slices.Contains(opts.Extensions, strings.ToLower(filepath.Ext(path))) || ignore.match(rel) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", rel, err))
			return nil
		}
		passages = append(passages, split(rel, string(content), opts)...)
		return nil
	})
	if err != nil {
		errs = append(errs, err)
	}
	return passages, errs
}

func split(source, content string, opts Options) []Passage {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	var spans []span
	if isMarkdown(source) {
		spans = splitMarkdown(lines, opts.MaxLines)
	} else {
		spans = splitLines(lines, opts.MaxLines, opts.Overlap)
	}

	out := make([]Passage, 0, len(spans))
	for _, s := range spans {
		text := strings.TrimSpace(s.text)
		if text == "" {
			continue
		}
		out = append(out, Passage{Source: source, StartLine: s.start, EndLine: s.end, Text: text})
	}
	return out
}

// Texts returns the passage texts in order.
func Texts(passages []Passage) []string {
	out := make([]string, len(passages))
	for i, p := range passages {
		out[i] = p.Text
	}
	return out
}

// IsDir reports whether path names a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
