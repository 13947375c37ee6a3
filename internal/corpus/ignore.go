package corpus

import (
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
)

// ignoreMatcher applies the .gitignore found at the corpus root.
type ignoreMatcher struct {
	gi *gitignore.GitIgnore
}

// newIgnoreMatcher loads root/.gitignore. A missing or unreadable file
// yields a matcher that ignores nothing.
func newIgnoreMatcher(root string) *ignoreMatcher {
	gi, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return &ignoreMatcher{}
	}
	return &ignoreMatcher{gi: gi}
}

func (m *ignoreMatcher) match(relPath string) bool {
	if m.gi == nil {
		return false
	}
	return m.gi.MatchesPath(relPath)
}

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"dist":         true,
	"build":        true,
}

// SkipDir reports whether a directory name is always excluded.
func SkipDir(name string) bool {
	return skippedDirs[name]
}

// DefaultExtensions are the file types read as text.
var DefaultExtensions = []string{".txt", ".md", ".markdown", ".rst", ".text"}

func isMarkdown(path string) bool {
	switch filepath.Ext(path) {
	case ".md", ".markdown":
		return true
	}
	return false
}
