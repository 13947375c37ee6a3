package corpus

import "strings"

const (
	DefaultMaxLines = 40
	DefaultOverlap  = 5
)

// span is a line range of one file, 1-based and inclusive.
type span struct {
	start, end int
	text       string
}

// splitLines cuts content into windows of at most maxLines lines, each
// sharing overlap lines with the one before.
func splitLines(lines []string, maxLines, overlap int) []span {
	total := len(lines)
	if total <= maxLines {
		return []span{{start: 1, end: total, text: strings.Join(lines, "\n")}}
	}

	advance := maxLines - overlap
	if advance <= 0 {
		advance = maxLines
	}

	var spans []span
	for start := 0; start < total; start += advance {
		end := min(start+maxLines, total)
		spans = append(spans, span{start: start + 1, end: end, text: strings.Join(lines[start:end], "\n")})
		if end == total {
			break
		}
	}
	return spans
}

// splitMarkdown starts a new span at every ## or ### heading and force-splits
// sections longer than maxLines.
func splitMarkdown(lines []string, maxLines int) []span {
	var spans []span
	var current []string
	start := 1

	flush := func(end int) {
		if len(current) > 0 {
			spans = append(spans, span{start: start, end: end, text: strings.Join(current, "\n")})
			current = nil
		}
	}

	for i, line := range lines {
		n := i + 1
		if (strings.HasPrefix(line, "## ") || strings.HasPrefix(line, "### ")) && len(current) > 0 {
			flush(n - 1)
			start = n
		}
		current = append(current, line)
		if len(current) >= maxLines {
			flush(n)
			start = n + 1
		}
	}
	flush(len(lines))
	return spans
}
