package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vibecheck/vibecheck/internal/corpus"
)

// openInput returns the named file, or stdin when path is empty or "-".
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// readLines returns the non-blank lines of r, trimmed.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}

func readLinesFrom(path string) ([]string, error) {
	in, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	return readLines(in)
}

// readInputs loads the texts to embed. A directory is split into passages;
// anything else is read one text per line. labels name each text's origin.
func readInputs(path string) (texts, labels []string, err error) {
	if path != "" && path != "-" && corpus.IsDir(path) {
		passages, errs := corpus.Load(path, corpus.Options{})
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, "  Warning:", e)
		}
		texts = corpus.Texts(passages)
		labels = make([]string, len(passages))
		for i, p := range passages {
			labels[i] = fmt.Sprintf("%s:%d-%d", p.Source, p.StartLine, p.EndLine)
		}
		return texts, labels, nil
	}

	texts, err = readLinesFrom(path)
	if err != nil {
		return nil, nil, err
	}
	return texts, texts, nil
}
