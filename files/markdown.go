package files

import (
	"strings"
)

// Markdown is a markdown document.
type Markdown struct{ document }

// NewMarkdown wraps in-memory markdown contents.
func NewMarkdown(source, contents string) *Markdown {
	return &Markdown{document{source: source, contents: contents}}
}

// ReadMarkdown reads a markdown file from disk.
func ReadMarkdown(path string) (*Markdown, error) {
	d, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return &Markdown{d}, nil
}

type markdownState int

const (
	mdNone markdownState = iota
	mdCodeBlock
	mdParagraph
	mdFrontMatter
)

// Parse returns one chunk per paragraph and per fenced code block. Headings,
// blank lines and "---" delimited blocks are dropped. Every chunk line keeps
// its trailing newline.
func (m *Markdown) Parse() ([]string, error) {
	var (
		chunks []string
		state  = mdNone
		buf    strings.Builder
	)

	flush := func() {
		if buf.Len() > 0 {
			chunks = append(chunks, buf.String())
		}
		buf.Reset()
	}

	for _, line := range strings.Split(m.contents, "\n") {
		line = strings.TrimSuffix(line, "\r")

		switch state {
		case mdNone:
			switch {
			case strings.HasPrefix(line, "```"):
				state = mdCodeBlock
				buf.WriteString(line + "\n")
			case strings.HasPrefix(line, "---"):
				state = mdFrontMatter
			case line != "" && !strings.HasPrefix(line, "#"):
				state = mdParagraph
				buf.WriteString(line + "\n")
			}
		case mdCodeBlock:
			buf.WriteString(line + "\n")
			if strings.HasPrefix(line, "```") {
				flush()
				state = mdNone
			}
		case mdFrontMatter:
			if strings.HasPrefix(line, "---") {
				state = mdNone
			}
		case mdParagraph:
			if line == "" {
				flush()
				state = mdNone
				continue
			}
			buf.WriteString(line + "\n")
		}
	}

	// An unterminated paragraph or code block at EOF is still a chunk.
	if state == mdParagraph || state == mdCodeBlock {
		flush()
	}

	return chunks, nil
}
