package files

import (
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// ChunkSize is the target chunk length in characters for plain text.
	ChunkSize = 1000
	// ChunkOverlap is the number of characters shared by adjacent chunks.
	ChunkOverlap = ChunkSize / 10
)

var textSeparators = []string{"\n\n", "\n", " ", ""}

// Text is a plain text document split by paragraphs, then lines, then words.
type Text struct {
	document
	splitter textsplitter.TextSplitter
}

// NewText wraps in-memory text contents.
func NewText(source, contents string) *Text {
	return &Text{
		document: document{source: source, contents: contents},
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(ChunkSize),
			textsplitter.WithChunkOverlap(ChunkOverlap),
			textsplitter.WithSeparators(textSeparators),
		),
	}
}

// ReadText reads a plain text file from disk.
func ReadText(path string) (*Text, error) {
	d, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return NewText(d.source, d.contents), nil
}

// Parse splits the text into overlapping chunks of at most ChunkSize characters.
func (t *Text) Parse() ([]string, error) {
	raw, err := t.splitter.SplitText(t.contents)
	if err != nil {
		return nil, err
	}

	chunks := raw[:0]
	for _, c := range raw {
		if strings.TrimSpace(c) != "" {
			chunks = append(chunks, c)
		}
	}
	return chunks, nil
}
