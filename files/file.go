package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File is a document that can be split into chunks.
type File interface {
	// Source identifies where the contents came from (usually a path).
	Source() string
	// Contents returns the full, unsplit document.
	Contents() string
	// Parse splits the document into chunks, in document order.
	Parse() ([]string, error)
}

type document struct {
	source   string
	contents string
}

func (d document) Source() string   { return d.source }
func (d document) Contents() string { return d.contents }

func readFile(path string) (document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return document{source: path, contents: string(b)}, nil
}

// Read opens path with the reader matching its extension. Unknown
// extensions are treated as plain text.
func Read(path string) (File, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return ReadMarkdown(path)
	case ".csv":
		return ReadCSV(path)
	default:
		return ReadText(path)
	}
}
