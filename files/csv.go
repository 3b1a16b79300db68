package files

import "strings"

// CSV is a comma separated document chunked per record line.
type CSV struct{ document }

// NewCSV wraps in-memory CSV contents.
func NewCSV(source, contents string) *CSV {
	return &CSV{document{source: source, contents: contents}}
}

// ReadCSV reads a CSV file from disk.
func ReadCSV(path string) (*CSV, error) {
	d, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return &CSV{d}, nil
}

// Parse returns every non-empty line, header included.
func (c *CSV) Parse() ([]string, error) {
	var chunks []string
	for _, line := range strings.Split(c.contents, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		chunks = append(chunks, line)
	}
	return chunks, nil
}
