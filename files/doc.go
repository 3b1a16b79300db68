// Package files turns documents on disk into embedding-sized chunks for
// ingestion into a vector store.
//
// Every reader returns a File whose Parse method yields the chunks. The
// chunking strategy depends on the format:
//   - Markdown: paragraphs and fenced code blocks become chunks; headings
//     and front matter are skipped.
//   - CSV: one chunk per non-empty record line.
//   - Plain text: recursive character splitting on paragraph, line and word
//     boundaries.
package files
