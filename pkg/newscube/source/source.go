package source

import "io"

// Document is one cleaned news-article record as produced by the upstream
// ingestion stage. All fields are raw strings except Sentiment; absent
// columns are empty, never an error.
type Document struct {
	ID           string
	Date         string // ISO-like date string, possibly empty or unparseable
	Source       string
	Headline     string
	Body         string
	Consolidated string
	KeywordHints string // pre-extracted keyword hints, delimiter-separated
	NewsLink     string
	CleanedText  string
	Sentiment    *float64
	QCStatus     string
}

// Reader yields documents in source order, in bounded chunks.
type Reader interface {
	// Next returns up to n documents. It returns io.EOF (with an empty
	// slice) once the source is exhausted.
	Next(n int) ([]Document, error)

	// Skipped reports how many malformed rows have been dropped so far.
	Skipped() int
}

// SliceReader serves documents from memory. Used in tests and for callers
// that already hold the full dataset.
type SliceReader struct {
	docs []Document
	pos  int
}

// NewSliceReader creates a reader over the given documents.
func NewSliceReader(docs []Document) *SliceReader {
	return &SliceReader{docs: docs}
}

// Next implements Reader.
func (r *SliceReader) Next(n int) ([]Document, error) {
	if r.pos >= len(r.docs) {
		return nil, io.EOF
	}
	if n <= 0 {
		n = len(r.docs) - r.pos
	}
	end := r.pos + n
	if end > len(r.docs) {
		end = len(r.docs)
	}
	out := r.docs[r.pos:end]
	r.pos = end
	return out, nil
}

// Skipped implements Reader.
func (r *SliceReader) Skipped() int { return 0 }
