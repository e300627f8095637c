package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cognicore/newscube/pkg/newscube/internalerr"
)

// Mapping names the dataset columns for each Document field. Only the body
// text column is required; every other column degrades to an empty field
// when absent.
type Mapping struct {
	ID           string
	Date         string
	Source       string
	Headline     string
	Body         string
	Consolidated string
	KeywordHints string
	NewsLink     string
	CleanedText  string
	Sentiment    string
	QCStatus     string
}

// DefaultMapping returns the column names of the merged-articles dataset.
func DefaultMapping() Mapping {
	return Mapping{
		ID:           "Amethos Id",
		Date:         "Date",
		Source:       "Source",
		Headline:     "Headline",
		Body:         "Body/abstract/extract",
		Consolidated: "Consolidated_Text",
		KeywordHints: "matched_keywords",
		NewsLink:     "News link",
		CleanedText:  "Cleaned_Text_G",
		Sentiment:    "sentiment_score",
		QCStatus:     "QC_H",
	}
}

// CSVReader reads documents from a CSV stream. The first row is the header;
// rows whose field count differs from the header are dropped and counted,
// never fatal. Quoted fields with embedded newlines are handled by the
// underlying csv reader.
type CSVReader struct {
	r       *csv.Reader
	width   int
	cols    columnIndex
	skipped int
	done    bool
}

// columnIndex holds the resolved column position for each field, -1 if the
// column is absent from the header.
type columnIndex struct {
	id           int
	date         int
	source       int
	headline     int
	body         int
	consolidated int
	hints        int
	link         int
	cleaned      int
	sentiment    int
	qcStatus     int
}

// NewCSVReader reads the header from r and resolves the column mapping.
// A missing body column is fatal: the pipeline cannot proceed without text.
func NewCSVReader(r io.Reader, m Mapping) (*CSVReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.TrimSpace(name)] = i
	}
	find := func(name string) int {
		if name == "" {
			return -1
		}
		if i, ok := pos[name]; ok {
			return i
		}
		return -1
	}

	cols := columnIndex{
		id:           find(m.ID),
		date:         find(m.Date),
		source:       find(m.Source),
		headline:     find(m.Headline),
		body:         find(m.Body),
		consolidated: find(m.Consolidated),
		hints:        find(m.KeywordHints),
		link:         find(m.NewsLink),
		cleaned:      find(m.CleanedText),
		sentiment:    find(m.Sentiment),
		qcStatus:     find(m.QCStatus),
	}
	if cols.body < 0 {
		return nil, fmt.Errorf("%w: %q", internalerr.ErrMissingColumn, m.Body)
	}

	return &CSVReader{r: cr, width: len(header), cols: cols}, nil
}

// Next implements Reader.
func (c *CSVReader) Next(n int) ([]Document, error) {
	if c.done {
		return nil, io.EOF
	}
	if n <= 0 {
		n = 1
	}

	docs := make([]Document, 0, n)
	for len(docs) < n {
		row, err := c.r.Read()
		if err == io.EOF {
			c.done = true
			break
		}
		if err != nil {
			// csv-level parse damage is treated like a malformed row
			c.skipped++
			continue
		}
		if len(row) != c.width {
			c.skipped++
			continue
		}
		docs = append(docs, c.toDocument(row))
	}

	if len(docs) == 0 {
		return nil, io.EOF
	}
	return docs, nil
}

// Skipped implements Reader.
func (c *CSVReader) Skipped() int { return c.skipped }

func (c *CSVReader) toDocument(row []string) Document {
	field := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	doc := Document{
		ID:           field(c.cols.id),
		Date:         field(c.cols.date),
		Source:       field(c.cols.source),
		Headline:     field(c.cols.headline),
		Body:         field(c.cols.body),
		Consolidated: field(c.cols.consolidated),
		KeywordHints: field(c.cols.hints),
		NewsLink:     field(c.cols.link),
		CleanedText:  field(c.cols.cleaned),
		QCStatus:     field(c.cols.qcStatus),
	}

	if raw := field(c.cols.sentiment); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			doc.Sentiment = &v
		}
	}
	return doc
}
