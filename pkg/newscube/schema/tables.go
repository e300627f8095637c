package schema

import (
	"github.com/cognicore/newscube/pkg/newscube/entity"
	"github.com/cognicore/newscube/pkg/newscube/match"
	"github.com/cognicore/newscube/pkg/newscube/source"
)

// Surrogate key bases. Keys are assigned once, over sorted candidate sets,
// so re-running on the same input reproduces identical keys.
const (
	FactIDBase      = 1000
	TagKeyBase      = 10
	EntityKeyBase   = 200
	SentinelDateKey = 19000101
)

// DocumentResult is one document after batch scanning: the raw record plus
// its tag matches and entity candidates. Fact and bridge rows are built
// from these during finalization.
type DocumentResult struct {
	Doc      source.Document
	Tags     []match.Match
	Entities []entity.Candidate
}

/// FactRow is one row of Fact_Document: one per input document, referencing
// the time and source dimensions and carrying denormalized snapshot fields
// for analytic convenience.
type FactRow struct {
	FactID     int
	DocumentID string

	// Foreign keys
	DateKey   int
	SourceKey int

	// Denormalized dimension data
	Year       int
	Quarter    string
	Month      string
	DateString string
	SourceName string
	SourceType string

	// Article content
	Headline         string
	BodyText         string
	NewsLink         string
	CleanedText      string
	ConsolidatedText string
	MatchedKeywords  string
	Sentiment        *float64
	QCStatus         string

	// Measures
	DocumentCount int
	TagCount      int
	HasKeyEvent   string
}

// TimeRow is one row of Dim_Time, keyed by the YYYYMMDD integer.
type TimeRow struct {
	DateKey     int
	Year        int
	Quarter     string
	Month       string
	MonthNumber int
	Day         int
	DayOfWeek   string
	WeekOfYear  int
	DateString  string
}

// SourceRow is one row of Dim_Source.
type SourceRow struct {
	SourceKey  int
	SourceName string
	SourceType string
}

// TagRow is one row of Dim_Tag.
type TagRow struct {
	TagKey      int
	TagName     string
	TagCategory string
	TagDomain   string
}

/// EntityRow is one row of Dim_Entity: the canonical, deduplicated
// representation of an organization.
type EntityRow struct {
	EntityKey    int
	EntityName   string
	EntityType   string
	EntityDomain string
}

// TagBridgeRow resolves the document↔tag many-to-many relationship,
// carrying the tag's match confidence.
type TagBridgeRow struct {
	FactID     int
	TagKey     int
	Confidence float64
}

// EntityBridgeRow resolves the document↔entity relationship, carrying the
// in-article mention count.
type EntityBridgeRow struct {
	FactID    int
	EntityKey int
	Mentions  int
}

// Tables is the complete star schema emitted by one pipeline run.
type Tables struct {
	Facts        []FactRow
	Time         []TimeRow
	Sources      []SourceRow
	Tags         []TagRow
	Entities     []EntityRow
	TagBridge    []TagBridgeRow
	EntityBridge []EntityBridgeRow
}

// Unresolved reports relationship candidates that could not be linked to a
// dimension key. Never fatal; the relationships are simply absent from the
// bridge tables.
type Unresolved struct {
	Entities     int
	EntitySample []string
	TagNames     int
}
