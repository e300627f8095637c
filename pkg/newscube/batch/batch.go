// Package batch drives the accumulate-then-finalize transformation: it
// pulls documents from a source in fixed-size batches, enriches each batch
// (normalization, tag matching, entity extraction), folds the results into
// run-level accumulators, and finalizes the star schema exactly once over
// the complete accumulated state. Batch size therefore affects memory and
// progress reporting only, never the output tables.
package batch

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"log"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/newscube/pkg/newscube/entity"
	"github.com/cognicore/newscube/pkg/newscube/internalerr"
	"github.com/cognicore/newscube/pkg/newscube/match"
	"github.com/cognicore/newscube/pkg/newscube/normalize"
	"github.com/cognicore/newscube/pkg/newscube/schema"
	"github.com/cognicore/newscube/pkg/newscube/source"
	"github.com/cognicore/newscube/pkg/newscube/taxonomy"
)

// DefaultBatchSize is used when Config.BatchSize is unset.
const DefaultBatchSize = 5000

// Config holds processor tuning.
type Config struct {
	BatchSize int
}

// Summary describes one completed run.
type Summary struct {
	RunID       string
	RowsRead    int
	RowsSkipped int
	Batches     int
	Facts       int
	TimeRows    int
	SourceRows  int
	TagRows     int
	EntityRows  int
	TagLinks    int
	EntityLinks int
	Rejected    int
	Unresolved  schema.Unresolved
	Elapsed     time.Duration
}

// Result is the complete output of one run.
type Result struct {
	Tables   *schema.Tables
	Rejected []entity.RejectedEntity
	Summary  Summary
}

// Processor owns the per-run pipeline stages and accumulators.
type Processor struct {
	cfg        Config
	tags       []taxonomy.Tag
	normalizer *normalize.TextNormalizer
	matcher    *match.Matcher
	extractor  *entity.Extractor
	entropy    *ulid.MonotonicEntropy
}

// NewProcessor wires the pipeline stages for the given taxonomy and entity
// registry. The taxonomy must already be normalized and split.
func NewProcessor(cfg Config, tags []taxonomy.Tag, registry *entity.Registry) *Processor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &Processor{
		cfg:        cfg,
		tags:       tags,
		normalizer: normalize.NewTextNormalizer(),
		matcher:    match.NewMatcher(tags),
		extractor:  entity.NewExtractor(registry),
		entropy:    ulid.Monotonic(rand.Reader, 0),
	}
}

// Run consumes the source to exhaustion and finalizes the star schema.
// Returns internalerr.ErrNoRecords when the source yields no documents.
func (p *Processor) Run(ctx context.Context, src source.Reader) (*Result, error) {
	start := time.Now()
	runID := ulid.MustNew(ulid.Now(), p.entropy).String()

	acc := newAccumulator()
	batches := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		docs, err := src.Next(p.cfg.BatchSize)
		if len(docs) > 0 {
			batches++
			p.processBatch(docs, acc)
			log.Printf("run %s: batch %d, %d documents (total %d)", runID, batches, len(docs), len(acc.docs))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
	}

	if len(acc.docs) == 0 {
		return nil, internalerr.ErrNoRecords
	}

	tables, unresolved := schema.NewBuilder().Build(acc.input(p.tags))
	rejected := acc.rejected.Report()

	summary := Summary{
		RunID:       runID,
		RowsRead:    len(acc.docs),
		RowsSkipped: src.Skipped(),
		Batches:     batches,
		Facts:       len(tables.Facts),
		TimeRows:    len(tables.Time),
		SourceRows:  len(tables.Sources),
		TagRows:     len(tables.Tags),
		EntityRows:  len(tables.Entities),
		TagLinks:    len(tables.TagBridge),
		EntityLinks: len(tables.EntityBridge),
		Rejected:    len(rejected),
		Unresolved:  unresolved,
		Elapsed:     time.Since(start),
	}
	return &Result{Tables: tables, Rejected: rejected, Summary: summary}, nil
}

// processBatch enriches one batch and folds it into the accumulators.
func (p *Processor) processBatch(docs []source.Document, acc *accumulator) {
	norms := make([]normalize.NormalizedText, len(docs))
	for i, doc := range docs {
		norms[i] = p.normalizer.Normalize(doc)
	}

	perDoc, dims, rejected := p.extractor.ExtractBatch(docs, norms)

	for i, doc := range docs {
		acc.docs = append(acc.docs, schema.DocumentResult{
			Doc:      doc,
			Tags:     p.matcher.Match(doc, norms[i]),
			Entities: perDoc[i],
		})
		acc.addDate(doc.Date)
		acc.addSource(doc.Source)
	}
	for _, c := range dims {
		acc.addEntity(c)
	}
	acc.rejected.Merge(rejected)
}

// accumulator is the cross-batch run state: every set that must be complete
// before surrogate keys can be assigned.
type accumulator struct {
	docs     []schema.DocumentResult
	dates    map[int]time.Time
	sources  map[string]schema.SourceCandidate
	entities map[string]entity.DimCandidate
	rejected *entity.RejectedLog
}

func newAccumulator() *accumulator {
	return &accumulator{
		dates:    make(map[int]time.Time),
		sources:  make(map[string]schema.SourceCandidate),
		entities: make(map[string]entity.DimCandidate),
		rejected: entity.NewRejectedLog(),
	}
}

func (a *accumulator) addDate(raw string) {
	d, ok := schema.ParseDate(raw)
	if !ok {
		return
	}
	key := schema.DateKey(d)
	if _, exists := a.dates[key]; !exists {
		a.dates[key] = d
	}
}

func (a *accumulator) addSource(name string) {
	if !schema.ValidSourceName(name) {
		return
	}
	if _, exists := a.sources[name]; !exists {
		a.sources[name] = schema.SourceCandidate{
			Name: name,
			Type: schema.ClassifySourceType(name),
		}
	}
}

// addEntity merges a dimension candidate under the same cross-batch dedup
// rule the extractor applies within a batch, keyed by normalized identity.
func (a *accumulator) addEntity(c entity.DimCandidate) {
	key := normalize.EntityName(c.Name)
	if key == "" {
		return
	}
	existing, ok := a.entities[key]
	if !ok || entity.PreferDimCandidate(c, existing) {
		a.entities[key] = c
	}
}

// input snapshots the accumulators into builder input. Map iteration order
// leaks nowhere: the builder re-sorts every candidate set before assigning
// keys.
func (a *accumulator) input(tags []taxonomy.Tag) schema.Input {
	dates := make([]time.Time, 0, len(a.dates))
	for _, d := range a.dates {
		dates = append(dates, d)
	}
	sources := make([]schema.SourceCandidate, 0, len(a.sources))
	for _, s := range a.sources {
		sources = append(sources, s)
	}
	entities := make([]entity.DimCandidate, 0, len(a.entities))
	for _, e := range a.entities {
		entities = append(entities, e)
	}
	return schema.Input{
		Docs:     a.docs,
		Taxonomy: tags,
		Dates:    dates,
		Sources:  sources,
		Entities: entities,
	}
}
