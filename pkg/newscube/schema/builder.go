package schema

import (
	"sort"
	"time"

	"github.com/cognicore/newscube/pkg/newscube/entity"
	"github.com/cognicore/newscube/pkg/newscube/taxonomy"
)

// Tag relationships missing a recorded confidence default to this value.
const defaultTagConfidence = 0.5

// Input carries the full accumulated state of a pipeline run into schema
// assembly: the enriched documents plus the dimension candidate sets built
// by the batch accumulators. The builder receives pre-deduplicated
// candidate sets instead of re-deriving membership, so dimension and
// bridge tables always agree on identity resolution.
type Input struct {
	Docs     []DocumentResult
	Taxonomy []taxonomy.Tag

	// Candidate sets, deduplicated by the batch accumulators.
	Dates    []time.Time
	Sources  []SourceCandidate
	Entities []entity.DimCandidate
}

// SourceCandidate is one accumulated source-dimension candidate.
type SourceCandidate struct {
	Name string
	Type string
}

// Builder assembles the star schema: surrogate key assignment over sorted
// candidate sets, the fact table, both bridge tables, and the fact-level
// aggregate back-fill.
type Builder struct{}

// NewBuilder creates a schema builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build assembles all seven tables. Unresolved reports entity and tag
// relationship candidates that could not be linked; they are absent from
// the bridge tables but never abort the build.
func (b *Builder) Build(in Input) (*Tables, Unresolved) {
	t := &Tables{
		Time:     b.buildDimTime(in.Dates),
		Sources:  b.buildDimSource(in.Sources),
		Tags:     b.buildDimTag(in.Taxonomy),
		Entities: b.buildDimEntity(in.Entities),
	}

	t.Facts = b.buildFacts(in.Docs, t.Time, t.Sources)

	var unresolved Unresolved
	t.TagBridge = b.buildTagBridge(in.Docs, t.Tags, &unresolved)
	t.EntityBridge = b.buildEntityBridge(in.Docs, t.Entities, &unresolved)

	b.updateAggregates(t)
	return t, unresolved
}

// buildDimTime expands the accumulated dates into Dim_Time, sorted by date
// key for deterministic output.
func (b *Builder) buildDimTime(dates []time.Time) []TimeRow {
	seen := make(map[int]struct{}, len(dates))
	rows := make([]TimeRow, 0, len(dates))
	for _, d := range dates {
		row := TimeRowFor(d)
		if _, ok := seen[row.DateKey]; ok {
			continue
		}
		seen[row.DateKey] = struct{}{}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].DateKey < rows[j].DateKey })
	return rows
}

// buildDimSource assigns 1-based sequential keys over the sorted, filtered,
// deduplicated source set.
func (b *Builder) buildDimSource(sources []SourceCandidate) []SourceRow {
	seen := make(map[string]SourceCandidate, len(sources))
	for _, s := range sources {
		if !ValidSourceName(s.Name) {
			continue
		}
		if _, ok := seen[s.Name]; !ok {
			seen[s.Name] = s
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]SourceRow, 0, len(names))
	for i, name := range names {
		rows = append(rows, SourceRow{
			SourceKey:  i + 1,
			SourceName: name,
			SourceType: seen[name].Type,
		})
	}
	return rows
}

// buildDimTag assigns sequential keys starting at TagKeyBase over the
// (already split) taxonomy, preserving taxonomy order.
func (b *Builder) buildDimTag(tags []taxonomy.Tag) []TagRow {
	rows := make([]TagRow, 0, len(tags))
	for i, t := range tags {
		rows = append(rows, TagRow{
			TagKey:      TagKeyBase + i,
			TagName:     t.Name,
			TagCategory: t.Category,
			TagDomain:   t.Domain,
		})
	}
	return rows
}

// buildDimEntity assigns sequential keys starting at EntityKeyBase over the
// sorted, deduplicated entity candidate set.
func (b *Builder) buildDimEntity(cands []entity.DimCandidate) []EntityRow {
	sorted := make([]entity.DimCandidate, len(cands))
	copy(sorted, cands)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].Type < sorted[j].Type
	})

	rows := make([]EntityRow, 0, len(sorted))
	for i, c := range sorted {
		domain := c.Domain
		if domain == "" {
			domain = entity.DefaultEntityDomain
		}
		rows = append(rows, EntityRow{
			EntityKey:    EntityKeyBase + i,
			EntityName:   c.Name,
			EntityType:   c.Type,
			EntityDomain: domain,
		})
	}
	return rows
}

// buildFacts builds one fact row per document, in source order. Unparseable
// dates map to the sentinel date key; unknown sources fall back to key 1.
func (b *Builder) buildFacts(docs []DocumentResult, dimTime []TimeRow, dimSource []SourceRow) []FactRow {
	timeByKey := make(map[int]TimeRow, len(dimTime))
	for _, row := range dimTime {
		timeByKey[row.DateKey] = row
	}
	sourceByName := make(map[string]SourceRow, len(dimSource))
	for _, row := range dimSource {
		sourceByName[row.SourceName] = row
	}

	facts := make([]FactRow, 0, len(docs))
	for i, dr := range docs {
		doc := dr.Doc

		fact := FactRow{
			FactID:           FactIDBase + i,
			DocumentID:       doc.ID,
			DateKey:          SentinelDateKey,
			SourceKey:        1,
			SourceName:       doc.Source,
			SourceType:       "Unknown",
			Headline:         doc.Headline,
			BodyText:         doc.Body,
			NewsLink:         doc.NewsLink,
			CleanedText:      doc.CleanedText,
			ConsolidatedText: doc.Consolidated,
			MatchedKeywords:  doc.KeywordHints,
			Sentiment:        doc.Sentiment,
			QCStatus:         doc.QCStatus,
			DocumentCount:    1,
			TagCount:         0,
			HasKeyEvent:      "No",
		}

		if d, ok := ParseDate(doc.Date); ok {
			fact.DateKey = DateKey(d)
		}
		if row, ok := timeByKey[fact.DateKey]; ok {
			fact.Year = row.Year
			fact.Quarter = row.Quarter
			fact.Month = row.Month
			fact.DateString = row.DateString
		} else if d, ok := ParseDate(doc.Date); ok {
			fact.Year = d.Year()
			fact.Quarter = Quarter(d)
			fact.Month = d.Month().String()
			fact.DateString = d.Format("2006-01-02")
		}

		if row, ok := sourceByName[doc.Source]; ok {
			fact.SourceKey = row.SourceKey
			fact.SourceName = row.SourceName
			fact.SourceType = row.SourceType
		}

		facts = append(facts, fact)
	}
	return facts
}

// buildTagBridge resolves matched tag names to tag keys by exact name.
func (b *Builder) buildTagBridge(docs []DocumentResult, dimTag []TagRow, unresolved *Unresolved) []TagBridgeRow {
	keyByName := make(map[string]int, len(dimTag))
	for _, row := range dimTag {
		keyByName[row.TagName] = row.TagKey
	}

	var bridge []TagBridgeRow
	for i, dr := range docs {
		factID := FactIDBase + i
		for _, m := range dr.Tags {
			key, ok := keyByName[m.Tag]
			if !ok {
				unresolved.TagNames++
				continue
			}
			conf := m.Confidence
			if conf == 0 {
				conf = defaultTagConfidence
			}
			bridge = append(bridge, TagBridgeRow{FactID: factID, TagKey: key, Confidence: conf})
		}
	}
	return bridge
}

// buildEntityBridge resolves document entities through the three-tier name
// matcher. Entities failing all tiers are counted and sampled, not fatal.
func (b *Builder) buildEntityBridge(docs []DocumentResult, dimEntity []EntityRow, unresolved *Unresolved) []EntityBridgeRow {
	resolver := newEntityResolver(dimEntity)
	missing := make(map[string]struct{})

	var bridge []EntityBridgeRow
	for i, dr := range docs {
		factID := FactIDBase + i
		for _, c := range dr.Entities {
			key, ok := resolver.resolve(c.Name)
			if !ok {
				missing[c.Name] = struct{}{}
				continue
			}
			mentions := c.Mentions
			if mentions < 1 {
				mentions = 1
			}
			bridge = append(bridge, EntityBridgeRow{FactID: factID, EntityKey: key, Mentions: mentions})
		}
	}

	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		sort.Strings(names)
		unresolved.Entities = len(names)
		if len(names) > 10 {
			names = names[:10]
		}
		unresolved.EntitySample = names
	}
	return bridge
}

// updateAggregates back-fills each fact's Tag_Count from its bridge rows
// and derives the Has_Key_Event flag.
func (b *Builder) updateAggregates(t *Tables) {
	counts := make(map[int]int, len(t.Facts))
	for _, row := range t.TagBridge {
		counts[row.FactID]++
	}
	for i := range t.Facts {
		n := counts[t.Facts[i].FactID]
		t.Facts[i].TagCount = n
		if n > 0 {
			t.Facts[i].HasKeyEvent = "Yes"
		} else {
			t.Facts[i].HasKeyEvent = "No"
		}
	}
}
