package match

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/cognicore/newscube/pkg/newscube/normalize"
	"github.com/cognicore/newscube/pkg/newscube/source"
	"github.com/cognicore/newscube/pkg/newscube/taxonomy"
)

// Confidence contributed by an explicit keyword-hint match.
const hintConfidence = 0.9

// Generic medical terms whose presence boosts Therapy-category matches.
var medicalTerms = []string{"cancer", "therapy", "treatment", "drug", "clinical"}

// Delimiters splitting the pre-extracted keyword-hint field.
var reHintDelim = regexp.MustCompile(`[;,|]`)

// Match is one detected tag with the matcher's certainty that it applies.
type Match struct {
	Tag        string
	Confidence float64
}

// Matcher detects taxonomy tags in documents using two independent
// strategies: a lookup over the pre-extracted keyword-hint field and a
// whole-word search over the normalized text. The maximum confidence across
// strategies wins per tag. A Matcher is immutable after construction and
// holds no per-document state.
type Matcher struct {
	tags     []taxonomy.Tag
	patterns map[string]*regexp.Regexp
	byHint   map[string][]string // lowercase keyword → owning tag names
	category map[string]string
}

// NewMatcher compiles one whole-word, case-insensitive pattern per tag over
// its keyword list and builds the inverted hint index.
func NewMatcher(tags []taxonomy.Tag) *Matcher {
	m := &Matcher{
		tags:     tags,
		patterns: make(map[string]*regexp.Regexp, len(tags)),
		byHint:   make(map[string][]string),
		category: make(map[string]string, len(tags)),
	}

	for _, t := range tags {
		if len(t.Keywords) == 0 {
			continue
		}
		quoted := make([]string, len(t.Keywords))
		for i, kw := range t.Keywords {
			quoted[i] = regexp.QuoteMeta(kw)
		}
		m.patterns[t.Name] = regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
		m.category[t.Name] = t.Category

		for _, kw := range t.Keywords {
			m.addHint(kw, t.Name)
		}
		m.addHint(t.Name, t.Name)
	}
	return m
}

func (m *Matcher) addHint(keyword, tag string) {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return
	}
	for _, existing := range m.byHint[kw] {
		if existing == tag {
			return
		}
	}
	m.byHint[kw] = append(m.byHint[kw], tag)
}

// Match returns the tags present in the document, ordered by descending
// confidence (ties broken by tag name for determinism).
func (m *Matcher) Match(doc source.Document, norm normalize.NormalizedText) []Match {
	scores := make(map[string]float64)

	for tag := range m.matchHints(doc.KeywordHints) {
		scores[tag] = hintConfidence
	}

	for tag, conf := range m.searchText(norm.Combined) {
		if conf > scores[tag] {
			scores[tag] = conf
		}
	}

	out := make([]Match, 0, len(scores))
	for tag, conf := range scores {
		out = append(out, Match{Tag: tag, Confidence: conf})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// matchHints resolves hint tokens through the inverted index.
func (m *Matcher) matchHints(hints string) map[string]struct{} {
	matched := make(map[string]struct{})
	hints = strings.TrimSpace(hints)
	if hints == "" {
		return matched
	}

	for _, token := range reHintDelim.Split(hints, -1) {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		for _, tag := range m.byHint[token] {
			matched[tag] = struct{}{}
		}
	}
	return matched
}

// searchText runs every tag pattern over the combined normalized text and
// scores each tag with at least one hit.
func (m *Matcher) searchText(text string) map[string]float64 {
	matched := make(map[string]float64)
	if text == "" {
		return matched
	}

	fields := strings.Fields(text)
	headTokens := make(map[string]struct{})
	if len(fields) > 10 {
		// The leading tokens approximate the headline.
		head := fields
		if len(head) > 20 {
			head = head[:20]
		}
		for _, f := range head {
			headTokens[f] = struct{}{}
		}
	}

	for tag, pattern := range m.patterns {
		hits := pattern.FindAllString(text, -1)
		if len(hits) == 0 {
			continue
		}
		matched[tag] = m.confidence(tag, hits, headTokens, text)
	}
	return matched
}

// confidence scores one tag from its keyword hits: more unique keywords
// raise the base with diminishing returns, headline presence and
// category-specific context add fixed boosts.
func (m *Matcher) confidence(tag string, hits []string, headTokens map[string]struct{}, text string) float64 {
	unique := make(map[string]struct{}, len(hits))
	for _, h := range hits {
		unique[strings.ToLower(h)] = struct{}{}
	}

	conf := 0.4 + 0.1*float64(len(unique))
	if conf > 0.8 {
		conf = 0.8
	}

	for kw := range unique {
		if _, ok := headTokens[kw]; ok {
			conf += 0.2
			break
		}
	}

	switch m.category[tag] {
	case "Event":
		if len(unique) > 1 {
			conf += 0.1
		}
	case "Therapy":
		for _, term := range medicalTerms {
			if strings.Contains(text, term) {
				conf += 0.1
				break
			}
		}
	}

	if conf > 1.0 {
		conf = 1.0
	}
	return math.Round(conf*100) / 100
}
