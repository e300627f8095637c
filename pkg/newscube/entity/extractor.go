package entity

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/cognicore/newscube/pkg/newscube/normalize"
	"github.com/cognicore/newscube/pkg/newscube/source"
)

// Strategy confidences, in priority order. The registry override replaces
// anything already found at full confidence.
const (
	hintConfidence     = 0.9
	textScanConfidence = 0.7
	registryConfidence = 1.0
)

// DefaultEntityDomain is the dimension domain attached to every extracted
// entity in this dataset.
const DefaultEntityDomain = "Healthcare"

// Medical/clinical terms that disqualify a hint token from being a company
// name candidate.
var filterTerms = []string{
	"alzheimer", "oncology", "neurology", "immunology", "hematology",
	"diabetes", "cancer", "therapeutic", "drug", "treatment", "therapy",
	"patient", "clinical", "trial", "approval", "fda", "ema", "regulatory",
	"disease", "disorder", "syndrome", "condition", "biomarker",
}

// Name patterns classified as Organization rather than Company.
var orgPatterns = []string{
	"fda", "ema", "who", "nih", "university", "college", "institute", "hospital",
}

const suffixGroup = `(?:inc|incorporated|corp|corporation|ltd|limited|llc|` +
	`pharmaceuticals|pharma|biotech|biotechnology|therapeutics|biosciences)`

var reHintDelim = regexp.MustCompile(`[;,|]`)

// Candidate is one extracted organization mention attached to a document,
// prior to dimension-key resolution. Name is the longest/most complete
// surface form seen for its normalized identity.
type Candidate struct {
	Name       string
	Type       string
	Confidence float64
	Mentions   int
}

// DimCandidate is one deduplicated entity-dimension candidate accumulated
// across a batch. Confidence is carried only to arbitrate dedup collisions
// and is not part of the dimension row.
type DimCandidate struct {
	Name       string
	Type       string
	Domain     string
	Confidence float64
}

// Extractor resolves organization names from documents under aliasing: all
// lexical variants of a name collapse to one canonical candidate via
// normalize.EntityName. Three strategies run in priority order; later
// strategies refine, never discard, earlier findings.
type Extractor struct {
	registry *Registry
}

// NewExtractor creates an extractor backed by the given registry. A nil
// registry degrades the text-scan and override strategies to no-ops.
func NewExtractor(registry *Registry) *Extractor {
	if registry == nil {
		registry = NewRegistry(nil)
	}
	return &Extractor{registry: registry}
}

// Extract returns the document's entity candidates, deduplicated by
// normalized identity (higher confidence wins a collision; mention counts
// merge by max). Rejected hint tokens are logged to rejected, never raised
// as errors.
func (e *Extractor) Extract(doc source.Document, norm normalize.NormalizedText, rejected *RejectedLog) []Candidate {
	found := make(map[string]Candidate)
	fullText := strings.ToLower(doc.Headline + " " + doc.Body)

	for _, hc := range e.fromHints(doc.KeywordHints, rejected) {
		cand := Candidate{
			Name:       hc.display,
			Type:       classifyType(hc.display),
			Confidence: hc.confidence,
			Mentions:   countMentions(hc.display, fullText),
		}
		mergeCandidate(found, hc.normalized, cand)
	}

	if norm.Combined != "" {
		for _, tc := range e.fromText(norm.Combined) {
			cand := Candidate{
				Name:       tc.display,
				Type:       classifyType(tc.display),
				Confidence: tc.confidence,
				Mentions:   countMentions(tc.display, fullText),
			}
			mergeCandidate(found, tc.normalized, cand)
		}
	}

	// Registry override: canonical display name and type win, at full
	// confidence, preserving the mention count already computed.
	for key, cand := range found {
		if canonical, ok := e.registry.Canonical(key); ok {
			cand.Name = canonical.Name
			cand.Type = canonical.Type
			cand.Confidence = registryConfidence
			found[key] = cand
		}
	}

	out := make([]Candidate, 0, len(found))
	for _, cand := range found {
		out = append(out, cand)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ExtractBatch runs per-document extraction over a batch and additionally
// builds the batch's deduplicated entity-dimension candidate set and the
// rejected-candidate log.
func (e *Extractor) ExtractBatch(docs []source.Document, norms []normalize.NormalizedText) ([][]Candidate, []DimCandidate, *RejectedLog) {
	rejected := NewRejectedLog()
	perDoc := make([][]Candidate, len(docs))
	dim := make(map[string]DimCandidate)

	for i, doc := range docs {
		var norm normalize.NormalizedText
		if i < len(norms) {
			norm = norms[i]
		}
		cands := e.Extract(doc, norm, rejected)
		perDoc[i] = cands

		for _, c := range cands {
			key := normalize.EntityName(c.Name)
			if key == "" {
				continue
			}
			next := DimCandidate{
				Name:       c.Name,
				Type:       c.Type,
				Domain:     DefaultEntityDomain,
				Confidence: c.Confidence,
			}
			if existing, ok := dim[key]; ok {
				if !preferDimCandidate(next, existing) {
					continue
				}
			}
			dim[key] = next
		}
	}

	keys := make([]string, 0, len(dim))
	for k := range dim {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]DimCandidate, 0, len(dim))
	for _, k := range keys {
		out = append(out, dim[k])
	}
	return perDoc, out, rejected
}

// PreferDimCandidate is the cross-batch dedup rule: higher confidence wins,
// equal confidence prefers the longer (more complete) display name.
func PreferDimCandidate(next, existing DimCandidate) bool {
	return preferDimCandidate(next, existing)
}

func preferDimCandidate(next, existing DimCandidate) bool {
	if next.Confidence != existing.Confidence {
		return next.Confidence > existing.Confidence
	}
	return len(next.Name) > len(existing.Name)
}

func mergeCandidate(found map[string]Candidate, key string, cand Candidate) {
	existing, ok := found[key]
	if !ok || cand.Confidence > existing.Confidence {
		if ok && existing.Mentions > cand.Mentions {
			cand.Mentions = existing.Mentions
		}
		found[key] = cand
		return
	}
	if cand.Mentions > existing.Mentions {
		existing.Mentions = cand.Mentions
		found[key] = existing
	}
}

type rawCandidate struct {
	normalized string
	display    string
	confidence float64
}

// fromHints tokenizes the keyword-hint field and keeps tokens that look
// like company names. Everything else goes to the rejected log.
func (e *Extractor) fromHints(hints string, rejected *RejectedLog) []rawCandidate {
	hints = strings.TrimSpace(hints)
	if hints == "" {
		return nil
	}

	var out []rawCandidate
	for _, token := range reHintDelim.Split(hints, -1) {
		token = strings.TrimSpace(token)
		if token == "" || len(token) < 2 {
			continue
		}

		lower := strings.ToLower(token)
		if containsFilterTerm(lower) {
			rejected.Add(token)
			continue
		}
		if !e.looksLikeCompanyName(token) {
			rejected.Add(token)
			continue
		}

		norm := normalize.EntityName(token)
		if len(norm) < 2 {
			rejected.Add(token)
			continue
		}
		out = append(out, rawCandidate{normalized: norm, display: token, confidence: hintConfidence})
	}
	return out
}

// fromText scans the combined normalized text for known registry names and
// recovers the full surface form (with optional trailing corporate suffix)
// around each hit. Names whose surface form cannot be recovered contribute
// nothing.
func (e *Extractor) fromText(combined string) []rawCandidate {
	var out []rawCandidate
	for _, name := range e.registry.ScanNames() {
		if !strings.Contains(combined, name) {
			continue
		}

		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `(?:\s+` + suffixGroup + `)?\b`)
		surface := re.FindString(combined)
		if surface == "" {
			continue
		}

		display := titleCase(surface)
		norm := normalize.EntityName(display)
		if norm == "" {
			continue
		}
		out = append(out, rawCandidate{normalized: norm, display: display, confidence: textScanConfidence})
	}
	return out
}

// looksLikeCompanyName implements the company-name heuristic for hint
// tokens: plausible length, a known name or corporate suffix, a short
// capitalized single token (ticker/abbreviation), or a 2-5 word proper
// noun phrase.
func (e *Extractor) looksLikeCompanyName(text string) bool {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)
	if len(lower) < 2 || len(lower) > 50 {
		return false
	}
	if containsFilterTerm(lower) {
		return false
	}
	if e.registry.ContainsKnown(lower) {
		return true
	}
	if normalize.HasCorporateSuffix(lower) {
		return true
	}

	words := strings.Fields(text)
	if len(words) == 1 && startsUpper(text) && len(text) <= 5 {
		return true
	}
	if len(words) >= 2 && len(words) <= 5 && startsUpper(words[0]) {
		return true
	}
	return false
}

func containsFilterTerm(lower string) bool {
	for _, term := range filterTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func classifyType(name string) string {
	lower := strings.ToLower(name)
	for _, p := range orgPatterns {
		if strings.Contains(lower, p) {
			return "Organization"
		}
	}
	return "Company"
}

// countMentions counts word-boundary occurrences of the display name in the
// lowercased headline+body text, tolerating an optional trailing corporate
// suffix. Used purely as a relationship-strength measure.
func countMentions(display, lowerText string) int {
	display = strings.ToLower(strings.TrimSpace(display))
	if display == "" || lowerText == "" {
		return 0
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(display) + `(?:\s+` + suffixGroup + `)?\b`)
	return len(re.FindAllString(lowerText, -1))
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func titleCase(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		r := []rune(f)
		r[0] = unicode.ToUpper(r[0])
		fields[i] = string(r)
	}
	return strings.Join(fields, " ")
}
