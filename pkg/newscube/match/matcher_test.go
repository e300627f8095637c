package match

import (
	"testing"

	"github.com/cognicore/newscube/pkg/newscube/normalize"
	"github.com/cognicore/newscube/pkg/newscube/source"
	"github.com/cognicore/newscube/pkg/newscube/taxonomy"
)

func testTags() []taxonomy.Tag {
	tags := []taxonomy.Tag{
		{Name: "Acquisition", Category: "Event", Domain: "Business",
			Keywords: []string{"acquisition", "merger", "buyout", "takeover"}},
		{Name: "FDA Approval", Category: "Event", Domain: "Regulatory",
			Keywords: []string{"fda approval", "approved by the fda"}},
		{Name: "Gene Therapy", Category: "Therapy", Domain: "Healthcare",
			Keywords: []string{"gene therapy"}},
	}
	for i, t := range tags {
		tags[i] = t.Normalize()
	}
	return tags
}

func TestMatchFromHints(t *testing.T) {
	m := NewMatcher(testTags())

	doc := source.Document{KeywordHints: "Acquisition; FDA Approval"}
	matches := m.Match(doc, normalize.NormalizedText{})

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d: %v", len(matches), matches)
	}
	for _, match := range matches {
		if match.Confidence != 0.9 {
			t.Errorf("hint match %q confidence = %v, want 0.9", match.Tag, match.Confidence)
		}
	}
}

func TestMatchFromTextSingleKeyword(t *testing.T) {
	m := NewMatcher(testTags())

	norm := normalize.NormalizedText{Combined: "company completed the acquisition of rival"}
	matches := m.Match(source.Document{}, norm)

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d: %v", len(matches), matches)
	}
	if matches[0].Tag != "Acquisition" {
		t.Errorf("matched %q, want Acquisition", matches[0].Tag)
	}
	if matches[0].Confidence != 0.5 {
		t.Errorf("confidence = %v, want 0.5", matches[0].Confidence)
	}
}

func TestMatchHeadlineBoost(t *testing.T) {
	m := NewMatcher(testTags())

	// Long enough that the leading tokens count as the headline region.
	norm := normalize.NormalizedText{
		Combined: "acquisition announced today as two companies agree on the terms of the transaction",
	}
	matches := m.Match(source.Document{}, norm)

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d: %v", len(matches), matches)
	}
	if matches[0].Confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7 (0.5 base + 0.2 headline)", matches[0].Confidence)
	}
}

func TestMatchEventMultiKeywordBoost(t *testing.T) {
	m := NewMatcher(testTags())

	// Two unique Event keywords, none in the headline region (text too
	// short to have one).
	norm := normalize.NormalizedText{Combined: "the merger follows a failed takeover"}
	matches := m.Match(source.Document{}, norm)

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d: %v", len(matches), matches)
	}
	// 0.4 + 0.1*2 unique + 0.1 multi-keyword Event boost.
	if matches[0].Confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7", matches[0].Confidence)
	}
}

func TestMatchTherapyMedicalBoost(t *testing.T) {
	m := NewMatcher(testTags())

	norm := normalize.NormalizedText{Combined: "new gene therapy shows promise"}
	matches := m.Match(source.Document{}, norm)

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d: %v", len(matches), matches)
	}
	// 0.5 base + 0.1 medical-context boost for Therapy tags.
	if matches[0].Confidence != 0.6 {
		t.Errorf("confidence = %v, want 0.6", matches[0].Confidence)
	}
}

func TestMatchHintBeatsText(t *testing.T) {
	m := NewMatcher(testTags())

	doc := source.Document{KeywordHints: "acquisition"}
	norm := normalize.NormalizedText{Combined: "company completed the acquisition of rival"}
	matches := m.Match(doc, norm)

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d: %v", len(matches), matches)
	}
	if matches[0].Confidence != 0.9 {
		t.Errorf("confidence = %v, want hint strategy's 0.9", matches[0].Confidence)
	}
}

func TestMatchOrderingDeterministic(t *testing.T) {
	m := NewMatcher(testTags())

	doc := source.Document{KeywordHints: "gene therapy"}
	norm := normalize.NormalizedText{Combined: "company completed the acquisition of rival"}

	matches := m.Match(doc, norm)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d: %v", len(matches), matches)
	}
	if matches[0].Tag != "Gene Therapy" || matches[1].Tag != "Acquisition" {
		t.Errorf("unexpected order: %v", matches)
	}
}

func TestMatchNothing(t *testing.T) {
	m := NewMatcher(testTags())

	norm := normalize.NormalizedText{Combined: "weather report for the weekend"}
	if matches := m.Match(source.Document{}, norm); len(matches) != 0 {
		t.Errorf("expected no matches, got %v", matches)
	}
}
