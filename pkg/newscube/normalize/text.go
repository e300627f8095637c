package normalize

import (
	"regexp"
	"strings"

	"github.com/cognicore/newscube/pkg/newscube/source"
)

// NormalizedText holds the matching-ready lowercase views of one document.
// Combined is the primary search surface: headline + body + consolidated,
// skipping consolidated when it duplicates the body.
type NormalizedText struct {
	Headline     string
	Body         string
	Consolidated string
	Combined     string
}

// Boilerplate phrase patterns stripped before normalization: subscription
// prompts, newsletter prompts and correction-request text that survive the
// upstream cleaning stage.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)to read the rest of this story subscribe to[^.]*\.`),
	regexp.MustCompile(`(?i)to read the full (?:article|story)[^.]*subscribe[^.]*\.`),
	regexp.MustCompile(`(?i)to read the full (?:article|story)[^.]*sign (?:up|in)[^.]*\.`),
	regexp.MustCompile(`(?i)subscribe to[^.]*stat\+[^.]*\.`),
	regexp.MustCompile(`(?i)subscribe to[^.]*stat[^.]*\.`),
	regexp.MustCompile(`(?i)subscribe to[^.]*premium[^.]*\.`),
	regexp.MustCompile(`(?i)sign up for[^.]*newsletter[^.]*\.`),
	regexp.MustCompile(`(?i)subscribe to[^.]*newsletter[^.]*\.`),
	regexp.MustCompile(`(?i)to submit a correction request[^.]*\.`),
	regexp.MustCompile(`(?i)to submit a correction[^.]*\.`),
	regexp.MustCompile(`(?i)for more information[^.]*\.`),
	regexp.MustCompile(`(?i)read more at[^.]*\.`),
}

// Ending markers: everything after these is promotional tail text.
var endingMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?is)\.\s*to read the rest.*$`),
	regexp.MustCompile(`(?is)\.\s*to read the full.*$`),
	regexp.MustCompile(`(?is)\.\s*subscribe.*$`),
	regexp.MustCompile(`(?is)\.\s*to submit a correction.*$`),
	regexp.MustCompile(`(?is)\.\s*contact us.*$`),
	regexp.MustCompile(`(?is)\.\s*for more information.*$`),
}

var (
	reURL        = regexp.MustCompile(`https?://\S+|www\.\S+`)
	reEmail      = regexp.MustCompile(`\S+@\S+`)
	rePunct      = regexp.MustCompile(`[^\w\s'\-]`)
	reWhitespace = regexp.MustCompile(`\s+`)
	reSingleChar = regexp.MustCompile(`\b\w\b`)
	reDots       = regexp.MustCompile(`\.{2,}`)
	reWideSpace  = regexp.MustCompile(`\s{3,}`)
)

// TextNormalizer produces matching-ready lowercase text views from raw
// article fields. It is stateless; Normalize is a pure function of its
// input record.
type TextNormalizer struct{}

// NewTextNormalizer creates a text normalizer.
func NewTextNormalizer() *TextNormalizer {
	return &TextNormalizer{}
}

// Normalize derives the four normalized views for one document. Absent or
// empty fields normalize to the empty string.
func (n *TextNormalizer) Normalize(doc source.Document) NormalizedText {
	headline := n.NormalizeField(doc.Headline)
	body := n.NormalizeField(doc.Body)
	consolidated := n.NormalizeField(doc.Consolidated)

	var parts []string
	if headline != "" {
		parts = append(parts, headline)
	}
	if body != "" {
		parts = append(parts, body)
	}
	if consolidated != "" && consolidated != body {
		parts = append(parts, consolidated)
	}

	return NormalizedText{
		Headline:     headline,
		Body:         body,
		Consolidated: consolidated,
		Combined:     strings.Join(parts, " "),
	}
}

// NormalizeField normalizes a single raw text field.
func (n *TextNormalizer) NormalizeField(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	if strings.ContainsRune(text, '<') {
		text = StripHTML(text)
	}
	text = stripBoilerplate(text)

	text = strings.ToLower(text)
	text = reURL.ReplaceAllString(text, "")
	text = reEmail.ReplaceAllString(text, "")
	text = rePunct.ReplaceAllString(text, " ")
	text = reWhitespace.ReplaceAllString(text, " ")
	text = reSingleChar.ReplaceAllString(text, "")
	text = reWhitespace.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

func stripBoilerplate(text string) string {
	for _, re := range boilerplatePatterns {
		text = re.ReplaceAllString(text, "")
	}
	for _, re := range endingMarkers {
		text = re.ReplaceAllString(text, ".")
	}
	text = reDots.ReplaceAllString(text, ".")
	text = reWideSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
