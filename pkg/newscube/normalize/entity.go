package normalize

import (
	"regexp"
	"sort"
	"strings"
)

// CorporateSuffixes are the legal-form and sector suffixes stripped when
// folding company names to their normalized identity.
var CorporateSuffixes = []string{
	"inc", "incorporated", "corp", "corporation", "ltd", "limited",
	"llc", "llp", "co", "company", "group", "holdings", "labs", "laboratories",
	"therapeutics", "pharma", "biotech", "biosciences", "biopharmaceuticals",
	"pharmaceuticals", "biotechnology", "technologies", "solutions",
	"systems", "international", "global", "ag", "sa", "nv", "plc",
	"gmbh", "kk", "ltda", "srl", "spa", "sas",
}

var (
	reAmpersand = regexp.MustCompile(`\s*&\s*`)
	reAnd       = regexp.MustCompile(`\s+and\s+`)
	reNamePunct = regexp.MustCompile(`[\s\-.,;:+'"]+`)
	reNameEdge  = regexp.MustCompile(`^[^a-z0-9]+|[^a-z0-9]+$`)
	reCoreTail  *regexp.Regexp

	// One anchored pattern per suffix, applied longest-first so that
	// compound suffixes win over their prefixes.
	suffixPatterns []*regexp.Regexp
)

func init() {
	ordered := make([]string, len(CorporateSuffixes))
	copy(ordered, CorporateSuffixes)
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i]) != len(ordered[j]) {
			return len(ordered[i]) > len(ordered[j])
		}
		return ordered[i] < ordered[j]
	})
	for _, s := range ordered {
		suffixPatterns = append(suffixPatterns,
			regexp.MustCompile(`\s+`+regexp.QuoteMeta(s)+`[\s.,;:]*$`))
	}
	reCoreTail = regexp.MustCompile(`\s+(?:` + strings.Join(ordered, "|") + `)\s*$`)
}

// EntityName folds an organization name to its normalized identity. Two
// surface strings denote the same entity iff their normalized forms are
// equal: "AstraZeneca", "Astra Zeneca" and "AstraZeneca Inc" all fold to
// "astrazeneca"; "Johnson & Johnson" and "Johnson and Johnson" fold to
// "johnsonandjohnson". The fold is idempotent.
func EntityName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}

	s = reAmpersand.ReplaceAllString(s, " and ")
	s = reAnd.ReplaceAllString(s, "and")

	// Strip to fixpoint: "Reata Pharmaceuticals, Inc." sheds "inc" first
	// and exposes "pharmaceuticals" on the next round.
	for {
		before := s
		for _, re := range suffixPatterns {
			s = re.ReplaceAllString(s, "")
		}
		if s == before {
			break
		}
	}

	s = reNamePunct.ReplaceAllString(s, "")
	s = reNameEdge.ReplaceAllString(s, "")
	return s
}

// CoreWord returns the first significant word of a name: lowercase, trailing
// punctuation and at most one corporate suffix removed. "Reata
// Pharmaceuticals" and "Reata" both yield "reata". The empty string means
// the name has no core word.
func CoreWord(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.TrimRight(s, `'".,;: `)
	s = reCoreTail.ReplaceAllString(s, "")
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// HasCorporateSuffix reports whether the lowercased text ends with, or
// contains as a separate word, a known corporate suffix.
func HasCorporateSuffix(lower string) bool {
	for _, s := range CorporateSuffixes {
		if strings.HasSuffix(lower, s) || strings.Contains(lower, " "+s) {
			return true
		}
	}
	return false
}
