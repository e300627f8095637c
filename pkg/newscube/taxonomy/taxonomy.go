package taxonomy

import "strings"

// Tag is one resolved taxonomy entry: a named tag with its classification
// and the keyword list used to detect it in article text.
type Tag struct {
	Name     string
	Category string
	Domain   string
	Keywords []string

	// Individual marks a tag whose keywords should each become a
	// standalone single-keyword tag before key assignment.
	Individual bool
}

// Normalize lowercases and deduplicates the keyword list and makes sure the
// tag's own name is present as a keyword.
func (t Tag) Normalize() Tag {
	seen := make(map[string]struct{}, len(t.Keywords)+1)
	var out []string

	add := func(kw string) {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			return
		}
		if _, ok := seen[kw]; ok {
			return
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}

	add(t.Name)
	for _, kw := range t.Keywords {
		add(kw)
	}

	t.Keywords = out
	return t
}

// ExpandIndividual applies the per-tag Individual flag: a flagged tag with
// more than one keyword is split into one single-keyword tag per keyword,
// preserving category and domain. Order follows the input, so repeated runs
// over the same taxonomy produce the same tag sequence.
func ExpandIndividual(tags []Tag) []Tag {
	var out []Tag
	for _, t := range tags {
		if t.Individual && len(t.Keywords) > 1 {
			for _, kw := range t.Keywords {
				out = append(out, Tag{
					Name:     kw,
					Category: t.Category,
					Domain:   t.Domain,
					Keywords: []string{kw},
				})
			}
			continue
		}
		t.Individual = false
		out = append(out, t)
	}
	return out
}
