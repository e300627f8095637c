package schema

import (
	"strings"

	"github.com/cognicore/newscube/pkg/newscube/normalize"
)

// entityResolver links document-level entity display names back to entity
// dimension keys. Document names do not always match the canonical
// dimension name verbatim, so resolution runs through three tiers, first
// match wins: exact display name, normalized form, core-name partial match.
type entityResolver struct {
	exact      map[string]int
	normalized map[string]int
	core       map[string][]coreEntry
}

type coreEntry struct {
	key  int
	name string
}

func newEntityResolver(rows []EntityRow) *entityResolver {
	r := &entityResolver{
		exact:      make(map[string]int, len(rows)),
		normalized: make(map[string]int, len(rows)),
		core:       make(map[string][]coreEntry),
	}

	// Rows arrive in sorted dimension order, which makes the core-word
	// candidate lists (and the multi-word tie-break below) deterministic.
	for _, row := range rows {
		name := strings.TrimSpace(row.EntityName)
		if name == "" {
			continue
		}
		r.exact[name] = row.EntityKey

		if norm := normalize.EntityName(name); norm != "" {
			if _, ok := r.normalized[norm]; !ok {
				r.normalized[norm] = row.EntityKey
			}
		}
		if core := normalize.CoreWord(name); core != "" {
			r.core[core] = append(r.core[core], coreEntry{key: row.EntityKey, name: name})
		}
	}
	return r
}

// resolve returns the entity key for a document-level display name.
func (r *entityResolver) resolve(name string) (int, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false
	}

	// Tier 1: exact display-name match.
	if key, ok := r.exact[name]; ok {
		return key, true
	}

	// Tier 2: normalized-form match.
	if norm := normalize.EntityName(name); norm != "" {
		if key, ok := r.normalized[norm]; ok {
			return key, true
		}
	}

	// Tier 3: core-name partial match ("Reata" → "Reata Pharmaceuticals").
	core := normalize.CoreWord(name)
	if core == "" {
		return 0, false
	}
	candidates, ok := r.core[core]
	if !ok {
		return 0, false
	}
	if len(candidates) == 1 {
		return candidates[0].key, true
	}

	singleWord := len(strings.Fields(name)) == 1
	if singleWord {
		// Several entities share the core word; a bare core-word query
		// resolves to the shortest (most generic) full name.
		best := candidates[0]
		for _, c := range candidates[1:] {
			if len(c.name) < len(best.name) {
				best = c
			}
		}
		return best.key, true
	}

	// Multi-word ties take the first candidate in dimension order.
	return candidates[0].key, true
}
