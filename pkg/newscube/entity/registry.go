package entity

import (
	"sort"
	"strings"

	"github.com/cognicore/newscube/pkg/newscube/normalize"
)

// RegistryEntry is one (name, entity type) pair from the known-company list.
type RegistryEntry struct {
	Name string
	Type string
}

// Registry is the authority/override source for entity extraction. Entries
// are deduplicated by normalized identity at load time; when two rows fold
// to the same normalized form the kept canonical display name is the longer
// one, ties preferring the variant containing a space.
type Registry struct {
	canonical map[string]RegistryEntry // normalized form → canonical entry
	scanNames []string                 // sorted lowercase + normalized names for text scans
	nameSet   map[string]struct{}
}

// NewRegistry builds a registry from raw entries. A nil or empty entry list
// yields an empty registry; extraction strategies that depend on it degrade
// to no-ops.
func NewRegistry(entries []RegistryEntry) *Registry {
	r := &Registry{
		canonical: make(map[string]RegistryEntry),
		nameSet:   make(map[string]struct{}),
	}

	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		typ := strings.TrimSpace(e.Type)
		if typ == "" {
			typ = "Company"
		}

		norm := normalize.EntityName(name)
		if norm == "" {
			continue
		}

		if existing, ok := r.canonical[norm]; ok {
			if preferName(name, existing.Name) {
				r.canonical[norm] = RegistryEntry{Name: name, Type: typ}
			}
		} else {
			r.canonical[norm] = RegistryEntry{Name: name, Type: typ}
		}

		r.addScanName(norm)
		r.addScanName(strings.ToLower(name))
	}

	sort.Strings(r.scanNames)
	return r
}

// preferName reports whether candidate should replace current as the
// canonical display name: longer wins, equal lengths prefer the spaced
// (more readable) variant.
func preferName(candidate, current string) bool {
	if len(candidate) != len(current) {
		return len(candidate) > len(current)
	}
	return strings.Contains(candidate, " ") && !strings.Contains(current, " ")
}

func (r *Registry) addScanName(name string) {
	if name == "" {
		return
	}
	if _, ok := r.nameSet[name]; ok {
		return
	}
	r.nameSet[name] = struct{}{}
	r.scanNames = append(r.scanNames, name)
}

// Len returns the number of canonical entries.
func (r *Registry) Len() int { return len(r.canonical) }

// Canonical returns the canonical entry for a normalized form.
func (r *Registry) Canonical(norm string) (RegistryEntry, bool) {
	e, ok := r.canonical[norm]
	return e, ok
}

// ContainsKnown reports whether any known company name occurs as a
// substring of the lowercased text.
func (r *Registry) ContainsKnown(lower string) bool {
	for _, name := range r.scanNames {
		if strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

// ScanNames returns the sorted name variants used for text scans.
func (r *Registry) ScanNames() []string { return r.scanNames }
