package entity

import (
	"sort"
	"strings"
)

// RejectReason is the audit-trail explanation attached to every rejected
// candidate in the frequency report.
const RejectReason = "Failed validation (not recognized as company name)"

// RejectedEntity is one row of the rejected-candidate frequency report.
type RejectedEntity struct {
	Name   string
	Count  int
	Reason string
}

// RejectedLog accumulates candidate names that failed validation, answering
// "why was X not promoted to an entity" without making rejection fatal.
type RejectedLog struct {
	counts map[string]int
}

// NewRejectedLog creates an empty log.
func NewRejectedLog() *RejectedLog {
	return &RejectedLog{counts: make(map[string]int)}
}

// Add records one rejected candidate occurrence.
func (l *RejectedLog) Add(candidate string) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return
	}
	l.counts[candidate]++
}

// Merge folds another log into this one.
func (l *RejectedLog) Merge(other *RejectedLog) {
	if other == nil {
		return
	}
	for name, count := range other.counts {
		l.counts[name] += count
	}
}

// Len returns the number of distinct rejected names.
func (l *RejectedLog) Len() int { return len(l.counts) }

// Total returns the total rejected occurrences.
func (l *RejectedLog) Total() int {
	total := 0
	for _, c := range l.counts {
		total += c
	}
	return total
}

// Report returns the frequency table sorted by occurrence count descending,
// ties broken by name for stable output.
func (l *RejectedLog) Report() []RejectedEntity {
	out := make([]RejectedEntity, 0, len(l.counts))
	for name, count := range l.counts {
		out = append(out, RejectedEntity{Name: name, Count: count, Reason: RejectReason})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
