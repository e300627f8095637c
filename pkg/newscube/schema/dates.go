package schema

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Date layouts accepted from the dataset, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
	"January 2, 2006",
	"2 January 2006",
}

// ParseDate parses an ISO-like date string. ok is false for absent or
// unparseable values; callers fall back to the sentinel date key.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateKey returns the YYYYMMDD integer key for a date.
func DateKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// Quarter formats the calendar quarter as "Q1".."Q4".
func Quarter(t time.Time) string {
	return fmt.Sprintf("Q%d", (int(t.Month())-1)/3+1)
}

// TimeRowFor expands a date into its full Dim_Time row.
func TimeRowFor(t time.Time) TimeRow {
	_, week := t.ISOWeek()
	return TimeRow{
		DateKey:     DateKey(t),
		Year:        t.Year(),
		Quarter:     Quarter(t),
		Month:       t.Month().String(),
		MonthNumber: int(t.Month()),
		Day:         t.Day(),
		DayOfWeek:   t.Weekday().String(),
		WeekOfYear:  week,
		DateString:  t.Format("2006-01-02"),
	}
}

// ValidSourceName filters values that cannot be valid source names: empty
// or too short, purely numeric (row-alignment corruption), too long, or
// containing no alphanumeric character.
func ValidSourceName(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 100 {
		return false
	}

	digitsOnly := true
	hasAlnum := false
	for _, r := range s {
		if !unicode.IsDigit(r) {
			digitsOnly = false
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			hasAlnum = true
		}
	}
	return !digitsOnly && hasAlnum
}

// ClassifySourceType derives the source-type attribute from name patterns.
func ClassifySourceType(name string) string {
	lower := strings.ToLower(name)
	switch {
	case containsAny(lower, "news", "times", "post", "journal", "report"):
		return "News"
	case containsAny(lower, "fda", "ema", "who", "nih", "gov"):
		return "Government"
	case containsAny(lower, "university", "college", "institute"):
		return "Academic"
	case containsAny(lower, "biotech", "pharma", "medical", "health"):
		return "Industry"
	default:
		return "Other"
	}
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
