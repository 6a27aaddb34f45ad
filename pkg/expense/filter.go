package expense

import (
	"sort"
	"strings"
	"time"

	"github.com/spendwell/spendwell/internal/diag"
	log "github.com/sirupsen/logrus"
)

// Filter narrows a normalized collection for display. The text query matches
// case-insensitively against title, category and description (any of them);
// the category filter is an exact match. Both compose with AND; empty values
// match everything. The result is always sorted by date descending, ties
// keeping their original relative order. A record whose date cannot be parsed
// for comparison is dropped from the result and the rest proceed.
func Filter(expenses []Expense, query string, category string) []Expense {
	return FilterWithDiagnostics(expenses, query, category, diag.Discard)
}

// FilterWithDiagnostics is Filter with a ComparisonFailure diagnostic emitted
// per dropped record.
func FilterWithDiagnostics(expenses []Expense, query string, category string, recorder diag.Recorder) []Expense {
	query = strings.ToLower(strings.TrimSpace(query))

	type sortable struct {
		expense Expense
		date    time.Time
	}
	matched := make([]sortable, 0, len(expenses))
	for _, e := range expenses {
		if query != "" && !matchesQuery(e, query) {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		date, err := ParseDate(e.Date)
		if err != nil {
			log.Debugf("dropping expense %q from result: unparseable date %q: %v", e.Id, e.Date, err)
			recorder.Record(diag.Diagnostic{
				Kind:     diag.ComparisonFailure,
				RecordId: e.Id,
				Field:    "date",
				Detail:   "unparseable date " + e.Date + ", record excluded from sorted result",
			})
			continue
		}
		matched = append(matched, sortable{expense: e, date: date})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].date.After(matched[j].date)
	})

	result := make([]Expense, 0, len(matched))
	for _, m := range matched {
		result = append(result, m.expense)
	}
	return result
}

func matchesQuery(e Expense, loweredQuery string) bool {
	return strings.Contains(strings.ToLower(e.Title), loweredQuery) ||
		strings.Contains(strings.ToLower(e.Category), loweredQuery) ||
		strings.Contains(strings.ToLower(e.Description), loweredQuery)
}
