package stats

import (
	"sort"
	"time"

	"github.com/spendwell/spendwell/pkg/expense"
)

// CategoryTotal is one row of a category breakdown.
type CategoryTotal struct {
	Category string
	Amount   float64
}

// WeeklyPoint is one day of the dashboard's weekly series.
type WeeklyPoint struct {
	Date  time.Time
	Label string
	Total float64
}

// Summary is the dashboard view derived from the normalized collection.
type Summary struct {
	Date        time.Time
	Currency    string
	TotalAmount float64
	MonthTotal  float64
	Categories  []CategoryTotal
	Week        []WeeklyPoint
}

// TotalAmount sums amounts over the full list, dates included or not.
func TotalAmount(expenses []expense.Expense) float64 {
	total := 0.0
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// MonthTotal sums amounts of expenses whose date falls within the given
// calendar month in loc. Records with unparseable dates are skipped; they
// still count toward TotalAmount.
func MonthTotal(expenses []expense.Expense, year int, month time.Month, loc *time.Location) float64 {
	total := 0.0
	for _, e := range expenses {
		date, err := expense.ParseDate(e.Date)
		if err != nil {
			continue
		}
		local := date.In(loc)
		if local.Year() == year && local.Month() == month {
			total += e.Amount
		}
	}
	return total
}

// CategoryBreakdown sums amounts per category and sorts descending. Ties keep
// the order categories were first encountered in. A positive topN truncates
// the result.
func CategoryBreakdown(expenses []expense.Expense, topN int) []CategoryTotal {
	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, e := range expenses {
		if _, seen := totals[e.Category]; !seen {
			order = append(order, e.Category)
		}
		totals[e.Category] += e.Amount
	}

	breakdown := make([]CategoryTotal, 0, len(order))
	for _, category := range order {
		breakdown = append(breakdown, CategoryTotal{Category: category, Amount: totals[category]})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Amount > breakdown[j].Amount
	})

	if topN > 0 && len(breakdown) > topN {
		breakdown = breakdown[:topN]
	}
	return breakdown
}

// WeeklySeries produces one point per calendar day for the last days days
// ending at reference inclusive, oldest first and zero-filled. Day matching is
// exact year+month+day equality in loc, not a rolling 24h window.
func WeeklySeries(expenses []expense.Expense, reference time.Time, days int, loc *time.Location) []WeeklyPoint {
	if days <= 0 {
		days = 7
	}

	reference = reference.In(loc)
	series := make([]WeeklyPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := reference.AddDate(0, 0, -i)
		series = append(series, WeeklyPoint{
			Date:  time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc),
			Label: day.Weekday().String()[:3],
		})
	}

	for _, e := range expenses {
		date, err := expense.ParseDate(e.Date)
		if err != nil {
			continue
		}
		local := date.In(loc)
		for i := range series {
			if sameDay(local, series[i].Date) {
				series[i].Total += e.Amount
				break
			}
		}
	}
	return series
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
