package budget

import (
	"errors"
	"sort"
	"time"

	"github.com/spendwell/spendwell/pkg/expense"
	"github.com/spendwell/spendwell/pkg/stats"
)

var (
	// ErrInvalidMonthlyLimit marks a configuration the evaluator refuses to
	// compute percentages against. A non-positive limit would otherwise
	// produce Inf/NaN that poisons every downstream number.
	ErrInvalidMonthlyLimit  = errors.New("monthly limit must be greater than zero")
	ErrInvalidThreshold     = errors.New("notification threshold must be between 0 and 100")
	ErrInvalidCategoryLimit = errors.New("category limits must not be negative")
	ErrNoSettings           = errors.New("budget settings not found")
)

// Settings is the per-user budget configuration. Defaults are handed out on
// first use; a row exists in the database only after an explicit save.
type Settings struct {
	MonthlyLimit          float64
	NotificationThreshold float64
	CategoryLimits        map[string]float64
}

// Validate checks a configuration before it is saved or evaluated.
func (s Settings) Validate() error {
	if s.MonthlyLimit <= 0 {
		return ErrInvalidMonthlyLimit
	}
	if s.NotificationThreshold < 0 || s.NotificationThreshold > 100 {
		return ErrInvalidThreshold
	}
	for _, limit := range s.CategoryLimits {
		if limit < 0 {
			return ErrInvalidCategoryLimit
		}
	}
	return nil
}

// CategoryReport is the per-category slice of a Report. Percentage is clamped
// to [0,100] for display; Overage carries the unclamped excess.
type CategoryReport struct {
	Category   string
	Spent      float64
	Limit      float64
	Percentage float64
	Overage    float64
}

type Report struct {
	CurrentMonthSpent float64
	MonthlyLimit      float64
	PercentageUsed    float64
	IsOverBudget      bool
	Remaining         float64
	Overage           float64
	PerCategory       []CategoryReport
}

// Evaluate compares the month containing reference against the configured
// limits. The expense list must already be scoped to the owning user.
func Evaluate(expenses []expense.Expense, settings Settings, reference time.Time, loc *time.Location) (Report, error) {
	if settings.MonthlyLimit <= 0 {
		return Report{}, ErrInvalidMonthlyLimit
	}

	reference = reference.In(loc)
	spent := stats.MonthTotal(expenses, reference.Year(), reference.Month(), loc)

	report := Report{
		CurrentMonthSpent: spent,
		MonthlyLimit:      settings.MonthlyLimit,
		PercentageUsed:    spent / settings.MonthlyLimit * 100,
		IsOverBudget:      spent > settings.MonthlyLimit,
		PerCategory:       perCategory(expenses, settings, reference, loc),
	}
	if spent > settings.MonthlyLimit {
		report.Overage = spent - settings.MonthlyLimit
	} else {
		report.Remaining = settings.MonthlyLimit - spent
	}
	return report, nil
}

// perCategory reports every known category: the fixed set first (stable UI
// order), then categories only seen in the data, then limit-only keys.
func perCategory(expenses []expense.Expense, settings Settings, reference time.Time, loc *time.Location) []CategoryReport {
	spentByCategory := make(map[string]float64)
	seen := make(map[string]bool)
	seenOrder := make([]string, 0)
	for _, e := range expenses {
		if !seen[e.Category] {
			seen[e.Category] = true
			seenOrder = append(seenOrder, e.Category)
		}
		date, err := expense.ParseDate(e.Date)
		if err != nil {
			continue
		}
		local := date.In(loc)
		if local.Year() == reference.Year() && local.Month() == reference.Month() {
			spentByCategory[e.Category] += e.Amount
		}
	}

	categories := make([]string, 0, len(expense.Categories)+len(seenOrder))
	included := make(map[string]bool)
	for _, category := range expense.Categories {
		categories = append(categories, category)
		included[category] = true
	}
	for _, category := range seenOrder {
		if !included[category] {
			categories = append(categories, category)
			included[category] = true
		}
	}
	limitOnly := make([]string, 0)
	for category := range settings.CategoryLimits {
		if !included[category] {
			limitOnly = append(limitOnly, category)
		}
	}
	sort.Strings(limitOnly)
	categories = append(categories, limitOnly...)

	reports := make([]CategoryReport, 0, len(categories))
	for _, category := range categories {
		spent := spentByCategory[category]
		limit := settings.CategoryLimits[category]
		report := CategoryReport{
			Category: category,
			Spent:    spent,
			Limit:    limit,
		}
		if limit > 0 {
			report.Percentage = spent / limit * 100
			if report.Percentage > 100 {
				report.Percentage = 100
			}
			if spent > limit {
				report.Overage = spent - limit
			}
		}
		reports = append(reports, report)
	}
	return reports
}

// AlertSignal classifies what accepting one more expense would do to the
// current month's budget. The caller decides how to present it.
type AlertSignal string

const (
	AlertOk AlertSignal = "ok"
	// AlertApproachingThreshold fires only on crossing the notification
	// threshold, not on every evaluation above it.
	AlertApproachingThreshold AlertSignal = "approaching_threshold"
	AlertWouldExceedLimit     AlertSignal = "would_exceed_limit"
)

// CheckAlert is a query, not a mutation: given the amount already spent this
// month and a hypothetical additional amount, it classifies the projection.
// Exceeding the limit wins when a single amount crosses both lines.
func CheckAlert(spent float64, newAmount float64, settings Settings) (AlertSignal, error) {
	if settings.MonthlyLimit <= 0 {
		return "", ErrInvalidMonthlyLimit
	}

	projected := spent + newAmount
	if projected > settings.MonthlyLimit {
		return AlertWouldExceedLimit, nil
	}

	currentPct := spent / settings.MonthlyLimit * 100
	projectedPct := projected / settings.MonthlyLimit * 100
	if projectedPct >= settings.NotificationThreshold && currentPct < settings.NotificationThreshold {
		return AlertApproachingThreshold, nil
	}
	return AlertOk, nil
}
