package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/spendwell/spendwell/pkg/expense"
	"github.com/spendwell/spendwell/pkg/user"
	log "github.com/sirupsen/logrus"
)

type StatsService interface {
	GetSummary(ctx context.Context, date time.Time) (Summary, error)
}

type StatsServiceImpl struct {
	expenses expense.Provider
	users    user.Provider
}

func NewStatsServiceImpl(expenses expense.Provider, users user.Provider) *StatsServiceImpl {
	return &StatsServiceImpl{
		expenses: expenses,
		users:    users,
	}
}

// GetSummary composes the dashboard view for the month and week containing
// date, bucketed in the current user's timezone.
func (s *StatsServiceImpl) GetSummary(ctx context.Context, date time.Time) (Summary, error) {
	currentUser, err := s.users.GetCurrentUser(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to get current user: %w", err)
	}
	loc := resolveLocation(currentUser.Settings.Timezone)
	date = date.In(loc)

	expenses, err := s.expenses.GetAll(ctx)
	if err != nil {
		return Summary{}, err
	}
	log.Debugf("Computing summary over %d expenses for %s", len(expenses), date.Format("2006-01-02"))

	return Summary{
		Date:        date,
		Currency:    currentUser.Settings.Currency,
		TotalAmount: TotalAmount(expenses),
		MonthTotal:  MonthTotal(expenses, date.Year(), date.Month(), loc),
		Categories:  CategoryBreakdown(expenses, 0),
		Week:        WeeklySeries(expenses, date, 7, loc),
	}, nil
}

func resolveLocation(timezone string) *time.Location {
	if timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Warnf("invalid timezone %q, falling back to UTC", timezone)
		return time.UTC
	}
	return loc
}
