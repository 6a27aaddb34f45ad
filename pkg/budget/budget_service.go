package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spendwell/spendwell/internal/config"
	"github.com/spendwell/spendwell/pkg/expense"
	"github.com/spendwell/spendwell/pkg/stats"
	"github.com/spendwell/spendwell/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, settings Settings) (Settings, error)
	GetReport(ctx context.Context, reference time.Time) (Report, error)
	CheckAlert(ctx context.Context, amount float64, reference time.Time) (AlertSignal, error)
}

type ServiceImpl struct {
	repo     Repo
	expenses expense.Provider
	users    user.Provider
	defaults config.Budget
}

func NewService(repo Repo, expenses expense.Provider, users user.Provider, defaults config.Budget) *ServiceImpl {
	return &ServiceImpl{
		repo:     repo,
		expenses: expenses,
		users:    users,
		defaults: defaults,
	}
}

// GetSettings returns the stored settings, or the configured defaults when
// the user never saved any. Defaults are not persisted.
func (s *ServiceImpl) GetSettings(ctx context.Context) (Settings, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to get current user: %w", err)
	}

	settings, err := s.repo.GetSettings(ctx, userId)
	if errors.Is(err, ErrNoSettings) {
		log.Debugf("no budget settings for user %d, using defaults", userId)
		return Settings{
			MonthlyLimit:          s.defaults.DefaultMonthlyLimit,
			NotificationThreshold: s.defaults.DefaultNotificationThreshold,
			CategoryLimits:        map[string]float64{},
		}, nil
	} else if err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (s *ServiceImpl) SaveSettings(ctx context.Context, settings Settings) (Settings, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return s.repo.SaveSettings(ctx, userId, settings)
}

func (s *ServiceImpl) GetReport(ctx context.Context, reference time.Time) (Report, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return Report{}, err
	}
	loc, err := s.userLocation(ctx)
	if err != nil {
		return Report{}, err
	}
	expenses, err := s.expenses.GetAll(ctx)
	if err != nil {
		return Report{}, err
	}
	return Evaluate(expenses, settings, reference, loc)
}

func (s *ServiceImpl) CheckAlert(ctx context.Context, amount float64, reference time.Time) (AlertSignal, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	loc, err := s.userLocation(ctx)
	if err != nil {
		return "", err
	}
	expenses, err := s.expenses.GetAll(ctx)
	if err != nil {
		return "", err
	}

	reference = reference.In(loc)
	spent := stats.MonthTotal(expenses, reference.Year(), reference.Month(), loc)
	return CheckAlert(spent, amount, settings)
}

func (s *ServiceImpl) userLocation(ctx context.Context) (*time.Location, error) {
	currentUser, err := s.users.GetCurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	if currentUser.Settings.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(currentUser.Settings.Timezone)
	if err != nil {
		log.Warnf("invalid timezone %q, falling back to UTC", currentUser.Settings.Timezone)
		return time.UTC, nil
	}
	return loc, nil
}
