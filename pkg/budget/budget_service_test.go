package budget

import (
	"context"
	"testing"
	"time"

	"github.com/spendwell/spendwell/internal/config"
	"github.com/spendwell/spendwell/pkg/expense"
	"github.com/spendwell/spendwell/pkg/user"
	"github.com/stretchr/testify/assert"
)

var repoStub = NewStubRepo()
var providerStub = &expenseProviderStub{}

type expenseProviderStub struct {
	expenses []expense.Expense
}

func (s *expenseProviderStub) GetAll(_ context.Context) ([]expense.Expense, error) {
	return s.expenses, nil
}

type userProviderStub struct {
	user user.User
}

func (s *userProviderStub) GetCurrentUser(_ context.Context) (user.User, error) {
	return s.user, nil
}

func setupServiceTest(t *testing.T) (Service, context.Context, func()) {
	testUser := user.User{
		Id:          1,
		Uid:         "test-user-uid",
		Username:    "test-user-1",
		DisplayName: "Test User 1",
		Settings:    user.Settings{Timezone: "UTC", Currency: "USD"},
	}
	defaults := config.Budget{
		DefaultMonthlyLimit:          2000,
		DefaultNotificationThreshold: 80,
	}
	service := NewService(repoStub, providerStub, &userProviderStub{user: testUser}, defaults)
	ctx := user.WithUser(context.Background(), testUser)

	return service, ctx, func() {
		t.Log("Teardown after test")
		repoStub.Reset()
		providerStub.expenses = nil
	}
}

func TestServiceImpl_GetSettings(t *testing.T) {

	t.Run("should return defaults when nothing is saved", func(t *testing.T) {
		service, ctx, teardown := setupServiceTest(t)
		defer teardown()

		settings, err := service.GetSettings(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 2000.0, settings.MonthlyLimit)
		assert.Equal(t, 80.0, settings.NotificationThreshold)
		assert.Empty(t, settings.CategoryLimits)
	})

	t.Run("should return stored settings once saved", func(t *testing.T) {
		service, ctx, teardown := setupServiceTest(t)
		defer teardown()

		// given
		_, err := service.SaveSettings(ctx, Settings{
			MonthlyLimit:          1500,
			NotificationThreshold: 70,
			CategoryLimits:        map[string]float64{"Travel": 400},
		})
		assert.NoError(t, err)

		// when
		settings, err := service.GetSettings(ctx)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 1500.0, settings.MonthlyLimit)
		assert.Equal(t, map[string]float64{"Travel": 400}, settings.CategoryLimits)
	})
}

func TestServiceImpl_SaveSettings(t *testing.T) {

	t.Run("should reject invalid configurations", func(t *testing.T) {
		service, ctx, teardown := setupServiceTest(t)
		defer teardown()

		_, err := service.SaveSettings(ctx, Settings{MonthlyLimit: 0, NotificationThreshold: 80})
		assert.ErrorIs(t, err, ErrInvalidMonthlyLimit)

		_, err = service.SaveSettings(ctx, Settings{MonthlyLimit: 100, NotificationThreshold: 200})
		assert.ErrorIs(t, err, ErrInvalidThreshold)
	})

	t.Run("should require a current user", func(t *testing.T) {
		service, _, teardown := setupServiceTest(t)
		defer teardown()

		_, err := service.SaveSettings(context.Background(), Settings{MonthlyLimit: 100})
		assert.ErrorIs(t, err, user.ErrNoUser)
	})
}

func TestServiceImpl_GetReport(t *testing.T) {
	service, ctx, teardown := setupServiceTest(t)
	defer teardown()

	// given
	providerStub.expenses = []expense.Expense{
		{Id: "1", Category: "Food & Dining", Amount: 600, Date: "2024-01-05"},
		{Id: "2", Category: "Shopping", Amount: 400, Date: "2024-01-12"},
	}

	// when
	report, err := service.GetReport(ctx, time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC))

	// then
	assert.NoError(t, err)
	assert.Equal(t, 1000.0, report.CurrentMonthSpent)
	assert.Equal(t, 50.0, report.PercentageUsed)
	assert.False(t, report.IsOverBudget)
}

func TestServiceImpl_CheckAlert(t *testing.T) {
	service, ctx, teardown := setupServiceTest(t)
	defer teardown()

	// given: 1700 of the default 2000 already spent in January
	providerStub.expenses = []expense.Expense{
		{Id: "1", Category: "Bills & Utilities", Amount: 1700, Date: "2024-01-02"},
	}
	reference := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)

	// when / then: 1700 -> 1750 stays under the 80% threshold edge already crossed
	signal, err := service.CheckAlert(ctx, 50, reference)
	assert.NoError(t, err)
	assert.Equal(t, AlertOk, signal)

	// a large addition would exceed the limit
	signal, err = service.CheckAlert(ctx, 400, reference)
	assert.NoError(t, err)
	assert.Equal(t, AlertWouldExceedLimit, signal)
}
