package stats

import (
	"context"

	"github.com/spendwell/spendwell/pkg/expense"
	"github.com/spendwell/spendwell/pkg/user"
)

type expenseProviderStub struct {
	expenses []expense.Expense
	err      error
}

func newExpenseProviderStub() *expenseProviderStub {
	return &expenseProviderStub{}
}

func (s *expenseProviderStub) set(expenses []expense.Expense) {
	s.expenses = expenses
}

func (s *expenseProviderStub) GetAll(_ context.Context) ([]expense.Expense, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.expenses, nil
}

func (s *expenseProviderStub) reset() {
	s.expenses = nil
	s.err = nil
}

type userProviderStub struct {
	user user.User
}

func newUserProviderStub() *userProviderStub {
	return &userProviderStub{
		user: user.User{
			Id:          1,
			Uid:         "test-user-uid",
			Username:    "test-user-1",
			DisplayName: "Test User 1",
			Settings: user.Settings{
				Timezone: "UTC",
				Currency: "USD",
			},
		},
	}
}

func (s *userProviderStub) GetCurrentUser(_ context.Context) (user.User, error) {
	return s.user, nil
}
