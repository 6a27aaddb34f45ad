package app

import (
	"github.com/gorilla/mux"
	"github.com/spendwell/spendwell/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Expenses
	r.HandleFunc("/api/expense", deps.ExpenseHandler.ListExpenses).Methods("GET")
	r.HandleFunc("/api/expense", deps.ExpenseHandler.CreateExpense).Methods("POST")
	r.HandleFunc("/api/expense/categories", deps.ExpenseHandler.GetCategories).Methods("GET")
	r.HandleFunc("/api/expense/{expenseId}", deps.ExpenseHandler.UpdateExpense).Methods("PUT")
	r.HandleFunc("/api/expense/{expenseId}", deps.ExpenseHandler.DeleteExpense).Methods("DELETE")

	// Stats
	r.HandleFunc("/api/stats/summary", deps.StatsHandler.GetSummary).Methods("GET")

	// Budget
	r.HandleFunc("/api/budget/settings", deps.BudgetHandler.GetSettings).Methods("GET")
	r.HandleFunc("/api/budget/settings", deps.BudgetHandler.SaveSettings).Methods("PUT")
	r.HandleFunc("/api/budget/report", deps.BudgetHandler.GetReport).Methods("GET")
	r.HandleFunc("/api/budget/alert", deps.BudgetHandler.CheckAlert).Queries("amount", "{amount}").Methods("GET")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user/name-availability", deps.UserHandler.IsUsernameAvailable).Methods("GET").Queries("username", "{username}")
	r.HandleFunc("/api/user", deps.UserHandler.GetAvailableUsers).Methods("GET")
	r.HandleFunc("/api/user/{userUid}", deps.UserHandler.DeleteUser).Methods("DELETE")

	// Google Sheets import
	r.HandleFunc("/api/import/sheets", deps.SheetsHandler.ImportFromSheets).Methods("POST")
}
