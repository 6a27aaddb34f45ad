package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spendwell/spendwell/internal/config"
	"github.com/spendwell/spendwell/internal/diag"
	"github.com/spendwell/spendwell/internal/utils"
	"github.com/spendwell/spendwell/pkg/budget"
	"github.com/spendwell/spendwell/pkg/expense"
	"github.com/spendwell/spendwell/pkg/sheets"
	"github.com/spendwell/spendwell/pkg/stats"
	"github.com/spendwell/spendwell/pkg/upstream"
	"github.com/spendwell/spendwell/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Diagnostics *diag.Bus

	UserService user.Service
	UserHandler *user.Handler

	UpstreamClient upstream.Client

	ExpenseService *expense.ServiceImpl
	ExpenseHandler *expense.Handler

	StatsService       *stats.StatsServiceImpl
	CsvSummaryRenderer *stats.CsvSummaryRenderer
	StatsHandler       *stats.StatsHandler

	BudgetRepo    budget.Repo
	BudgetService *budget.ServiceImpl
	BudgetHandler *budget.Handler

	SheetsReader   *sheets.SheetsReader
	SheetsImporter *sheets.Importer
	SheetsHandler  *sheets.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.Diagnostics = diag.NewBus()
	deps.Diagnostics.Subscribe(diag.LogRecorder{}.Record)

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.UpstreamClient = upstream.NewClient(cfg.Upstream)
	normalizer := expense.NewNormalizer(deps.Clock, deps.Diagnostics)
	deps.ExpenseService = expense.NewService(deps.UpstreamClient, normalizer, deps.Diagnostics)
	deps.ExpenseHandler = expense.NewHandler(deps.ExpenseService)

	deps.StatsService = stats.NewStatsServiceImpl(deps.ExpenseService, deps.UserService)
	deps.CsvSummaryRenderer = stats.NewCsvSummaryRenderer()
	deps.StatsHandler = stats.NewStatsHandler(deps.StatsService, deps.CsvSummaryRenderer, deps.Clock)

	deps.BudgetRepo = budget.NewRepo(db)
	deps.BudgetService = budget.NewService(deps.BudgetRepo, deps.ExpenseService, deps.UserService, cfg.Budget)
	deps.BudgetHandler = budget.NewHandler(deps.BudgetService, deps.Clock)

	deps.SheetsReader = sheets.NewSheetsReader(cfg.Sheets)
	deps.SheetsImporter = sheets.NewImporter(deps.SheetsReader, deps.ExpenseService)
	deps.SheetsHandler = sheets.NewHandler(deps.SheetsImporter)

	return deps
}
