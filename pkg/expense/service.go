package expense

import (
	"context"
	"fmt"

	"github.com/spendwell/spendwell/internal/diag"
	"github.com/spendwell/spendwell/pkg/user"
	log "github.com/sirupsen/logrus"
)

// RecordSource is the upstream API the expense data lives in. Implementations
// scope every call to the user carried in the context.
type RecordSource interface {
	FetchRecords(ctx context.Context) ([]RawRecord, error)
	CreateRecord(ctx context.Context, record RawRecord) (RawRecord, error)
	UpdateRecord(ctx context.Context, id string, record RawRecord) (RawRecord, error)
	DeleteRecord(ctx context.Context, id string) error
}

// Provider exposes the normalized collection to other packages (stats,
// budget) without pulling in the full Service surface.
type Provider interface {
	GetAll(ctx context.Context) ([]Expense, error)
}

type Service interface {
	GetAll(ctx context.Context) ([]Expense, error)
	Search(ctx context.Context, query string, category string) ([]Expense, error)
	Create(ctx context.Context, expense Expense) (Expense, error)
	Update(ctx context.Context, id string, expense Expense) (Expense, error)
	Delete(ctx context.Context, id string) error
	Import(ctx context.Context, records []RawRecord) (imported int, skipped int, err error)
}

type ServiceImpl struct {
	source     RecordSource
	normalizer *Normalizer
	recorder   diag.Recorder
}

func NewService(source RecordSource, normalizer *Normalizer, recorder diag.Recorder) *ServiceImpl {
	if recorder == nil {
		recorder = diag.Discard
	}
	return &ServiceImpl{source: source, normalizer: normalizer, recorder: recorder}
}

// GetAll fetches the current user's records from upstream and normalizes
// them. No caching: every call re-runs the pipeline so mutations done through
// other clients are always visible.
func (s *ServiceImpl) GetAll(ctx context.Context) ([]Expense, error) {
	records, err := s.source.FetchRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expense records: %w", err)
	}
	return s.normalizer.NormalizeAll(records), nil
}

func (s *ServiceImpl) Search(ctx context.Context, query string, category string) ([]Expense, error) {
	expenses, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterWithDiagnostics(expenses, query, category, s.recorder), nil
}

func (s *ServiceImpl) Create(ctx context.Context, expense Expense) (Expense, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to get current user: %w", err)
	}
	record := RawRecord{
		"title":       expense.Title,
		"amount":      expense.Amount,
		"category":    expense.Category,
		"description": expense.Description,
		"date":        expense.Date,
		"userId":      currentUser.Uid,
	}
	created, err := s.source.CreateRecord(ctx, record)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to create expense upstream: %w", err)
	}
	return s.normalizer.Normalize(created), nil
}

func (s *ServiceImpl) Update(ctx context.Context, id string, expense Expense) (Expense, error) {
	record := RawRecord{
		"title":       expense.Title,
		"amount":      expense.Amount,
		"category":    expense.Category,
		"description": expense.Description,
		"date":        expense.Date,
	}
	updated, err := s.source.UpdateRecord(ctx, id, record)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to update expense %s upstream: %w", id, err)
	}
	return s.normalizer.Normalize(updated), nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.source.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("failed to delete expense %s upstream: %w", id, err)
	}
	return nil
}

// Import normalizes a batch of raw records and creates them upstream one by
// one. A record that fails to create is skipped and counted, the rest
// proceed.
func (s *ServiceImpl) Import(ctx context.Context, records []RawRecord) (int, int, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get current user: %w", err)
	}

	imported := 0
	skipped := 0
	for _, raw := range records {
		expense := s.normalizer.Normalize(raw)
		record := RawRecord{
			"title":       expense.Title,
			"amount":      expense.Amount,
			"category":    expense.Category,
			"description": expense.Description,
			"date":        expense.Date,
			"userId":      currentUser.Uid,
		}
		if _, err := s.source.CreateRecord(ctx, record); err != nil {
			log.Warnf("skipping imported record %q: %v", expense.Title, err)
			skipped++
			continue
		}
		imported++
	}
	log.Infof("imported %d expense records, skipped %d", imported, skipped)
	return imported, skipped, nil
}
