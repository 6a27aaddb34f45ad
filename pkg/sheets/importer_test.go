package sheets

import (
	"context"
	"testing"
	"time"

	"github.com/spendwell/spendwell/internal/utils"
	"github.com/spendwell/spendwell/pkg/expense"
	"github.com/spendwell/spendwell/pkg/user"
	"github.com/stretchr/testify/assert"
)

type rowReaderStub struct {
	rows [][]any
	err  error
}

func (s *rowReaderStub) ReadRows(_ context.Context, _ string, _ string) ([][]any, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func setupImporterTest(rows [][]any) (*Importer, *expense.StubRecordSource, context.Context) {
	source := expense.NewStubRecordSource()
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)}
	expenseService := expense.NewService(source, expense.NewNormalizer(clock, nil), nil)
	importer := NewImporter(&rowReaderStub{rows: rows}, expenseService)
	ctx := user.WithUser(context.Background(), user.User{Id: 1, Uid: "user-uid-1"})
	return importer, source, ctx
}

func TestImporter_Import(t *testing.T) {

	t.Run("should map header columns and import data rows", func(t *testing.T) {
		// given
		importer, source, ctx := setupImporterTest([][]any{
			{"Title", "Amount", "Category", "Date", "Notes"},
			{"Coffee", "4.50", "Food & Dining", "2024-01-05", "ignored column"},
			{"Bus", 2.0, "", "2024-01-05"},
		})

		// when
		imported, skipped, err := importer.Import(ctx, "sheet-1", "A1:E3")

		// then
		assert.NoError(t, err)
		assert.Equal(t, 2, imported)
		assert.Equal(t, 0, skipped)

		records, err := source.FetchRecords(ctx)
		assert.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Equal(t, "Coffee", records[0]["title"])
		assert.Equal(t, 4.5, records[0]["amount"])
		assert.Equal(t, "Other", records[1]["category"])
		// unknown columns are dropped
		_, hasNotes := records[0]["notes"]
		assert.False(t, hasNotes)
	})

	t.Run("should accept underscore and mixed-case headers", func(t *testing.T) {
		importer, source, ctx := setupImporterTest([][]any{
			{"created_at", "TITLE", "Amount"},
			{"2024-02-01", "Rent", "1200"},
		})

		imported, _, err := importer.Import(ctx, "sheet-1", "A1:C2")

		assert.NoError(t, err)
		assert.Equal(t, 1, imported)
		records, _ := source.FetchRecords(ctx)
		assert.Equal(t, "Rent", records[0]["title"])
		// date fell back to createdAt during normalization
		assert.Equal(t, "2024-02-01", records[0]["date"])
	})

	t.Run("should skip fully empty rows", func(t *testing.T) {
		importer, _, ctx := setupImporterTest([][]any{
			{"Title", "Amount"},
			{"", ""},
			{"Coffee", "4.50"},
		})

		imported, skipped, err := importer.Import(ctx, "sheet-1", "A1:B3")

		assert.NoError(t, err)
		assert.Equal(t, 1, imported)
		assert.Equal(t, 1, skipped)
	})

	t.Run("should return zero counts for an empty range", func(t *testing.T) {
		importer, _, ctx := setupImporterTest(nil)

		imported, skipped, err := importer.Import(ctx, "sheet-1", "A1:B1")

		assert.NoError(t, err)
		assert.Zero(t, imported)
		assert.Zero(t, skipped)
	})

	t.Run("should propagate ErrNotConfigured", func(t *testing.T) {
		expenseService := expense.NewService(expense.NewStubRecordSource(),
			expense.NewNormalizer(&utils.MockClock{FixedNow: time.Now()}, nil), nil)
		importer := NewImporter(&rowReaderStub{err: ErrNotConfigured}, expenseService)

		_, _, err := importer.Import(context.Background(), "sheet-1", "A1:B1")

		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}
