package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/spendwell/spendwell/pkg/expense"
	log "github.com/sirupsen/logrus"
)

// canonicalColumns maps a simplified header cell (lowercase, spaces and
// underscores removed) to the raw record key the normalizer understands.
var canonicalColumns = map[string]string{
	"id":          "id",
	"title":       "title",
	"name":        "name",
	"amount":      "amount",
	"category":    "category",
	"description": "description",
	"date":        "date",
	"createdat":   "createdAt",
	"updatedat":   "updatedAt",
	"userid":      "userId",
}

type Importer struct {
	reader   RowReader
	expenses expense.Service
}

func NewImporter(reader RowReader, expenses expense.Service) *Importer {
	return &Importer{reader: reader, expenses: expenses}
}

// Import reads a spreadsheet range whose first row is a header, converts the
// remaining rows to raw records and feeds them through the normal import
// pipeline. Unknown columns are dropped, fully empty rows are skipped, and
// cells are kept as-is so string amounts still flow through coercion.
func (i *Importer) Import(ctx context.Context, spreadsheetId string, readRange string) (imported int, skipped int, err error) {
	rows, err := i.reader.ReadRows(ctx, spreadsheetId, readRange)
	if err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}

	columns := headerColumns(rows[0])
	log.Debugf("importing %d spreadsheet rows with columns %v", len(rows)-1, columns)

	records := make([]expense.RawRecord, 0, len(rows)-1)
	emptyRows := 0
	for _, row := range rows[1:] {
		record := rowToRecord(columns, row)
		if len(record) == 0 {
			emptyRows++
			continue
		}
		records = append(records, record)
	}

	imported, skipped, err = i.expenses.Import(ctx, records)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to import spreadsheet records: %w", err)
	}
	return imported, skipped + emptyRows, nil
}

// headerColumns resolves each header cell to a canonical key, or "" for
// columns to drop.
func headerColumns(header []any) []string {
	columns := make([]string, 0, len(header))
	for _, cell := range header {
		name, ok := cell.(string)
		if !ok {
			columns = append(columns, "")
			continue
		}
		simplified := strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(name, " ", ""), "_", ""))
		columns = append(columns, canonicalColumns[simplified])
	}
	return columns
}

func rowToRecord(columns []string, row []any) expense.RawRecord {
	record := expense.RawRecord{}
	for i, cell := range row {
		if i >= len(columns) || columns[i] == "" {
			continue
		}
		if s, ok := cell.(string); ok && s == "" {
			continue
		}
		if cell == nil {
			continue
		}
		record[columns[i]] = cell
	}
	return record
}
