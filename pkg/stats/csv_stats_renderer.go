package stats

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

type SummaryRenderer interface {
	RenderSummary(summary Summary) (string, error)
}

type CsvSummaryRenderer struct {
}

func NewCsvSummaryRenderer() *CsvSummaryRenderer {
	return &CsvSummaryRenderer{}
}

// RenderSummary renders the dashboard summary as CSV: a header block with the
// totals, the category breakdown, then the weekly series.
func (t *CsvSummaryRenderer) RenderSummary(summary Summary) (string, error) {
	data := make([][]string, 0, 4+len(summary.Categories)+len(summary.Week))
	data = append(data,
		[]string{"Date", summary.Date.Format("2006-01-02")},
		[]string{"Currency", summary.Currency},
		[]string{"Total", formatAmount(summary.TotalAmount)},
		[]string{"Month total", formatAmount(summary.MonthTotal)},
	)

	data = append(data, []string{"Category", "Amount"})
	for _, c := range summary.Categories {
		data = append(data, []string{c.Category, formatAmount(c.Amount)})
	}

	data = append(data, []string{"Day", "Date", "Amount"})
	for _, p := range summary.Week {
		data = append(data, []string{p.Label, p.Date.Format(time.DateOnly), formatAmount(p.Total)})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
