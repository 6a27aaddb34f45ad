package stats

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/spendwell/spendwell/internal/rest"
	"github.com/spendwell/spendwell/internal/utils"
	log "github.com/sirupsen/logrus"
)

type CategoryTotalDTO struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type WeeklyPointDTO struct {
	Date  string  `json:"date"`
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

type SummaryDTO struct {
	Date        string             `json:"date"`
	Currency    string             `json:"currency"`
	TotalAmount float64            `json:"totalAmount"`
	MonthTotal  float64            `json:"monthTotal"`
	Categories  []CategoryTotalDTO `json:"categories"`
	Week        []WeeklyPointDTO   `json:"week"`
}

type StatsHandler struct {
	statsService StatsService
	csvRenderer  SummaryRenderer
	clock        utils.Clock
}

func NewStatsHandler(statsService StatsService, csvRenderer SummaryRenderer, clock utils.Clock) *StatsHandler {
	return &StatsHandler{statsService: statsService, csvRenderer: csvRenderer, clock: clock}
}

func (handler *StatsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	dateString := r.URL.Query().Get("date")
	date := handler.clock.Now()
	if dateString != "" {
		var err error
		date, err = parseDateParam(dateString)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Invalid date format",
				Details: "date must be in RFC3339 or YYYY-MM-DD format",
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
	}

	summary, err := handler.statsService.GetSummary(r.Context(), date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		csv, err := handler.csvRenderer.RenderSummary(summary)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv response: %v", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(summaryToDTO(summary)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func parseDateParam(value string) (time.Time, error) {
	date, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return date, nil
	}
	return time.Parse(time.DateOnly, value)
}

func summaryToDTO(summary Summary) SummaryDTO {
	categories := make([]CategoryTotalDTO, 0, len(summary.Categories))
	for _, c := range summary.Categories {
		categories = append(categories, CategoryTotalDTO{Category: c.Category, Amount: c.Amount})
	}
	week := make([]WeeklyPointDTO, 0, len(summary.Week))
	for _, p := range summary.Week {
		week = append(week, WeeklyPointDTO{
			Date:  p.Date.Format(time.DateOnly),
			Label: p.Label,
			Total: p.Total,
		})
	}
	return SummaryDTO{
		Date:        summary.Date.Format(time.RFC3339),
		Currency:    summary.Currency,
		TotalAmount: summary.TotalAmount,
		MonthTotal:  summary.MonthTotal,
		Categories:  categories,
		Week:        week,
	}
}
