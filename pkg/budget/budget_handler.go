package budget

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/spendwell/spendwell/internal/rest"
	"github.com/spendwell/spendwell/internal/utils"
	"github.com/spendwell/spendwell/pkg/expense"
	log "github.com/sirupsen/logrus"
)

type SettingsDTO struct {
	MonthlyLimit          float64            `json:"monthlyLimit"`
	NotificationThreshold float64            `json:"notificationThreshold"`
	CategoryLimits        map[string]float64 `json:"categoryLimits"`
}

type CategoryReportDTO struct {
	Category   string  `json:"category"`
	Spent      float64 `json:"spent"`
	Limit      float64 `json:"limit"`
	Percentage float64 `json:"percentage"`
	Overage    float64 `json:"overage"`
}

type ReportDTO struct {
	CurrentMonthSpent float64             `json:"currentMonthSpent"`
	MonthlyLimit      float64             `json:"monthlyLimit"`
	PercentageUsed    float64             `json:"percentageUsed"`
	IsOverBudget      bool                `json:"isOverBudget"`
	Remaining         float64             `json:"remaining"`
	Overage           float64             `json:"overage"`
	PerCategory       []CategoryReportDTO `json:"perCategory"`
}

type Handler struct {
	service Service
	clock   utils.Clock
}

func NewHandler(service Service, clock utils.Clock) *Handler {
	return &Handler{service: service, clock: clock}
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Getting budget settings")

	settings, err := h.service.GetSettings(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(settingsToDTO(settings)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Saving budget settings")

	var dto SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	saved, err := h.service.SaveSettings(r.Context(), dtoToSettings(dto))
	if err != nil {
		if isConfigurationError(err) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Invalid budget configuration",
				Details: err.Error(),
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(settingsToDTO(saved)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Getting budget report")

	reference, ok := h.referenceDate(w, r)
	if !ok {
		return
	}

	report, err := h.service.GetReport(r.Context(), reference)
	if err != nil {
		if errors.Is(err, ErrInvalidMonthlyLimit) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Invalid budget configuration",
				Details: err.Error(),
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(reportToDTO(report)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// CheckAlert classifies the hypothetical addition passed as ?amount=. The
// amount goes through the same coercion as upstream data, so "12.50abc" is
// treated as 12.5 rather than rejected.
func (h *Handler) CheckAlert(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Checking budget alert")

	amountParam := r.URL.Query().Get("amount")
	if amountParam == "" {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "amount is required",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}
	amount := expense.CoerceAmount(amountParam)

	reference, ok := h.referenceDate(w, r)
	if !ok {
		return
	}

	signal, err := h.service.CheckAlert(r.Context(), amount, reference)
	if err != nil {
		if errors.Is(err, ErrInvalidMonthlyLimit) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Invalid budget configuration",
				Details: err.Error(),
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]AlertSignal{"signal": signal}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) referenceDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	dateString := r.URL.Query().Get("date")
	if dateString == "" {
		return h.clock.Now(), true
	}
	date, err := time.Parse(time.RFC3339, dateString)
	if err == nil {
		return date, true
	}
	date, err = time.Parse(time.DateOnly, dateString)
	if err == nil {
		return date, true
	}
	w.WriteHeader(http.StatusBadRequest)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   "Invalid date format",
		Details: "date must be in RFC3339 or YYYY-MM-DD format",
	})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
	return time.Time{}, false
}

func isConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidMonthlyLimit) ||
		errors.Is(err, ErrInvalidThreshold) ||
		errors.Is(err, ErrInvalidCategoryLimit)
}

func settingsToDTO(settings Settings) SettingsDTO {
	limits := settings.CategoryLimits
	if limits == nil {
		limits = map[string]float64{}
	}
	return SettingsDTO{
		MonthlyLimit:          settings.MonthlyLimit,
		NotificationThreshold: settings.NotificationThreshold,
		CategoryLimits:        limits,
	}
}

func dtoToSettings(dto SettingsDTO) Settings {
	return Settings{
		MonthlyLimit:          dto.MonthlyLimit,
		NotificationThreshold: dto.NotificationThreshold,
		CategoryLimits:        dto.CategoryLimits,
	}
}

func reportToDTO(report Report) ReportDTO {
	perCategory := make([]CategoryReportDTO, 0, len(report.PerCategory))
	for _, c := range report.PerCategory {
		perCategory = append(perCategory, CategoryReportDTO{
			Category:   c.Category,
			Spent:      c.Spent,
			Limit:      c.Limit,
			Percentage: c.Percentage,
			Overage:    c.Overage,
		})
	}
	return ReportDTO{
		CurrentMonthSpent: report.CurrentMonthSpent,
		MonthlyLimit:      report.MonthlyLimit,
		PercentageUsed:    report.PercentageUsed,
		IsOverBudget:      report.IsOverBudget,
		Remaining:         report.Remaining,
		Overage:           report.Overage,
		PerCategory:       perCategory,
	}
}
