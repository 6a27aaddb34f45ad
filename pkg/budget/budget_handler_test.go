package budget

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spendwell/spendwell/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceStub struct {
	settings    Settings
	settingsErr error
	report      Report
	reportErr   error
	signal      AlertSignal
	alertErr    error
	savedAmount float64
}

func (s *serviceStub) GetSettings(_ context.Context) (Settings, error) {
	return s.settings, s.settingsErr
}

func (s *serviceStub) SaveSettings(_ context.Context, settings Settings) (Settings, error) {
	if s.settingsErr != nil {
		return Settings{}, s.settingsErr
	}
	return settings, nil
}

func (s *serviceStub) GetReport(_ context.Context, _ time.Time) (Report, error) {
	return s.report, s.reportErr
}

func (s *serviceStub) CheckAlert(_ context.Context, amount float64, _ time.Time) (AlertSignal, error) {
	s.savedAmount = amount
	return s.signal, s.alertErr
}

func handlerWithStub(stub *serviceStub) *Handler {
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)}
	return NewHandler(stub, clock)
}

func TestHandler_SaveSettings(t *testing.T) {

	t.Run("should return 422 for an invalid monthly limit", func(t *testing.T) {
		stub := &serviceStub{settingsErr: ErrInvalidMonthlyLimit}
		handler := handlerWithStub(stub)

		body := `{"monthlyLimit":0,"notificationThreshold":80}`
		req := httptest.NewRequest(http.MethodPut, "/api/budget/settings", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.SaveSettings(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("should echo saved settings", func(t *testing.T) {
		stub := &serviceStub{}
		handler := handlerWithStub(stub)

		body := `{"monthlyLimit":2000,"notificationThreshold":80,"categoryLimits":{"Shopping":300}}`
		req := httptest.NewRequest(http.MethodPut, "/api/budget/settings", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.SaveSettings(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var dto SettingsDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
		assert.Equal(t, 2000.0, dto.MonthlyLimit)
		assert.Equal(t, 300.0, dto.CategoryLimits["Shopping"])
	})

	t.Run("should reject malformed bodies", func(t *testing.T) {
		handler := handlerWithStub(&serviceStub{})

		req := httptest.NewRequest(http.MethodPut, "/api/budget/settings", strings.NewReader("{oops"))
		rec := httptest.NewRecorder()

		handler.SaveSettings(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_GetReport(t *testing.T) {

	t.Run("should return the report for the clock date by default", func(t *testing.T) {
		stub := &serviceStub{report: Report{CurrentMonthSpent: 150, MonthlyLimit: 1000, PercentageUsed: 15, Remaining: 850}}
		handler := handlerWithStub(stub)

		req := httptest.NewRequest(http.MethodGet, "/api/budget/report", nil)
		rec := httptest.NewRecorder()

		handler.GetReport(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var dto ReportDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
		assert.Equal(t, 150.0, dto.CurrentMonthSpent)
		assert.False(t, dto.IsOverBudget)
	})

	t.Run("should return 400 for an unparseable date", func(t *testing.T) {
		handler := handlerWithStub(&serviceStub{})

		req := httptest.NewRequest(http.MethodGet, "/api/budget/report?date=yesterday", nil)
		rec := httptest.NewRecorder()

		handler.GetReport(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_CheckAlert(t *testing.T) {

	t.Run("should coerce the amount parameter before classification", func(t *testing.T) {
		stub := &serviceStub{signal: AlertApproachingThreshold}
		handler := handlerWithStub(stub)

		req := httptest.NewRequest(http.MethodGet, "/api/budget/alert?amount=%2412.50", nil)
		rec := httptest.NewRecorder()

		handler.CheckAlert(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 12.5, stub.savedAmount)
		var body map[string]AlertSignal
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, AlertApproachingThreshold, body["signal"])
	})

	t.Run("should require an amount", func(t *testing.T) {
		handler := handlerWithStub(&serviceStub{})

		req := httptest.NewRequest(http.MethodGet, "/api/budget/alert", nil)
		rec := httptest.NewRecorder()

		handler.CheckAlert(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
