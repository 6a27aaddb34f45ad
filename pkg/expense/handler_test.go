package expense

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/spendwell/spendwell/internal/utils"
	"github.com/spendwell/spendwell/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest() (*Handler, *StubRecordSource, context.Context) {
	source := NewStubRecordSource()
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)}
	service := NewService(source, NewNormalizer(clock, nil), nil)
	ctx := user.WithUser(context.Background(), user.User{Id: 1, Uid: "user-uid-1"})
	return NewHandler(service), source, ctx
}

func TestHandler_ListExpenses(t *testing.T) {
	handler, source, ctx := setupHandlerTest()
	source.SetRecords([]RawRecord{
		{"id": "1", "title": "Groceries", "category": "Food & Dining", "amount": "20.00", "date": "2024-01-03"},
		{"id": "2", "title": "Shoes", "category": "Shopping", "amount": 80, "date": "2024-01-10"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/expense?search=groceries", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	handler.ListExpenses(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var dtos []ExpenseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dtos))
	require.Len(t, dtos, 1)
	assert.Equal(t, "Groceries", dtos[0].Title)
	assert.Equal(t, 20.0, dtos[0].Amount)
}

func TestHandler_CreateExpense(t *testing.T) {

	t.Run("should create and echo the normalized expense", func(t *testing.T) {
		handler, _, ctx := setupHandlerTest()
		body := `{"title":"Coffee","amount":4.5,"category":"Food & Dining","date":"2024-01-05"}`

		req := httptest.NewRequest(http.MethodPost, "/api/expense", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()

		handler.CreateExpense(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var dto ExpenseDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
		assert.NotEmpty(t, dto.Id)
		assert.Equal(t, "Coffee", dto.Title)
	})

	t.Run("should reject malformed bodies", func(t *testing.T) {
		handler, _, ctx := setupHandlerTest()

		req := httptest.NewRequest(http.MethodPost, "/api/expense", strings.NewReader("{not json")).WithContext(ctx)
		rec := httptest.NewRecorder()

		handler.CreateExpense(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_DeleteExpense(t *testing.T) {
	handler, source, ctx := setupHandlerTest()
	source.SetRecords([]RawRecord{{"id": "7", "title": "Old", "amount": 1}})

	req := httptest.NewRequest(http.MethodDelete, "/api/expense/7", nil).WithContext(ctx)
	req = mux.SetURLVars(req, map[string]string{"expenseId": "7"})
	rec := httptest.NewRecorder()

	handler.DeleteExpense(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	records, _ := source.FetchRecords(ctx)
	assert.Empty(t, records)
}

func TestHandler_GetCategories(t *testing.T) {
	handler, _, _ := setupHandlerTest()

	req := httptest.NewRequest(http.MethodGet, "/api/expense/categories", nil)
	rec := httptest.NewRecorder()

	handler.GetCategories(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var categories []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	assert.Equal(t, Categories, categories)
}
