package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spendwell/spendwell/internal/config"
	"github.com/spendwell/spendwell/pkg/expense"
	"github.com/spendwell/spendwell/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return user.WithUser(context.Background(), user.User{
		Id:  1,
		Uid: "user-uid-1",
	})
}

func TestClientImpl_FetchRecords(t *testing.T) {

	t.Run("should scope the request to the current user and decode raw maps", func(t *testing.T) {
		// given
		var gotPath, gotUserId, gotApiKey string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotUserId = r.URL.Query().Get("userId")
			gotApiKey = r.Header.Get("X-Api-Key")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"1","title":"Coffee","amount":"4.50"},{"name":"Bus","amount":2}]`))
		}))
		defer server.Close()
		client := NewClient(config.Upstream{BaseUrl: server.URL, ApiKey: "secret"})

		// when
		records, err := client.FetchRecords(testContext())

		// then
		assert.NoError(t, err)
		assert.Equal(t, "/expenses", gotPath)
		assert.Equal(t, "user-uid-1", gotUserId)
		assert.Equal(t, "secret", gotApiKey)
		require.Len(t, records, 2)
		// heterogeneity is preserved for the normalizer
		assert.Equal(t, "4.50", records[0]["amount"])
		assert.Equal(t, float64(2), records[1]["amount"])
	})

	t.Run("should fail on non-OK status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()
		client := NewClient(config.Upstream{BaseUrl: server.URL})

		_, err := client.FetchRecords(testContext())

		assert.Error(t, err)
	})

	t.Run("should require a current user", func(t *testing.T) {
		client := NewClient(config.Upstream{BaseUrl: "http://localhost:1"})

		_, err := client.FetchRecords(context.Background())

		assert.ErrorIs(t, err, user.ErrNoUser)
	})
}

func TestClientImpl_CreateRecord(t *testing.T) {
	// given
	var gotMethod string
	var gotBody expense.RawRecord
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		gotBody["id"] = "42"
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(gotBody)
	}))
	defer server.Close()
	client := NewClient(config.Upstream{BaseUrl: server.URL})

	// when
	created, err := client.CreateRecord(testContext(), expense.RawRecord{"title": "Coffee", "amount": 4.5})

	// then
	assert.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "Coffee", gotBody["title"])
	assert.Equal(t, "42", created["id"])
}

func TestClientImpl_UpdateRecord(t *testing.T) {
	// given
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"7","title":"Updated"}`))
	}))
	defer server.Close()
	client := NewClient(config.Upstream{BaseUrl: server.URL})

	// when
	updated, err := client.UpdateRecord(testContext(), "7", expense.RawRecord{"title": "Updated"})

	// then
	assert.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/expenses/7", gotPath)
	assert.Equal(t, "Updated", updated["title"])
}

func TestClientImpl_DeleteRecord(t *testing.T) {
	// given
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()
	client := NewClient(config.Upstream{BaseUrl: server.URL})

	// when
	err := client.DeleteRecord(testContext(), "7")

	// then
	assert.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/expenses/7", gotPath)
}
