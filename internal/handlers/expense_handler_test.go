package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/oto-servis/internal/testutil"
)

func createExpense(t *testing.T, ts *testServer, body map[string]any) uint {
	t.Helper()
	w := testutil.DoRequest(ts.router, http.MethodPost, "/api/expenses", body, testutil.UserToken())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return uint(testutil.ParseResponse(w)["id"].(float64))
}

func TestExpenseCRUD(t *testing.T) {
	ts := newTestServer(t, nil)

	id := createExpense(t, ts, map[string]any{
		"category":       "kira",
		"description":    "Ekim kirası",
		"amount":         "15000,00",
		"expense_date":   "2026-10-01",
		"payment_method": "havale",
	})

	w := testutil.DoRequest(ts.router, http.MethodPut, fmt.Sprintf("/api/expenses/%d", id), map[string]any{
		"category":     "kira",
		"amount":       16000,
		"expense_date": "2026-10-01",
	}, testutil.UserToken())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := testutil.ParseResponse(w)
	assert.Equal(t, float64(16000), body["amount"])
	assert.Nil(t, body["description"])
	assert.Equal(t, "2026-09-30T21:00:00Z", body["expense_date"])

	w = testutil.DoRequest(ts.router, http.MethodDelete, fmt.Sprintf("/api/expenses/%d", id), nil, testutil.UserToken())
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.DoRequest(ts.router, http.MethodDelete, fmt.Sprintf("/api/expenses/%d", id), nil, testutil.UserToken())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []string{"expense_created", "expense_updated", "expense_deleted"}, ts.audit.actions())
}

func TestExpenseValidation(t *testing.T) {
	ts := newTestServer(t, nil)

	w := testutil.DoRequest(ts.router, http.MethodPost, "/api/expenses", map[string]any{
		"category": "elektrik", "amount": 0,
	}, testutil.UserToken())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_amount", testutil.ParseResponse(w)["error_code"])

	w = testutil.DoRequest(ts.router, http.MethodPost, "/api/expenses", map[string]any{
		"category": "elektrik", "amount": 100, "expense_date": "dün",
	}, testutil.UserToken())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date", testutil.ParseResponse(w)["error_code"])

	w = testutil.DoRequest(ts.router, http.MethodPost, "/api/expenses", map[string]any{
		"amount": 100,
	}, testutil.UserToken())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExpenseListFilters(t *testing.T) {
	ts := newTestServer(t, nil)
	createExpense(t, ts, map[string]any{"category": "kira", "amount": 100, "expense_date": "2026-10-01"})
	createExpense(t, ts, map[string]any{"category": "elektrik", "amount": 50, "expense_date": "2026-10-02"})
	createExpense(t, ts, map[string]any{"category": "kira", "amount": 100, "expense_date": "2026-11-01"})

	w := testutil.DoRequest(ts.router, http.MethodGet, "/api/expenses?category=kira", nil, testutil.UserToken())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), testutil.ParseResponse(w)["total"])

	w = testutil.DoRequest(ts.router, http.MethodGet, "/api/expenses?start=2026-10-01&end=2026-10-02", nil, testutil.UserToken())
	assert.Equal(t, float64(2), testutil.ParseResponse(w)["total"])

	w = testutil.DoRequest(ts.router, http.MethodGet, "/api/expenses?start=2026-10-05&end=2026-10-01", nil, testutil.UserToken())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date_range", testutil.ParseResponse(w)["error_code"])

	w = testutil.DoRequest(ts.router, http.MethodGet, "/api/expenses?limit=1&page=2", nil, testutil.UserToken())
	body := testutil.ParseResponse(w)
	assert.Len(t, body["data"].([]any), 1)
	assert.Equal(t, float64(3), body["total"])
	assert.Equal(t, float64(2), body["page"])
}
