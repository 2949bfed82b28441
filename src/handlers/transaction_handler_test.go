package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// The nil pool is safe: the request is rejected before any query runs.
func updateTransactionRecorder(t *testing.T, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Put("/api/transactions/{transaction_id}", UpdateTransaction(nil))

	req := httptest.NewRequest(http.MethodPut, target, strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), "user_id", int64(1)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestUpdateTransactionRequiresOccurredAt(t *testing.T) {
	rec := updateTransactionRecorder(t, "/api/transactions/1",
		`{"amount":"10.00","description":"lunch"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"occurred_at is required"}`, rec.Body.String())
}

func TestUpdateTransactionRejectsBadID(t *testing.T) {
	rec := updateTransactionRecorder(t, "/api/transactions/nope",
		`{"amount":"10.00","occurred_at":"2026-08-01T12:00:00Z"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"invalid transaction id"}`, rec.Body.String())
}
