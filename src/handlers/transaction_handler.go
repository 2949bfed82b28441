package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	db "budget-planner-server/src/db/sql"
	"budget-planner-server/src/models"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type transactionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	BudgetID    *int64          `json:"budget_id"`
	Description string          `json:"description"`
	OccurredAt  *time.Time      `json:"occurred_at"`
}

func CreateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transaction request body for user %d: %v", userID, err)
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		occurredAt := time.Now()
		if req.OccurredAt != nil {
			occurredAt = *req.OccurredAt
		}
		txn := &models.Transaction{
			UserID:      userID,
			BudgetID:    req.BudgetID,
			Amount:      req.Amount,
			OccurredAt:  occurredAt,
			Description: req.Description,
		}
		created, err := db.CreateTransaction(r.Context(), pool, txn)
		if err != nil {
			log.Printf("ERROR: Failed to create transaction for user %d: %v", userID, err)
			writeStoreError(w, err, "budget not found")
			return
		}
		log.Printf("INFO: Created transaction id %d for user %d", created.ID, userID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetTransactionByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		txnID, err := strconv.ParseInt(chi.URLParam(r, "transaction_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid transaction id param: %s", chi.URLParam(r, "transaction_id"))
			writeError(w, http.StatusBadRequest, "invalid transaction id")
			return
		}
		txn, err := db.GetTransactionByID(r.Context(), pool, userID, txnID)
		if err != nil {
			log.Printf("ERROR: Transaction id %d not available for user %d: %v", txnID, userID, err)
			writeStoreError(w, err, "transaction not found")
			return
		}
		writeJSON(w, http.StatusOK, txn)
	}
}

func ListTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		filter, errMsg := parseTransactionFilter(r)
		if errMsg != "" {
			log.Printf("ERROR: Invalid transaction filter for user %d: %s", userID, errMsg)
			writeError(w, http.StatusBadRequest, errMsg)
			return
		}
		txns, err := db.ListTransactions(r.Context(), pool, userID, filter)
		if err != nil {
			log.Printf("ERROR: Failed to list transactions for user %d: %v", userID, err)
			writeStoreError(w, err, "transaction not found")
			return
		}
		if txns == nil {
			txns = []models.Transaction{}
		}
		writeJSON(w, http.StatusOK, txns)
	}
}

func UpdateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		txnID, err := strconv.ParseInt(chi.URLParam(r, "transaction_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid transaction id param: %s", chi.URLParam(r, "transaction_id"))
			writeError(w, http.StatusBadRequest, "invalid transaction id")
			return
		}
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update transaction request body for user %d: %v", userID, err)
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		// Updates rewrite the whole row, so a missing timestamp would
		// silently reset the stored one. Require it.
		if req.OccurredAt == nil {
			log.Printf("ERROR: Missing occurred_at in update transaction request for user %d", userID)
			writeError(w, http.StatusBadRequest, "occurred_at is required")
			return
		}
		txn := &models.Transaction{
			ID:          txnID,
			UserID:      userID,
			BudgetID:    req.BudgetID,
			Amount:      req.Amount,
			OccurredAt:  *req.OccurredAt,
			Description: req.Description,
		}
		updated, err := db.UpdateTransaction(r.Context(), pool, txn)
		if err != nil {
			log.Printf("ERROR: Failed to update transaction id %d for user %d: %v", txnID, userID, err)
			writeStoreError(w, err, "transaction not found")
			return
		}
		log.Printf("INFO: Updated transaction id %d for user %d", updated.ID, userID)
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		txnID, err := strconv.ParseInt(chi.URLParam(r, "transaction_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid transaction id param: %s", chi.URLParam(r, "transaction_id"))
			writeError(w, http.StatusBadRequest, "invalid transaction id")
			return
		}
		if err := db.DeleteTransaction(r.Context(), pool, userID, txnID); err != nil {
			log.Printf("ERROR: Failed to delete transaction id %d for user %d: %v", txnID, userID, err)
			writeStoreError(w, err, "transaction not found")
			return
		}
		log.Printf("INFO: Deleted transaction id %d for user %d", txnID, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
	}
}

// parseTransactionFilter reads the optional budget_id, from, and to query
// parameters. Dates are RFC 3339.
func parseTransactionFilter(r *http.Request) (db.TransactionFilter, string) {
	var filter db.TransactionFilter
	q := r.URL.Query()

	if raw := q.Get("budget_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, "invalid budget_id filter"
		}
		filter.BudgetID = &id
	}
	if raw := q.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, "invalid from date, expected RFC 3339"
		}
		filter.From = &from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, "invalid to date, expected RFC 3339"
		}
		filter.To = &to
	}
	return filter, ""
}
