package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	db "budget-planner-server/src/db/sql"
	"budget-planner-server/src/models"
	"budget-planner-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type budgetRequest struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Period string          `json:"period"`
}

func (req *budgetRequest) validate() string {
	if req.Name == "" {
		return "name is required"
	}
	if !util.ValidateAmount(req.Amount) {
		return "amount must not be negative"
	}
	if !util.ValidatePeriod(req.Period) {
		return "period must be one of weekly, monthly, yearly"
	}
	return ""
}

func CreateBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		var req budgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create budget request body for user %d: %v", userID, err)
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if msg := req.validate(); msg != "" {
			log.Printf("ERROR: Invalid create budget request for user %d: %s", userID, msg)
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		budget := &models.Budget{
			UserID: userID,
			Name:   req.Name,
			Amount: req.Amount,
			Period: req.Period,
		}
		created, err := db.CreateBudget(r.Context(), pool, budget)
		if err != nil {
			log.Printf("ERROR: Failed to create budget for user %d: %v", userID, err)
			writeStoreError(w, err, "budget not found")
			return
		}
		log.Printf("INFO: Created budget id %d for user %d, name %s", created.ID, userID, created.Name)
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetBudgetByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		budgetID, err := strconv.ParseInt(chi.URLParam(r, "budget_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid budget id param: %s", chi.URLParam(r, "budget_id"))
			writeError(w, http.StatusBadRequest, "invalid budget id")
			return
		}
		budget, err := db.GetBudgetByID(r.Context(), pool, userID, budgetID)
		if err != nil {
			log.Printf("ERROR: Budget id %d not available for user %d: %v", budgetID, userID, err)
			writeStoreError(w, err, "budget not found")
			return
		}
		writeJSON(w, http.StatusOK, budget)
	}
}

func GetAllBudgetsForUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		budgets, err := db.GetAllBudgetsForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get budgets for user %d: %v", userID, err)
			writeStoreError(w, err, "budget not found")
			return
		}
		if budgets == nil {
			budgets = []models.Budget{}
		}
		writeJSON(w, http.StatusOK, budgets)
	}
}

func UpdateBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		budgetID, err := strconv.ParseInt(chi.URLParam(r, "budget_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid budget id param: %s", chi.URLParam(r, "budget_id"))
			writeError(w, http.StatusBadRequest, "invalid budget id")
			return
		}
		var req budgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update budget request body for user %d: %v", userID, err)
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if msg := req.validate(); msg != "" {
			log.Printf("ERROR: Invalid update budget request for user %d: %s", userID, msg)
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		budget := &models.Budget{
			ID:     budgetID,
			UserID: userID,
			Name:   req.Name,
			Amount: req.Amount,
			Period: req.Period,
		}
		updated, err := db.UpdateBudget(r.Context(), pool, budget)
		if err != nil {
			log.Printf("ERROR: Failed to update budget id %d for user %d: %v", budgetID, userID, err)
			writeStoreError(w, err, "budget not found")
			return
		}
		log.Printf("INFO: Updated budget id %d for user %d", updated.ID, userID)
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		budgetID, err := strconv.ParseInt(chi.URLParam(r, "budget_id"), 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid budget id param: %s", chi.URLParam(r, "budget_id"))
			writeError(w, http.StatusBadRequest, "invalid budget id")
			return
		}
		if err := db.DeleteBudget(r.Context(), pool, userID, budgetID); err != nil {
			log.Printf("ERROR: Failed to delete budget id %d for user %d: %v", budgetID, userID, err)
			writeStoreError(w, err, "budget not found")
			return
		}
		log.Printf("INFO: Deleted budget id %d for user %d", budgetID, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "budget deleted"})
	}
}
