package db

import (
	"budget-planner-server/src/models"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Every query is scoped to the owning user id. A budget that exists but
// belongs to someone else is reported as ErrNotFound, same as one that does
// not exist at all.

func CreateBudget(ctx context.Context, pool *pgxpool.Pool, budget *models.Budget) (*models.Budget, error) {
	query := `
		INSERT INTO budgets (user_id, name, amount, period)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, amount, period, created_at, updated_at
	`
	var b models.Budget
	err := pool.QueryRow(ctx, query, budget.UserID, budget.Name, budget.Amount, budget.Period).
		Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.Period, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}
	invalidateUserBudgets(b.UserID)
	return &b, nil
}

func GetBudgetByID(ctx context.Context, pool *pgxpool.Pool, userID, budgetID int64) (*models.Budget, error) {
	query := `
		SELECT id, user_id, name, amount, period, created_at, updated_at
		FROM budgets WHERE id = $1 AND user_id = $2
	`
	var b models.Budget
	err := pool.QueryRow(ctx, query, budgetID, userID).
		Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.Period, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &b, nil
}

func GetAllBudgetsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.Budget, error) {
	cacheKey := budgetListKey(userID)
	if cached, found := GetBudgetCache(cacheKey); found {
		if budgets, ok := cached.([]models.Budget); ok {
			return budgets, nil
		}
	}

	query := `
		SELECT id, user_id, name, amount, period, created_at, updated_at
		FROM budgets WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.Period, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	SetBudgetCache(cacheKey, budgets)
	return budgets, nil
}

func UpdateBudget(ctx context.Context, pool *pgxpool.Pool, budget *models.Budget) (*models.Budget, error) {
	query := `
		UPDATE budgets
		SET name = $1, amount = $2, period = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING id, user_id, name, amount, period, created_at, updated_at
	`
	var b models.Budget
	err := pool.QueryRow(ctx, query, budget.Name, budget.Amount, budget.Period, budget.ID, budget.UserID).
		Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.Period, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}
	invalidateUserBudgets(b.UserID)
	return &b, nil
}

// DeleteBudget removes the budget; the ON DELETE SET NULL action on
// transactions.budget_id detaches its transactions in the same statement.
func DeleteBudget(ctx context.Context, pool *pgxpool.Pool, userID, budgetID int64) error {
	query := `DELETE FROM budgets WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, budgetID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	invalidateUserBudgets(userID)
	return nil
}
