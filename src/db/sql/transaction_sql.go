package db

import (
	"budget-planner-server/src/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionFilter narrows ListTransactions. All fields are optional and
// every filter is still intersected with the owner scope.
type TransactionFilter struct {
	BudgetID *int64
	From     *time.Time
	To       *time.Time
}

func (f TransactionFilter) empty() bool {
	return f.BudgetID == nil && f.From == nil && f.To == nil
}

// CreateTransaction inserts the row in a single statement. When a budget id
// is given, the insert selects through the budgets table scoped to the
// owner, so linking to a missing or foreign budget inserts nothing and
// returns ErrNotFound.
func CreateTransaction(ctx context.Context, pool *pgxpool.Pool, txn *models.Transaction) (*models.Transaction, error) {
	var (
		t   models.Transaction
		err error
	)
	if txn.BudgetID == nil {
		query := `
			INSERT INTO transactions (user_id, amount, occurred_at, description)
			VALUES ($1, $2, $3, $4)
			RETURNING id, user_id, budget_id, amount, occurred_at, description, created_at, updated_at
		`
		err = pool.QueryRow(ctx, query, txn.UserID, txn.Amount, txn.OccurredAt, txn.Description).
			Scan(&t.ID, &t.UserID, &t.BudgetID, &t.Amount, &t.OccurredAt, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	} else {
		query := `
			INSERT INTO transactions (user_id, budget_id, amount, occurred_at, description)
			SELECT b.user_id, b.id, $3, $4, $5
			FROM budgets b
			WHERE b.id = $2 AND b.user_id = $1
			RETURNING id, user_id, budget_id, amount, occurred_at, description, created_at, updated_at
		`
		err = pool.QueryRow(ctx, query, txn.UserID, *txn.BudgetID, txn.Amount, txn.OccurredAt, txn.Description).
			Scan(&t.ID, &t.UserID, &t.BudgetID, &t.Amount, &t.OccurredAt, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	invalidateUserTransactions(t.UserID)
	return &t, nil
}

func GetTransactionByID(ctx context.Context, pool *pgxpool.Pool, userID, txnID int64) (*models.Transaction, error) {
	query := `
		SELECT id, user_id, budget_id, amount, occurred_at, description, created_at, updated_at
		FROM transactions WHERE id = $1 AND user_id = $2
	`
	var t models.Transaction
	err := pool.QueryRow(ctx, query, txnID, userID).
		Scan(&t.ID, &t.UserID, &t.BudgetID, &t.Amount, &t.OccurredAt, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &t, nil
}

func ListTransactions(ctx context.Context, pool *pgxpool.Pool, userID int64, filter TransactionFilter) ([]models.Transaction, error) {
	cacheKey := transactionListKey(userID)
	if filter.empty() {
		if cached, found := GetTransactionCache(cacheKey); found {
			if txns, ok := cached.([]models.Transaction); ok {
				return txns, nil
			}
		}
	}

	query := `
		SELECT id, user_id, budget_id, amount, occurred_at, description, created_at, updated_at
		FROM transactions WHERE user_id = $1
	`
	args := []interface{}{userID}
	if filter.BudgetID != nil {
		args = append(args, *filter.BudgetID)
		query += fmt.Sprintf(" AND budget_id = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND occurred_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND occurred_at <= $%d", len(args))
	}
	query += " ORDER BY occurred_at DESC, id DESC"

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.BudgetID, &t.Amount, &t.OccurredAt, &t.Description, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if filter.empty() {
		SetTransactionCache(cacheKey, txns)
	}
	return txns, nil
}

// UpdateTransaction rewrites the row in a single statement. Re-linking to a
// budget goes through the same owner-scoped existence check as create.
func UpdateTransaction(ctx context.Context, pool *pgxpool.Pool, txn *models.Transaction) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET amount = $1, budget_id = $2, occurred_at = $3, description = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		  AND ($2::BIGINT IS NULL OR EXISTS (
			SELECT 1 FROM budgets b WHERE b.id = $2 AND b.user_id = $6
		  ))
		RETURNING id, user_id, budget_id, amount, occurred_at, description, created_at, updated_at
	`
	var t models.Transaction
	err := pool.QueryRow(ctx, query, txn.Amount, txn.BudgetID, txn.OccurredAt, txn.Description, txn.ID, txn.UserID).
		Scan(&t.ID, &t.UserID, &t.BudgetID, &t.Amount, &t.OccurredAt, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	invalidateUserTransactions(t.UserID)
	return &t, nil
}

func DeleteTransaction(ctx context.Context, pool *pgxpool.Pool, userID, txnID int64) error {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, txnID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	invalidateUserTransactions(userID)
	return nil
}
