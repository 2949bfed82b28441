package db

import (
	"testing"

	"budget-planner-server/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestCache(t *testing.T) {
	t.Helper()
	InitCache()
	t.Cleanup(func() { Cache = nil })
}

func TestBudgetCacheRoundTrip(t *testing.T) {
	initTestCache(t)
	key := budgetListKey(1)

	SetBudgetCache(key, []models.Budget{{ID: 1, UserID: 1, Name: "Food"}})
	Cache.Wait()

	cached, found := GetBudgetCache(key)
	require.True(t, found)
	budgets, ok := cached.([]models.Budget)
	require.True(t, ok)
	assert.Equal(t, "Food", budgets[0].Name)

	DelBudgetCache(key)
	_, found = GetBudgetCache(key)
	assert.False(t, found)
}

func TestInvalidateUserBudgetsDropsBothLists(t *testing.T) {
	initTestCache(t)

	SetBudgetCache(budgetListKey(1), []models.Budget{{ID: 1}})
	SetTransactionCache(transactionListKey(1), []models.Transaction{{ID: 1}})
	SetBudgetCache(budgetListKey(2), []models.Budget{{ID: 2}})
	Cache.Wait()

	// A budget mutation also invalidates the transaction list, since a
	// budget delete rewrites transaction rows.
	invalidateUserBudgets(1)

	_, found := GetBudgetCache(budgetListKey(1))
	assert.False(t, found)
	_, found = GetTransactionCache(transactionListKey(1))
	assert.False(t, found)

	// Other users' entries are untouched.
	_, found = GetBudgetCache(budgetListKey(2))
	assert.True(t, found)
}

func TestClearAllCaches(t *testing.T) {
	initTestCache(t)

	SetTransactionCache(transactionListKey(1), []models.Transaction{{ID: 1}})
	SetTransactionCache(transactionListKey(2), []models.Transaction{{ID: 2}})
	Cache.Wait()

	ClearAllTransactionCaches()

	_, found := GetTransactionCache(transactionListKey(1))
	assert.False(t, found)
	_, found = GetTransactionCache(transactionListKey(2))
	assert.False(t, found)

	TransactionCacheKeys.RLock()
	defer TransactionCacheKeys.RUnlock()
	assert.Empty(t, TransactionCacheKeys.m)
}

func TestCacheDisabledIsNoOp(t *testing.T) {
	Cache = nil

	SetBudgetCache(budgetListKey(1), []models.Budget{{ID: 1}})
	_, found := GetBudgetCache(budgetListKey(1))
	assert.False(t, found)

	// Invalidation with no cache must not panic either.
	invalidateUserBudgets(1)
	invalidateUserTransactions(1)
}
