package db

import (
	"fmt"
	"log"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// Storing cache keys in concurrent data structures so all cached lists of a
// certain type can be cleared together.
var (
	Cache           *ristretto.Cache
	BudgetCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
	TransactionCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
)

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

func budgetListKey(userID int64) string {
	return fmt.Sprintf("budgets:%d", userID)
}

func transactionListKey(userID int64) string {
	return fmt.Sprintf("transactions:%d", userID)
}

// Budget Cache Functions
func SetBudgetCache(cacheKey string, value interface{}) {
	if Cache == nil {
		return
	}
	BudgetCacheKeys.Lock()
	BudgetCacheKeys.m[cacheKey] = struct{}{}
	BudgetCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func GetBudgetCache(cacheKey string) (interface{}, bool) {
	if Cache == nil {
		return nil, false
	}
	return Cache.Get(cacheKey)
}

func DelBudgetCache(cacheKey string) {
	if Cache == nil {
		return
	}
	BudgetCacheKeys.Lock()
	delete(BudgetCacheKeys.m, cacheKey)
	BudgetCacheKeys.Unlock()
	Cache.Del(cacheKey)
}

func ClearAllBudgetCaches() {
	if Cache == nil {
		return
	}
	BudgetCacheKeys.Lock()
	for key := range BudgetCacheKeys.m {
		Cache.Del(key)
	}
	BudgetCacheKeys.m = make(map[string]struct{})
	BudgetCacheKeys.Unlock()
}

// Transaction Cache Functions
func SetTransactionCache(cacheKey string, value interface{}) {
	if Cache == nil {
		return
	}
	TransactionCacheKeys.Lock()
	TransactionCacheKeys.m[cacheKey] = struct{}{}
	TransactionCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func GetTransactionCache(cacheKey string) (interface{}, bool) {
	if Cache == nil {
		return nil, false
	}
	return Cache.Get(cacheKey)
}

func DelTransactionCache(cacheKey string) {
	if Cache == nil {
		return
	}
	TransactionCacheKeys.Lock()
	delete(TransactionCacheKeys.m, cacheKey)
	TransactionCacheKeys.Unlock()
	Cache.Del(cacheKey)
}

func ClearAllTransactionCaches() {
	if Cache == nil {
		return
	}
	TransactionCacheKeys.Lock()
	for key := range TransactionCacheKeys.m {
		Cache.Del(key)
	}
	TransactionCacheKeys.m = make(map[string]struct{})
	TransactionCacheKeys.Unlock()
}

// Budget mutations also drop the user's transaction list, because deleting
// a budget nulls the budget_id of its transactions.
func invalidateUserBudgets(userID int64) {
	DelBudgetCache(budgetListKey(userID))
	DelTransactionCache(transactionListKey(userID))
}

func invalidateUserTransactions(userID int64) {
	DelTransactionCache(transactionListKey(userID))
}
