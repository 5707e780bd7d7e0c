package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pocketplan/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Money builds a decimal amount from a string like "123.45". It panics
// on malformed input, which is fine for fixtures.
func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// CreateTestBudget creates a budget with a unique name and the given total amount.
func CreateTestBudget(t *testing.T, db *gorm.DB, totalAmount string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		Name:        fmt.Sprintf("Test Budget %d", nextID()),
		TotalAmount: Money(totalAmount),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestCategory creates a category under the given budget with the
// given allocation. Both current and initial allocated amounts are set.
func CreateTestCategory(t *testing.T, db *gorm.DB, budgetID, allocated string) *models.Category {
	t.Helper()

	category := &models.Category{
		BudgetID:               budgetID,
		Name:                   fmt.Sprintf("Test Category %d", nextID()),
		AllocatedAmount:        Money(allocated),
		InitialAllocatedAmount: Money(allocated),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction under the given category.
// It writes the row directly and does not touch the category's
// allocated amount; use the transaction service when the decrement
// side effect matters.
func CreateTestTransaction(t *testing.T, db *gorm.DB, categoryID, amount string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		CategoryID:  categoryID,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:      Money(amount),
		Date:        time.Now(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBill creates a monthly bill under the given budget.
func CreateTestBill(t *testing.T, db *gorm.DB, budgetID, amount string) *models.Bill {
	t.Helper()

	bill := &models.Bill{
		BudgetID:   budgetID,
		Name:       fmt.Sprintf("Test Bill %d", nextID()),
		Amount:     Money(amount),
		DueDate:    time.Now().AddDate(0, 0, 7),
		Recurrence: models.BillRecurrenceMonthly,
	}
	if err := db.Create(bill).Error; err != nil {
		t.Fatalf("failed to create test bill: %v", err)
	}
	return bill
}
