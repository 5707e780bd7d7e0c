// Package services owns the business rules of the budgeting domain:
// allocation headroom checks, the budget version-token update protocol,
// and cascade lifecycles.
package services

import (
	"time"

	"github.com/shopspring/decimal"

	"pocketplan/internal/models"
	"pocketplan/internal/pagination"
)

// BudgetSummary contains the derived financial aggregates for a budget,
// computed over its live categories and their transactions.
type BudgetSummary struct {
	BudgetID              string          `json:"budget_id"`
	Name                  string          `json:"name"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	TotalAllocated        decimal.Decimal `json:"total_allocated"`
	TotalAllocatedInitial decimal.Decimal `json:"total_allocated_initial"`
	TotalSpent            decimal.Decimal `json:"total_spent"`
	RemainingAmount       decimal.Decimal `json:"remaining_amount"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(name string, totalAmount decimal.Decimal) (*models.Budget, error)
	GetBudgets(page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(budgetID string) (*models.Budget, error)
	GetBudgetSummary(budgetID string) (*BudgetSummary, error)
	// UpdateBudget runs the optimistic-concurrency protocol. On a version
	// conflict it returns the current persisted budget together with the
	// conflict error so callers can present a diff.
	UpdateBudget(budgetID, name string, totalAmount decimal.Decimal, version string) (*models.Budget, error)
	DeleteBudget(budgetID string) (bool, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(budgetID, name string, allocatedAmount decimal.Decimal) (*models.Category, error)
	GetCategoryByID(categoryID string) (*models.Category, error)
	GetBudgetCategories(budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	UpdateCategory(categoryID, name string, initialAllocatedAmount decimal.Decimal) (*models.Category, error)
	DeleteCategory(categoryID string) (bool, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(categoryID, description string, amount decimal.Decimal, date time.Time) (*models.Transaction, error)
	GetTransactionByID(transactionID string) (*models.Transaction, error)
	GetCategoryTransactions(categoryID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	UpdateTransaction(transactionID, description string, amount decimal.Decimal, date time.Time) (*models.Transaction, error)
	DeleteTransaction(transactionID string) error
}

// BillServicer defines the contract for bill-related business logic.
type BillServicer interface {
	CreateBill(budgetID, name string, amount decimal.Decimal, dueDate time.Time, recurrence models.BillRecurrence) (*models.Bill, error)
	GetBillByID(billID string) (*models.Bill, error)
	GetBudgetBills(budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.Bill], error)
	UpdateBill(billID, name string, amount *decimal.Decimal, dueDate *time.Time, recurrence *models.BillRecurrence, paid *bool) (*models.Bill, error)
	DeleteBill(billID string) (bool, error)
}
