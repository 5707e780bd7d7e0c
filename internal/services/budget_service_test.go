package services

import (
	"testing"
	"time"

	"pocketplan/internal/pagination"
	"pocketplan/internal/testutil"
)

func TestCreateBudget(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		budget, err := svc.CreateBudget("Groceries", testutil.Money("500.00"))
		testutil.AssertNoError(t, err)

		if budget.ID == "" {
			t.Fatal("expected non-empty budget ID")
		}
		if budget.Version == "" {
			t.Fatal("expected a version token to be assigned")
		}
		if budget.Name != "Groceries" {
			t.Errorf("expected name Groceries, got %s", budget.Name)
		}
		testutil.AssertAmount(t, budget.TotalAmount, "500.00")
	})

	t.Run("zero_total_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		budget, err := svc.CreateBudget("Empty", testutil.Money("0"))
		testutil.AssertNoError(t, err)
		testutil.AssertAmount(t, budget.TotalAmount, "0")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		_, err := svc.CreateBudget("", testutil.Money("100"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative_total", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		_, err := svc.CreateBudget("Bad", testutil.Money("-1"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		_, err := svc.CreateBudget("Groceries", testutil.Money("500"))
		testutil.AssertNoError(t, err)

		_, err = svc.CreateBudget("Groceries", testutil.Money("300"))
		testutil.AssertAppError(t, err, "DUPLICATE_BUDGET_NAME")
	})
}

func TestGetBudgetSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	budgetSvc := NewBudgetService(db)
	categorySvc := NewCategoryService(db)
	transactionSvc := NewTransactionService(db)

	budget, err := budgetSvc.CreateBudget("Monthly", testutil.Money("1000.00"))
	testutil.AssertNoError(t, err)

	category, err := categorySvc.CreateCategory(budget.ID, "Food", testutil.Money("400.00"))
	testutil.AssertNoError(t, err)

	_, err = transactionSvc.CreateTransaction(category.ID, "lunch", testutil.Money("25.00"), time.Now())
	testutil.AssertNoError(t, err)

	summary, err := budgetSvc.GetBudgetSummary(budget.ID)
	testutil.AssertNoError(t, err)

	testutil.AssertAmount(t, summary.TotalAmount, "1000.00")
	testutil.AssertAmount(t, summary.TotalAllocatedInitial, "400.00")
	testutil.AssertAmount(t, summary.TotalAllocated, "375.00")
	testutil.AssertAmount(t, summary.TotalSpent, "25.00")
	testutil.AssertAmount(t, summary.RemainingAmount, "600.00")
}

func TestUpdateBudget(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		budget, err := svc.CreateBudget("Groceries", testutil.Money("500"))
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateBudget(budget.ID, "Food & Drink", testutil.Money("600"), budget.Version)
		testutil.AssertNoError(t, err)

		if updated.Name != "Food & Drink" {
			t.Errorf("expected updated name, got %s", updated.Name)
		}
		testutil.AssertAmount(t, updated.TotalAmount, "600")
		if updated.Version == budget.Version {
			t.Error("expected a new version token after a successful update")
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		budget, err := svc.CreateBudget("Groceries", testutil.Money("500"))
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateBudget(budget.ID, "", testutil.Money("500"), budget.Version)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_version_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		budget, err := svc.CreateBudget("Groceries", testutil.Money("500"))
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateBudget(budget.ID, "Groceries", testutil.Money("500"), "")
		testutil.AssertAppError(t, err, "BUDGET_VERSION_MISSING")
	})

	t.Run("unknown_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		_, err := svc.UpdateBudget("00000000-0000-0000-0000-000000000000", "Name", testutil.Money("1"), "some-token")
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})

	// A stale token succeeds exactly once: the first writer wins, the
	// second is rejected with a conflict carrying the winner's record.
	t.Run("stale_token_conflict", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		budget, err := svc.CreateBudget("Groceries", testutil.Money("500"))
		testutil.AssertNoError(t, err)
		snapshot := budget.Version

		_, err = svc.UpdateBudget(budget.ID, "First Writer", testutil.Money("450"), snapshot)
		testutil.AssertNoError(t, err)

		current, err := svc.UpdateBudget(budget.ID, "Second Writer", testutil.Money("400"), snapshot)
		testutil.AssertAppError(t, err, "BUDGET_CONCURRENT_UPDATE")

		if current == nil {
			t.Fatal("expected the current persisted budget alongside the conflict")
		}
		if current.Name != "First Writer" {
			t.Errorf("expected current record to show the winning write, got %s", current.Name)
		}
	})

	t.Run("deleted_while_editing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		budget, err := svc.CreateBudget("Groceries", testutil.Money("500"))
		testutil.AssertNoError(t, err)

		deleted, err := svc.DeleteBudget(budget.ID)
		testutil.AssertNoError(t, err)
		if !deleted {
			t.Fatal("expected delete to report success")
		}

		_, err = svc.UpdateBudget(budget.ID, "Too Late", testutil.Money("100"), budget.Version)
		testutil.AssertAppError(t, err, "BUDGET_DELETED")
	})
}

func TestDeleteBudget(t *testing.T) {
	t.Run("cascades_to_children", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := NewBudgetService(db)
		categorySvc := NewCategoryService(db)
		transactionSvc := NewTransactionService(db)
		billSvc := NewBillService(db)

		budget := testutil.CreateTestBudget(t, db, "500.00")
		category := testutil.CreateTestCategory(t, db, budget.ID, "200.00")
		tx := testutil.CreateTestTransaction(t, db, category.ID, "50.00")
		bill := testutil.CreateTestBill(t, db, budget.ID, "30.00")

		deleted, err := budgetSvc.DeleteBudget(budget.ID)
		testutil.AssertNoError(t, err)
		if !deleted {
			t.Fatal("expected delete to report success")
		}

		_, err = budgetSvc.GetBudgetByID(budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
		_, err = categorySvc.GetCategoryByID(category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
		_, err = transactionSvc.GetTransactionByID(tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
		_, err = billSvc.GetBillByID(bill.ID)
		testutil.AssertAppError(t, err, "BILL_NOT_FOUND")
	})

	t.Run("absent_budget_reports_false", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		deleted, err := svc.DeleteBudget("00000000-0000-0000-0000-000000000000")
		testutil.AssertNoError(t, err)
		if deleted {
			t.Error("expected delete of an absent budget to report false")
		}
	})
}

func TestGetBudgets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db)

	testutil.CreateTestBudget(t, db, "100.00")
	testutil.CreateTestBudget(t, db, "200.00")

	page := pagination.PageRequest{Page: 1, PageSize: 20}
	result, err := svc.GetBudgets(page)
	testutil.AssertNoError(t, err)

	if result.TotalItems != 2 {
		t.Errorf("expected 2 budgets, got %d", result.TotalItems)
	}
}
