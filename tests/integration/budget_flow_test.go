package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestBudgetLifecycle(t *testing.T) {
	app := setupApp(t)

	budgetID, version := app.createBudget(t, "Monthly Household", "1000.00")

	// Read it back with the aggregate.
	rec := app.request("GET", "/api/v1/budgets/"+budgetID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get budget failed: %d %s", rec.Code, rec.Body.String())
	}
	budget := parseJSON(t, rec)["budget"].(map[string]interface{})
	if budget["name"] != "Monthly Household" {
		t.Errorf("expected Monthly Household, got %v", budget["name"])
	}
	if budget["version"] != version {
		t.Errorf("expected version %q, got %v", version, budget["version"])
	}

	// Update with the current token.
	body := fmt.Sprintf(`{"name":"Renamed","total_amount":"1200.00","version":%q}`, version)
	rec = app.request("PUT", "/api/v1/budgets/"+budgetID, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("update budget failed: %d %s", rec.Code, rec.Body.String())
	}
	updated := parseJSON(t, rec)["budget"].(map[string]interface{})
	if updated["name"] != "Renamed" {
		t.Errorf("expected Renamed, got %v", updated["name"])
	}
	newVersion := updated["version"].(string)
	if newVersion == version {
		t.Error("expected update to rotate the version token")
	}

	// Delete and confirm it is gone.
	rec = app.request("DELETE", "/api/v1/budgets/"+budgetID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete budget failed: %d %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["deleted"] != true {
		t.Error("expected deleted=true")
	}

	rec = app.request("GET", "/api/v1/budgets/"+budgetID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestBudgetDuplicateName(t *testing.T) {
	app := setupApp(t)

	app.createBudget(t, "Groceries", "500.00")

	rec := app.request("POST", "/api/v1/budgets", `{"name":"Groceries","total_amount":"300.00"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_BUDGET_NAME")
}

// Two editors read the same budget; the second writer's token is stale
// and the conflict response carries the first writer's result.
func TestBudgetConcurrentEditConflict(t *testing.T) {
	app := setupApp(t)

	budgetID, version := app.createBudget(t, "Shared", "1000.00")

	body := fmt.Sprintf(`{"name":"First Writer","total_amount":"900.00","version":%q}`, version)
	rec := app.request("PUT", "/api/v1/budgets/"+budgetID, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("first update failed: %d %s", rec.Code, rec.Body.String())
	}

	body = fmt.Sprintf(`{"name":"Second Writer","total_amount":"800.00","version":%q}`, version)
	rec = app.request("PUT", "/api/v1/budgets/"+budgetID, body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	assertErrorCode(t, result, "BUDGET_CONCURRENT_UPDATE")

	current := result["current"].(map[string]interface{})
	if current["name"] != "First Writer" {
		t.Errorf("expected the first writer's budget in the conflict payload, got %v", current["name"])
	}

	// Retrying with the fresh token from the conflict payload succeeds.
	body = fmt.Sprintf(`{"name":"Second Writer","total_amount":"800.00","version":%q}`, current["version"].(string))
	rec = app.request("PUT", "/api/v1/budgets/"+budgetID, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("retry with fresh token failed: %d %s", rec.Code, rec.Body.String())
	}
}

func TestBudgetUpdateAfterConcurrentDelete(t *testing.T) {
	app := setupApp(t)

	budgetID, version := app.createBudget(t, "Doomed", "1000.00")

	rec := app.request("DELETE", "/api/v1/budgets/"+budgetID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete failed: %d %s", rec.Code, rec.Body.String())
	}

	body := fmt.Sprintf(`{"name":"Too Late","total_amount":"900.00","version":%q}`, version)
	rec = app.request("PUT", "/api/v1/budgets/"+budgetID, body)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	assertErrorCode(t, parseJSON(t, rec), "BUDGET_DELETED")
}

func TestBudgetSummary(t *testing.T) {
	app := setupApp(t)

	budgetID, _ := app.createBudget(t, "Summary", "1000.00")
	categoryID := app.createCategory(t, budgetID, "Food", "400.00")

	rec := app.request("POST", "/api/v1/categories/"+categoryID+"/transactions",
		`{"description":"groceries","amount":"25.00"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/budgets/"+budgetID+"/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get summary failed: %d %s", rec.Code, rec.Body.String())
	}
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})

	if summary["total_allocated"] != "375" {
		t.Errorf("expected total_allocated 375, got %v", summary["total_allocated"])
	}
	if summary["total_spent"] != "25" {
		t.Errorf("expected total_spent 25, got %v", summary["total_spent"])
	}
	if summary["remaining_amount"] != "600" {
		t.Errorf("expected remaining_amount 600, got %v", summary["remaining_amount"])
	}
}

func TestBudgetDeleteCascades(t *testing.T) {
	app := setupApp(t)

	budgetID, _ := app.createBudget(t, "Cascade", "1000.00")
	categoryID := app.createCategory(t, budgetID, "Food", "400.00")

	rec := app.request("POST", "/api/v1/categories/"+categoryID+"/transactions",
		`{"description":"groceries","amount":"25.00"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
	}
	txID := parseJSON(t, rec)["transaction"].(map[string]interface{})["id"].(string)

	rec = app.request("POST", "/api/v1/budgets/"+budgetID+"/bills",
		`{"name":"Rent","amount":"750.00","due_date":"2026-09-01T00:00:00Z"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create bill failed: %d %s", rec.Code, rec.Body.String())
	}
	billID := parseJSON(t, rec)["bill"].(map[string]interface{})["id"].(string)

	rec = app.request("DELETE", "/api/v1/budgets/"+budgetID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete budget failed: %d %s", rec.Code, rec.Body.String())
	}

	for path, name := range map[string]string{
		"/api/v1/categories/" + categoryID:   "category",
		"/api/v1/transactions/" + txID:       "transaction",
		"/api/v1/bills/" + billID:            "bill",
	} {
		rec = app.request("GET", path, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected %s to be gone, got %d", name, rec.Code)
		}
	}
}
