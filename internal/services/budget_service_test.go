package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func TestCreateBudget(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now()
		budget, err := svc.CreateBudget(user.ID, BudgetInput{
			Name:      "Groceries",
			Category:  "groceries",
			Amount:    500,
			Period:    models.BudgetPeriodMonthly,
			StartDate: now,
			EndDate:   now.AddDate(0, 1, 0),
			AlertThresholds: []models.AlertThreshold{
				{Percentage: 80, IsEnabled: true},
			},
		})
		testutil.AssertNoError(t, err)

		if budget.ID == 0 {
			t.Fatal("expected non-zero budget ID")
		}
		if !budget.IsActive {
			t.Error("expected budget to be active")
		}
		if len(budget.AlertThresholds) != 1 {
			t.Errorf("expected 1 alert threshold, got %d", len(budget.AlertThresholds))
		}
	})

	t.Run("stores_notes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now()
		budget, err := svc.CreateBudget(user.ID, BudgetInput{
			Name:      "Dining",
			Category:  "dining",
			Amount:    150,
			Period:    models.BudgetPeriodMonthly,
			StartDate: now,
			EndDate:   now.AddDate(0, 1, 0),
			Notes:     "Eating out only, coffee excluded",
		})
		testutil.AssertNoError(t, err)

		var stored models.Budget
		testutil.AssertNoError(t, db.First(&stored, budget.ID).Error)
		if stored.Notes != "Eating out only, coffee excluded" {
			t.Errorf("expected notes stored, got %q", stored.Notes)
		}
	})

	t.Run("end_date_not_after_start", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now()
		_, err := svc.CreateBudget(user.ID, BudgetInput{
			Name:      "Backwards",
			Category:  "misc",
			Amount:    100,
			Period:    models.BudgetPeriodMonthly,
			StartDate: now,
			EndDate:   now.AddDate(0, 0, -1),
		})
		testutil.AssertAppError(t, err, "INVALID_BUDGET_DATES")
	})

	t.Run("zero_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now()
		_, err := svc.CreateBudget(user.ID, BudgetInput{
			Name:      "Nothing",
			Category:  "misc",
			Amount:    0,
			Period:    models.BudgetPeriodMonthly,
			StartDate: now,
			EndDate:   now.AddDate(0, 1, 0),
		})
		testutil.AssertAppError(t, err, "VALIDATION_FAILED")
	})

	t.Run("duplicate_active_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestBudget(t, db, user.ID, "groceries", 500)

		now := time.Now()
		_, err := svc.CreateBudget(user.ID, BudgetInput{
			Name:      "Second",
			Category:  "groceries",
			Amount:    300,
			Period:    models.BudgetPeriodMonthly,
			StartDate: now,
			EndDate:   now.AddDate(0, 1, 0),
		})
		testutil.AssertAppError(t, err, "BUDGET_CATEGORY_EXISTS")
	})

	t.Run("inactive_budget_does_not_conflict", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		old := testutil.CreateTestBudget(t, db, user.ID, "groceries", 500)
		if err := db.Model(old).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate budget: %v", err)
		}

		now := time.Now()
		_, err := svc.CreateBudget(user.ID, BudgetInput{
			Name:      "Replacement",
			Category:  "groceries",
			Amount:    400,
			Period:    models.BudgetPeriodMonthly,
			StartDate: now,
			EndDate:   now.AddDate(0, 1, 0),
		})
		testutil.AssertNoError(t, err)
	})

	t.Run("same_category_different_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestBudget(t, db, user1.ID, "groceries", 500)

		now := time.Now()
		_, err := svc.CreateBudget(user2.ID, BudgetInput{
			Name:      "My Groceries",
			Category:  "groceries",
			Amount:    300,
			Period:    models.BudgetPeriodMonthly,
			StartDate: now,
			EndDate:   now.AddDate(0, 1, 0),
		})
		testutil.AssertNoError(t, err)
	})
}

func TestGetUserBudgets(t *testing.T) {
	t.Run("owner_scoped_with_views", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestBudget(t, db, user1.ID, "groceries", 500)
		testutil.CreateTestBudget(t, db, user1.ID, "transport", 200)
		testutil.CreateTestBudget(t, db, user2.ID, "groceries", 300)

		result, err := svc.GetUserBudgets(user1.ID, pagination.PageRequest{Page: 1, Limit: 20}, nil)
		testutil.AssertNoError(t, err)

		if result.Total != 2 {
			t.Fatalf("expected 2 budgets, got %d", result.Total)
		}
		for _, view := range result.Items {
			if view.Status == "" {
				t.Error("expected derived status on budget view")
			}
		}
	})

	t.Run("filter_by_is_active", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestBudget(t, db, user.ID, "groceries", 500)
		inactive := testutil.CreateTestBudget(t, db, user.ID, "transport", 200)
		if err := db.Model(inactive).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate budget: %v", err)
		}

		active := true
		result, err := svc.GetUserBudgets(user.ID, pagination.PageRequest{Page: 1, Limit: 20}, &active)
		testutil.AssertNoError(t, err)

		if result.Total != 1 {
			t.Errorf("expected 1 active budget, got %d", result.Total)
		}
	})
}

func TestUpdateBudget(t *testing.T) {
	t.Run("window_invariant_holds_after_merge", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "groceries", 500)

		// Moving the start past the existing end must fail.
		badStart := budget.EndDate.AddDate(0, 0, 1)
		_, err := svc.UpdateBudget(user.ID, budget.ID, BudgetUpdate{StartDate: &badStart})
		testutil.AssertAppError(t, err, "INVALID_BUDGET_DATES")
	})

	t.Run("updates_notes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "groceries", 500)

		notes := "Shared with roommates"
		updated, err := svc.UpdateBudget(user.ID, budget.ID, BudgetUpdate{Notes: &notes})
		testutil.AssertNoError(t, err)
		if updated.Notes != notes {
			t.Errorf("expected notes %q, got %q", notes, updated.Notes)
		}
	})

	t.Run("category_change_conflicts_with_existing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestBudget(t, db, user.ID, "groceries", 500)
		other := testutil.CreateTestBudget(t, db, user.ID, "transport", 200)

		groceries := "groceries"
		_, err := svc.UpdateBudget(user.ID, other.ID, BudgetUpdate{Category: &groceries})
		testutil.AssertAppError(t, err, "BUDGET_CATEGORY_EXISTS")
	})

	t.Run("replaces_alert_thresholds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "groceries", 500)
		if err := db.Create(&models.AlertThreshold{BudgetID: budget.ID, Percentage: 50, IsEnabled: true}).Error; err != nil {
			t.Fatalf("failed to create threshold: %v", err)
		}

		updated, err := svc.UpdateBudget(user.ID, budget.ID, BudgetUpdate{
			AlertThresholds: []models.AlertThreshold{
				{Percentage: 75, IsEnabled: true},
				{Percentage: 90, IsEnabled: true},
			},
		})
		testutil.AssertNoError(t, err)

		if len(updated.AlertThresholds) != 2 {
			t.Fatalf("expected 2 thresholds after replacement, got %d", len(updated.AlertThresholds))
		}

		var count int64
		if err := db.Model(&models.AlertThreshold{}).Where("budget_id = ?", budget.ID).Count(&count).Error; err != nil {
			t.Fatalf("failed to count thresholds: %v", err)
		}
		if count != 2 {
			t.Errorf("expected 2 stored thresholds, got %d", count)
		}
	})

	t.Run("owner_scoped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, owner.ID, "groceries", 500)

		name := "hijacked"
		_, err := svc.UpdateBudget(intruder.ID, budget.ID, BudgetUpdate{Name: &name})
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestDeleteBudget(t *testing.T) {
	t.Run("deletes_with_thresholds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "groceries", 500)

		testutil.AssertNoError(t, svc.DeleteBudget(user.ID, budget.ID))

		_, err := svc.GetBudgetByID(user.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})

	t.Run("leaves_transactions_alone", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "groceries", 500)
		tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 50)

		testutil.AssertNoError(t, svc.DeleteBudget(user.ID, budget.ID))

		var count int64
		if err := db.Model(&models.Transaction{}).Where("id = ?", tx.ID).Count(&count).Error; err != nil {
			t.Fatalf("failed to count transactions: %v", err)
		}
		if count != 1 {
			t.Error("expected transaction to survive budget deletion")
		}
	})
}

func TestGetBudgetPerformance(t *testing.T) {
	t.Run("under_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "groceries", 100)

		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 30)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 20)

		perf, err := svc.GetBudgetPerformance(user.ID, budget.ID)
		testutil.AssertNoError(t, err)

		if perf.TotalSpent != 50 {
			t.Errorf("expected total spent 50, got %v", perf.TotalSpent)
		}
		if perf.Remaining != 50 {
			t.Errorf("expected remaining 50, got %v", perf.Remaining)
		}
		if perf.Percentage != 50 {
			t.Errorf("expected percentage 50, got %v", perf.Percentage)
		}
		if perf.IsOverBudget {
			t.Error("expected not over budget")
		}
		if perf.Transactions != 2 {
			t.Errorf("expected 2 transactions, got %d", perf.Transactions)
		}
	})

	t.Run("over_budget_caps_percentage_not_overage", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "groceries", 100)

		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 120)

		perf, err := svc.GetBudgetPerformance(user.ID, budget.ID)
		testutil.AssertNoError(t, err)

		if perf.Percentage != 100 {
			t.Errorf("expected capped percentage 100, got %v", perf.Percentage)
		}
		if perf.Remaining != -20 {
			t.Errorf("expected remaining -20, got %v", perf.Remaining)
		}
		if !perf.IsOverBudget {
			t.Error("expected over budget")
		}
	})

	t.Run("ignores_income_and_other_categories", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "groceries", 100)

		now := time.Now()
		testutil.CreateTestTransactionAt(t, db, user.ID, models.TransactionTypeIncome, 500, "groceries", now)
		testutil.CreateTestTransactionAt(t, db, user.ID, models.TransactionTypeExpense, 40, "transport", now)
		testutil.CreateTestTransactionAt(t, db, user.ID, models.TransactionTypeExpense, 25, "groceries", now)

		perf, err := svc.GetBudgetPerformance(user.ID, budget.ID)
		testutil.AssertNoError(t, err)

		if perf.TotalSpent != 25 {
			t.Errorf("expected total spent 25, got %v", perf.TotalSpent)
		}
	})
}
