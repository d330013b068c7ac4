package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:     fmt.Sprintf("Test User %d", nextID()),
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction creates a transaction of the given type and amount,
// dated now, in the "groceries" category.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType, amount float64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionAt(t, db, userID, txType, amount, "groceries", time.Now())
}

// CreateTestTransactionAt creates a transaction with the given category and date.
func CreateTestTransactionAt(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType, amount float64, category string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:        userID,
		Type:          txType,
		Amount:        amount,
		Description:   fmt.Sprintf("Test Transaction %d", nextID()),
		Category:      category,
		Date:          date,
		PaymentMethod: models.PaymentMethodCash,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates an active monthly budget for the given category,
// running from yesterday to thirty days out.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint, category string, amount float64) *models.Budget {
	t.Helper()

	now := time.Now()
	budget := &models.Budget{
		UserID:    userID,
		Name:      fmt.Sprintf("Test Budget %d", nextID()),
		Category:  category,
		Amount:    amount,
		Period:    models.BudgetPeriodMonthly,
		StartDate: now.AddDate(0, 0, -1),
		EndDate:   now.AddDate(0, 0, 30),
		IsActive:  true,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestGoal creates an active savings goal due ninety days from now.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID uint, targetAmount float64) *models.Goal {
	t.Helper()

	now := time.Now()
	goal := &models.Goal{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Goal %d", nextID()),
		Type:         models.GoalTypeSavings,
		TargetAmount: targetAmount,
		TargetDate:   now.AddDate(0, 0, 90),
		StartDate:    now,
		IsActive:     true,
		Priority:     models.GoalPriorityMedium,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}
