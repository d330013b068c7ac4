package services

import (
	"time"

	"fintrack/internal/derive"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(name, email, password string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	UpdateProfile(userID uint, name string, prefs *models.Preferences) (*models.User, error)
	UpdatePassword(userID uint, currentPassword, newPassword string) error
	DeactivateUser(userID uint) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Type      *models.TransactionType
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
	Sort      string
	Order     string
}

// DateRange bounds an aggregation query; either side may be nil.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// TypeTotal is the total and count for one transaction type.
type TypeTotal struct {
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

// TransactionSummary groups a user's transactions by type.
// NetIncome is always Income.Total minus Expense.Total.
type TransactionSummary struct {
	Income    TypeTotal `json:"income"`
	Expense   TypeTotal `json:"expense"`
	NetIncome float64   `json:"net_income"`
}

// CategoryTotal is one row of the expense category breakdown.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
}

// MonthlyTrend is income vs expenses for one calendar month.
type MonthlyTrend struct {
	Month     time.Time `json:"month"`
	Income    float64   `json:"income"`
	Expenses  float64   `json:"expenses"`
	NetIncome float64   `json:"net_income"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, input TransactionInput) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, input TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
	GetSummary(userID uint, dates DateRange) (*TransactionSummary, error)
	GetCategoryBreakdown(userID uint, dates DateRange) ([]CategoryTotal, error)
	GetMonthlyTrends(userID uint, months int) ([]MonthlyTrend, error)
}

// TransactionInput carries the validated fields for creating a transaction.
type TransactionInput struct {
	Type          models.TransactionType
	Amount        float64
	Description   string
	Category      string
	Subcategory   string
	Date          time.Time
	PaymentMethod models.PaymentMethod
	Tags          []string
	IsRecurring   bool
	Recurring     *models.RecurringPattern
	IsVerified    bool
}

// TransactionUpdate carries the fields an update may change. Nil pointers
// leave the stored value untouched; UserID is never part of an update.
type TransactionUpdate struct {
	Type          *models.TransactionType
	Amount        *float64
	Description   *string
	Category      *string
	Subcategory   *string
	Date          *time.Time
	PaymentMethod *models.PaymentMethod
	Tags          []string
	IsRecurring   *bool
	Recurring     *models.RecurringPattern
	IsVerified    *bool
}

// BudgetPerformance compares a budget's limit against matching expenses.
// Percentage is capped at 100 for display; TotalSpent, Remaining, and
// IsOverBudget are uncapped so overage is never hidden.
type BudgetPerformance struct {
	Budget       derive.BudgetView `json:"budget"`
	TotalSpent   float64           `json:"total_spent"`
	Remaining    float64           `json:"remaining"`
	Percentage   float64           `json:"percentage"`
	IsOverBudget bool              `json:"is_over_budget"`
	Transactions int64             `json:"transactions"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID uint, input BudgetInput) (*models.Budget, error)
	GetUserBudgets(userID uint, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[derive.BudgetView], error)
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
	UpdateBudget(userID, budgetID uint, input BudgetUpdate) (*models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
	GetBudgetPerformance(userID, budgetID uint) (*BudgetPerformance, error)
}

// BudgetInput carries the validated fields for creating a budget.
type BudgetInput struct {
	Name            string
	Category        string
	Amount          float64
	Period          models.BudgetPeriod
	StartDate       time.Time
	EndDate         time.Time
	Notes           string
	AlertThresholds []models.AlertThreshold
}

// BudgetUpdate carries the fields an update may change.
type BudgetUpdate struct {
	Name            *string
	Category        *string
	Amount          *float64
	Period          *models.BudgetPeriod
	StartDate       *time.Time
	EndDate         *time.Time
	IsActive        *bool
	Notes           *string
	AlertThresholds []models.AlertThreshold
}

// GoalFilter holds optional filter parameters for listing goals.
type GoalFilter struct {
	Type        *models.GoalType
	IsActive    *bool
	IsCompleted *bool
}

// GoalStats summarizes all of a user's goals.
type GoalStats struct {
	Total           int64   `json:"total"`
	Active          int64   `json:"active"`
	Completed       int64   `json:"completed"`
	Overdue         int64   `json:"overdue"`
	TotalTarget     float64 `json:"total_target_amount"`
	TotalCurrent    float64 `json:"total_current_amount"`
	OverallProgress float64 `json:"overall_progress"`
}

// GoalServicer defines the contract for goal-related business logic.
type GoalServicer interface {
	CreateGoal(userID uint, input GoalInput) (*models.Goal, error)
	GetUserGoals(userID uint, page pagination.PageRequest, filter GoalFilter) (*pagination.PageResponse[derive.GoalView], error)
	GetGoalByID(userID, goalID uint) (*models.Goal, error)
	UpdateGoal(userID, goalID uint, input GoalUpdate) (*models.Goal, error)
	DeleteGoal(userID, goalID uint) error
	Contribute(userID, goalID uint, amount float64, description string, source models.ContributionSource) (*models.Goal, error)
	SetMilestoneCompleted(userID, goalID uint, index int, completed bool) (*models.Goal, error)
	GetGoalStats(userID uint) (*GoalStats, error)
}

// GoalInput carries the validated fields for creating a goal.
type GoalInput struct {
	Name          string
	Type          models.GoalType
	TargetAmount  float64
	CurrentAmount float64
	TargetDate    time.Time
	StartDate     time.Time
	Priority      models.GoalPriority
	Milestones    []models.Milestone
}

// GoalUpdate carries the fields an update may change.
type GoalUpdate struct {
	Name          *string
	Type          *models.GoalType
	TargetAmount  *float64
	CurrentAmount *float64
	TargetDate    *time.Time
	Priority      *models.GoalPriority
	IsActive      *bool
}
