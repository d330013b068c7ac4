package services

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/derive"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a new budget. The date window must be valid and the
// category must not already have an active budget for this user.
func (s *budgetService) CreateBudget(userID uint, input BudgetInput) (*models.Budget, error) {
	if input.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidationFailed, "amount must be greater than zero")
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, apperrors.ErrBudgetDates
	}

	var count int64
	if err := s.db.Model(&models.Budget{}).
		Where("user_id = ? AND category = ? AND is_active = ?", userID, input.Category, true).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrBudgetCategoryExists
	}

	budget := &models.Budget{
		UserID:          userID,
		Name:            input.Name,
		Category:        input.Category,
		Amount:          input.Amount,
		Period:          input.Period,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		IsActive:        true,
		Notes:           input.Notes,
		AlertThresholds: input.AlertThresholds,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetUserBudgets returns a paginated list of the user's budgets, newest
// first, with status and time remaining derived at read time.
func (s *budgetService) GetUserBudgets(userID uint, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[derive.BudgetView], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Preload("AlertThresholds").
		Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	views := make([]derive.BudgetView, 0, len(budgets))
	for i := range budgets {
		views = append(views, derive.NewBudgetView(&budgets[i], now))
	}

	result := pagination.NewPageResponse(views, page.Page, page.Limit, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget if it belongs to the user. A budget owned
// by someone else is reported as not found.
func (s *budgetService) GetBudgetByID(userID, budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("AlertThresholds").
		Where("id = ? AND user_id = ?", budgetID, userID).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget merges the update into an existing budget, re-running the
// same invariants as create: the resulting window must still satisfy
// end date > start date.
func (s *budgetService) UpdateBudget(userID, budgetID uint, input BudgetUpdate) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	if input.Amount != nil && *input.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidationFailed, "amount must be greater than zero")
	}

	start := budget.StartDate
	if input.StartDate != nil {
		start = *input.StartDate
	}
	end := budget.EndDate
	if input.EndDate != nil {
		end = *input.EndDate
	}
	if !end.After(start) {
		return nil, apperrors.ErrBudgetDates
	}

	if input.Category != nil && *input.Category != budget.Category {
		var count int64
		if err := s.db.Model(&models.Budget{}).
			Where("user_id = ? AND category = ? AND is_active = ? AND id <> ?", userID, *input.Category, true, budget.ID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrBudgetCategoryExists
		}
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Amount != nil {
		updates["amount"] = *input.Amount
	}
	if input.Period != nil {
		updates["period"] = *input.Period
	}
	if input.StartDate != nil {
		updates["start_date"] = *input.StartDate
	}
	if input.EndDate != nil {
		updates["end_date"] = *input.EndDate
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(budget).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if input.AlertThresholds != nil {
			if err := tx.Where("budget_id = ?", budget.ID).Delete(&models.AlertThreshold{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			for i := range input.AlertThresholds {
				input.AlertThresholds[i].ID = 0
				input.AlertThresholds[i].BudgetID = budget.ID
			}
			if len(input.AlertThresholds) > 0 {
				if err := tx.Create(&input.AlertThresholds).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
			}
			budget.AlertThresholds = input.AlertThresholds
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return budget, nil
}

// DeleteBudget hard-deletes a budget owned by the user. Transactions in the
// budget's category are not touched.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Unscoped().Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetPerformance compares the budget's limit against the user's
// expenses in the budget's category and date window. The percentage is
// capped at 100 for display; Remaining and IsOverBudget report the real
// overage so spending past the limit is never hidden.
func (s *budgetService) GetBudgetPerformance(userID, budgetID uint) (*BudgetPerformance, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	var row struct {
		Total float64
		Count int64
	}
	err = s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ? AND category = ? AND type = ? AND date BETWEEN ? AND ?",
			userID, budget.Category, models.TransactionTypeExpense, budget.StartDate, budget.EndDate).
		Scan(&row).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var percentage float64
	if budget.Amount > 0 {
		percentage = math.Min(row.Total/budget.Amount*100, 100)
	}

	return &BudgetPerformance{
		Budget:       derive.NewBudgetView(budget, time.Now()),
		TotalSpent:   row.Total,
		Remaining:    budget.Amount - row.Total,
		Percentage:   percentage,
		IsOverBudget: row.Total > budget.Amount,
		Transactions: row.Count,
	}, nil
}
