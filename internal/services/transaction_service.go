package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// transactionSortColumns whitelists the sortable columns for listing.
var transactionSortColumns = map[string]string{
	"date":       "date",
	"amount":     "amount",
	"category":   "category",
	"created_at": "created_at",
}

// transactionService handles transaction-related business logic.
type transactionService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewTransactionService creates a new TransactionServicer. The notifier
// receives budget alerts when expenses cross alert thresholds; pass nil to
// disable alerting.
func NewTransactionService(db *gorm.DB, notifier Notifier) TransactionServicer {
	return &transactionService{db: db, notifier: notifier}
}

// CreateTransaction creates a new transaction owned by the user.
func (s *transactionService) CreateTransaction(userID uint, input TransactionInput) (*models.Transaction, error) {
	if input.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidationFailed, "amount must be greater than zero")
	}
	if input.Type != models.TransactionTypeIncome && input.Type != models.TransactionTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrValidationFailed, "type must be income or expense")
	}

	if input.Date.IsZero() {
		input.Date = time.Now()
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = models.PaymentMethodCash
	}

	transaction := &models.Transaction{
		UserID:        userID,
		Type:          input.Type,
		Amount:        input.Amount,
		Description:   input.Description,
		Category:      input.Category,
		Subcategory:   input.Subcategory,
		Date:          input.Date,
		PaymentMethod: input.PaymentMethod,
		Tags:          input.Tags,
		IsRecurring:   input.IsRecurring,
		IsVerified:    input.IsVerified,
	}
	if input.IsRecurring && input.Recurring != nil {
		transaction.Recurring = *input.Recurring
		// The next due date is recorded once; nothing advances it later.
		if transaction.Recurring.NextDueDate == nil {
			due := input.Date
			transaction.Recurring.NextDueDate = &due
		}
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if transaction.Type == models.TransactionTypeExpense && s.notifier != nil {
		s.publishBudgetAlerts(userID, transaction)
	}

	return transaction, nil
}

// GetUserTransactions returns a paginated, filtered list of the user's transactions.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	column, ok := transactionSortColumns[filter.Sort]
	if !ok {
		column = "date"
	}
	direction := "DESC"
	if filter.Order == "asc" {
		direction = "ASC"
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order(column + " " + direction).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.Limit, totalItems)
	return &result, nil
}

// GetTransactionByID returns a transaction if it belongs to the user.
// A transaction owned by someone else is reported as not found.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction merges the update into an existing transaction. The
// owner and ID are never changed.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, input TransactionUpdate) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if input.Amount != nil && *input.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidationFailed, "amount must be greater than zero")
	}
	if input.Type != nil && *input.Type != models.TransactionTypeIncome && *input.Type != models.TransactionTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrValidationFailed, "type must be income or expense")
	}

	updates := make(map[string]interface{})
	if input.Type != nil {
		updates["type"] = *input.Type
	}
	if input.Amount != nil {
		updates["amount"] = *input.Amount
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Subcategory != nil {
		updates["subcategory"] = *input.Subcategory
	}
	if input.Date != nil {
		updates["date"] = *input.Date
	}
	if input.PaymentMethod != nil {
		updates["payment_method"] = *input.PaymentMethod
	}
	if input.IsRecurring != nil {
		updates["is_recurring"] = *input.IsRecurring
	}
	if input.Recurring != nil {
		pattern := *input.Recurring
		// The recorded next due date survives pattern edits.
		if pattern.NextDueDate == nil {
			pattern.NextDueDate = transaction.Recurring.NextDueDate
		}
		updates["recurring_frequency"] = pattern.Frequency
		updates["recurring_interval"] = pattern.Interval
		updates["recurring_end_date"] = pattern.EndDate
		updates["recurring_next_due_date"] = pattern.NextDueDate
	}
	if input.IsVerified != nil {
		updates["is_verified"] = *input.IsVerified
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	if input.Tags != nil {
		transaction.Tags = input.Tags
		if err := s.db.Model(transaction).Update("tags", transaction.Tags).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return transaction, nil
}

// DeleteTransaction hard-deletes a transaction owned by the user.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Unscoped().Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetSummary groups the user's transactions by type and sums them.
// Types with no transactions report zero total and count.
func (s *transactionService) GetSummary(userID uint, dates DateRange) (*TransactionSummary, error) {
	var rows []struct {
		Type  models.TransactionType
		Total float64
		Count int64
	}

	q := s.db.Model(&models.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ?", userID)
	q = applyDateRange(q, dates)

	if err := q.Group("type").Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &TransactionSummary{}
	for _, row := range rows {
		switch row.Type {
		case models.TransactionTypeIncome:
			summary.Income = TypeTotal{Total: row.Total, Count: row.Count}
		case models.TransactionTypeExpense:
			summary.Expense = TypeTotal{Total: row.Total, Count: row.Count}
		}
	}
	summary.NetIncome = summary.Income.Total - summary.Expense.Total

	return summary, nil
}

// GetCategoryBreakdown returns the top ten expense categories by total,
// descending. Ties keep the order the categories first appeared in.
func (s *transactionService) GetCategoryBreakdown(userID uint, dates DateRange) ([]CategoryTotal, error) {
	var rows []struct {
		Category string
		Total    float64
		Count    int64
		FirstID  uint
	}

	q := s.db.Model(&models.Transaction{}).
		Select("category, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count, MIN(id) AS first_id").
		Where("user_id = ? AND type = ?", userID, models.TransactionTypeExpense)
	q = applyDateRange(q, dates)

	if err := q.Group("category").
		Order("total DESC, first_id ASC").
		Limit(10).
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	breakdown := make([]CategoryTotal, 0, len(rows))
	for _, row := range rows {
		breakdown = append(breakdown, CategoryTotal{Category: row.Category, Total: row.Total, Count: row.Count})
	}
	return breakdown, nil
}

// GetMonthlyTrends computes income, expenses, and net income for each of the
// last N calendar months including the current one, oldest first. Months
// with no transactions are present with zeros.
func (s *transactionService) GetMonthlyTrends(userID uint, months int) ([]MonthlyTrend, error) {
	if months <= 0 {
		months = 6
	}

	now := time.Now()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	trends := make([]MonthlyTrend, 0, months)
	for i := months - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		var row struct {
			Income   float64
			Expenses float64
		}
		err := s.db.Model(&models.Transaction{}).
			Select(
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS income, "+
					"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS expenses",
				models.TransactionTypeIncome, models.TransactionTypeExpense,
			).
			Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
			Scan(&row).Error
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		trends = append(trends, MonthlyTrend{
			Month:     start,
			Income:    row.Income,
			Expenses:  row.Expenses,
			NetIncome: row.Income - row.Expenses,
		})
	}

	return trends, nil
}

// publishBudgetAlerts publishes a notification for every enabled alert
// threshold that this expense pushed spending across on an active budget for
// the same category.
func (s *transactionService) publishBudgetAlerts(userID uint, transaction *models.Transaction) {
	var budgets []models.Budget
	err := s.db.Preload("AlertThresholds").
		Where("user_id = ? AND category = ? AND is_active = ? AND start_date <= ? AND end_date >= ?",
			userID, transaction.Category, true, transaction.Date, transaction.Date).
		Find(&budgets).Error
	if err != nil {
		return
	}

	for i := range budgets {
		budget := &budgets[i]
		if budget.Amount <= 0 {
			continue
		}

		var spent float64
		s.db.Model(&models.Transaction{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("user_id = ? AND category = ? AND type = ? AND date BETWEEN ? AND ?",
				userID, budget.Category, models.TransactionTypeExpense, budget.StartDate, budget.EndDate).
			Scan(&spent)

		before := spent - transaction.Amount
		pctBefore := before / budget.Amount * 100
		pctAfter := spent / budget.Amount * 100

		for _, threshold := range budget.AlertThresholds {
			if !threshold.IsEnabled {
				continue
			}
			if pctBefore < threshold.Percentage && pctAfter >= threshold.Percentage {
				s.notifier.Publish(Notification{
					UserID:  userID,
					Type:    NotificationTypeBudgetAlert,
					Title:   fmt.Sprintf("Budget alert: %s", budget.Name),
					Message: fmt.Sprintf("Spending in %s reached %.0f%% of the budget", budget.Category, pctAfter),
					Data: map[string]interface{}{
						"budget_id":  budget.ID,
						"threshold":  threshold.Percentage,
						"spent":      spent,
						"budget":     budget.Amount,
						"percentage": pctAfter,
					},
				})
			}
		}
	}
}

// applyTransactionFilters narrows a transaction query by the optional list filters.
func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.StartDate != nil {
		q = q.Where("date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("date <= ?", *f.EndDate)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("description LIKE ? OR category LIKE ?", pattern, pattern)
	}
	return q
}

// applyDateRange bounds an aggregation query by the optional dates.
func applyDateRange(q *gorm.DB, dates DateRange) *gorm.DB {
	if dates.Start != nil {
		q = q.Where("date >= ?", *dates.Start)
	}
	if dates.End != nil {
		q = q.Where("date <= ?", *dates.End)
	}
	return q
}
