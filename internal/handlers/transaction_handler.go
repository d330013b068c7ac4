package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// RecurringPatternRequest describes a recurring transaction's cadence.
type RecurringPatternRequest struct {
	Frequency string     `json:"frequency" binding:"required,recurring_frequency"`
	Interval  int        `json:"interval" binding:"omitempty,min=1"`
	EndDate   *time.Time `json:"end_date"`
}

// CreateTransactionRequest represents the request payload for creating a transaction.
type CreateTransactionRequest struct {
	Type          string                   `json:"type" binding:"required,transaction_type"`
	Amount        float64                  `json:"amount" binding:"required,gt=0"`
	Description   string                   `json:"description" binding:"required,max=200"`
	Category      string                   `json:"category" binding:"required,max=50"`
	Subcategory   string                   `json:"subcategory" binding:"omitempty,max=50"`
	Date          *time.Time               `json:"date"`
	PaymentMethod string                   `json:"payment_method" binding:"omitempty,payment_method"`
	Tags          []string                 `json:"tags" binding:"omitempty,dive,max=20"`
	IsRecurring   bool                     `json:"is_recurring"`
	Recurring     *RecurringPatternRequest `json:"recurring_pattern" binding:"omitempty"`
	IsVerified    bool                     `json:"is_verified"`
}

// UpdateTransactionRequest represents the request payload for updating a transaction.
type UpdateTransactionRequest struct {
	Type          *string                  `json:"type" binding:"omitempty,transaction_type"`
	Amount        *float64                 `json:"amount" binding:"omitempty,gt=0"`
	Description   *string                  `json:"description" binding:"omitempty,max=200"`
	Category      *string                  `json:"category" binding:"omitempty,max=50"`
	Subcategory   *string                  `json:"subcategory" binding:"omitempty,max=50"`
	Date          *time.Time               `json:"date"`
	PaymentMethod *string                  `json:"payment_method" binding:"omitempty,payment_method"`
	Tags          []string                 `json:"tags" binding:"omitempty,dive,max=20"`
	IsRecurring   *bool                    `json:"is_recurring"`
	Recurring     *RecurringPatternRequest `json:"recurring_pattern" binding:"omitempty"`
	IsVerified    *bool                    `json:"is_verified"`
}

// CreateTransaction handles the creation of a new transaction.
// @Summary     Create a transaction
// @Description Record a new income or expense transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} MessageResponse "Transaction created"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	input := services.TransactionInput{
		Type:          models.TransactionType(req.Type),
		Amount:        req.Amount,
		Description:   req.Description,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		Tags:          req.Tags,
		IsRecurring:   req.IsRecurring,
		IsVerified:    req.IsVerified,
	}
	if req.Date != nil {
		input.Date = *req.Date
	}
	if req.Recurring != nil {
		interval := req.Recurring.Interval
		if interval == 0 {
			interval = 1
		}
		input.Recurring = &models.RecurringPattern{
			Frequency: models.RecurringFrequency(req.Recurring.Frequency),
			Interval:  interval,
			EndDate:   req.Recurring.EndDate,
		}
	}

	transaction, err := h.transactionService.CreateTransaction(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Transaction created successfully", gin.H{"transaction": transaction})
}

// GetTransactions handles listing transactions with filters and pagination.
// @Summary     List transactions
// @Description List the authenticated user's transactions with filters
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page       query int    false "Page number (default 1)"
// @Param       limit      query int    false "Items per page (default 10, max 100)"
// @Param       sort       query string false "Sort column (date/amount/category/created_at)"
// @Param       order      query string false "Sort order (asc/desc)"
// @Param       type       query string false "Filter by type (income/expense)"
// @Param       category   query string false "Filter by category"
// @Param       startDate  query string false "Filter from date (RFC 3339)"
// @Param       endDate    query string false "Filter to date (RFC 3339)"
// @Param       search     query string false "Search description and category"
// @Success     200 {object} MessageResponse "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	filter := services.TransactionFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Order:    c.Query("order"),
	}

	if v := c.Query("type"); v != "" {
		t := models.TransactionType(v)
		if t != models.TransactionTypeIncome && t != models.TransactionTypeExpense {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be 'income' or 'expense'"))
			return
		}
		filter.Type = &t
	}

	filter.StartDate, err = parseDateQuery(c, "startDate")
	if err != nil {
		respondWithError(c, err)
		return
	}
	filter.EndDate, err = parseDateQuery(c, "endDate")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondPage(c, "transactions", result)
}

// GetTransaction handles retrieving a specific transaction.
// @Summary     Get transaction by ID
// @Description Get a specific transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "", gin.H{"transaction": transaction})
}

// UpdateTransaction handles updating an existing transaction.
// @Summary     Update transaction
// @Description Update an existing transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                      true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Updated fields"
// @Success     200 {object} MessageResponse "Updated transaction"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	input := services.TransactionUpdate{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Date:        req.Date,
		Tags:        req.Tags,
		IsRecurring: req.IsRecurring,
		IsVerified:  req.IsVerified,
	}
	if req.Type != nil {
		t := models.TransactionType(*req.Type)
		input.Type = &t
	}
	if req.PaymentMethod != nil {
		pm := models.PaymentMethod(*req.PaymentMethod)
		input.PaymentMethod = &pm
	}
	if req.Recurring != nil {
		interval := req.Recurring.Interval
		if interval == 0 {
			interval = 1
		}
		input.Recurring = &models.RecurringPattern{
			Frequency: models.RecurringFrequency(req.Recurring.Frequency),
			Interval:  interval,
			EndDate:   req.Recurring.EndDate,
		}
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Transaction updated successfully", gin.H{"transaction": transaction})
}

// DeleteTransaction handles deleting a transaction.
// @Summary     Delete transaction
// @Description Delete a transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Transaction deleted successfully"})
}

// GetStats handles the income/expense summary.
// @Summary     Transaction summary
// @Description Income and expense totals with net income, optionally bounded by dates
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       startDate query string false "From date (RFC 3339)"
// @Param       endDate   query string false "To date (RFC 3339)"
// @Success     200 {object} MessageResponse "Summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions/stats [get]
func (h *TransactionHandler) GetStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dates, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.transactionService.GetSummary(userID, dates)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "", gin.H{"summary": summary})
}

// GetCategoryBreakdown handles the expense category breakdown.
// @Summary     Category breakdown
// @Description Top ten expense categories by total, descending
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       startDate query string false "From date (RFC 3339)"
// @Param       endDate   query string false "To date (RFC 3339)"
// @Success     200 {object} MessageResponse "Categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions/categories [get]
func (h *TransactionHandler) GetCategoryBreakdown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dates, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.transactionService.GetCategoryBreakdown(userID, dates)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "", gin.H{"categories": categories})
}

// GetMonthlyTrends handles the per-month income/expense trend.
// @Summary     Monthly trends
// @Description Income, expenses, and net income per calendar month, oldest first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       months query int false "How many months back, including the current one (default 6)"
// @Success     200 {object} MessageResponse "Trends"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions/trends [get]
func (h *TransactionHandler) GetMonthlyTrends(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	months := 6
	if v := c.Query("months"); v != "" {
		months, err = strconv.Atoi(v)
		if err != nil || months < 1 || months > 24 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be between 1 and 24"))
			return
		}
	}

	trends, err := h.transactionService.GetMonthlyTrends(userID, months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "", gin.H{"trends": trends})
}

// parseDateQuery parses an optional RFC 3339 date query parameter.
func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		// Accept bare dates too.
		t, err = time.Parse("2006-01-02", v)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, name+" must be an RFC 3339 timestamp or YYYY-MM-DD date")
		}
	}
	return &t, nil
}

// parseDateRange parses the optional startDate/endDate bounds.
func parseDateRange(c *gin.Context) (services.DateRange, error) {
	var dates services.DateRange
	var err error
	if dates.Start, err = parseDateQuery(c, "startDate"); err != nil {
		return dates, err
	}
	if dates.End, err = parseDateQuery(c, "endDate"); err != nil {
		return dates, err
	}
	return dates, nil
}
