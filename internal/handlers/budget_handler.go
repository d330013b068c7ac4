package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/derive"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// AlertThresholdRequest configures one spending alert on a budget.
type AlertThresholdRequest struct {
	Percentage float64 `json:"percentage" binding:"required,gt=0,lte=100"`
	IsEnabled  *bool   `json:"is_enabled"`
}

// CreateBudgetRequest represents the request payload for creating a budget.
type CreateBudgetRequest struct {
	Name            string                  `json:"name" binding:"required,max=100"`
	Category        string                  `json:"category" binding:"required,max=50"`
	Amount          float64                 `json:"amount" binding:"required,gt=0"`
	Period          string                  `json:"period" binding:"required,budget_period"`
	StartDate       time.Time               `json:"start_date" binding:"required"`
	EndDate         time.Time               `json:"end_date" binding:"required"`
	Notes           string                  `json:"notes" binding:"omitempty,max=500"`
	AlertThresholds []AlertThresholdRequest `json:"alert_thresholds" binding:"omitempty,dive"`
}

// UpdateBudgetRequest represents the request payload for updating a budget.
type UpdateBudgetRequest struct {
	Name            *string                 `json:"name" binding:"omitempty,max=100"`
	Category        *string                 `json:"category" binding:"omitempty,max=50"`
	Amount          *float64                `json:"amount" binding:"omitempty,gt=0"`
	Period          *string                 `json:"period" binding:"omitempty,budget_period"`
	StartDate       *time.Time              `json:"start_date"`
	EndDate         *time.Time              `json:"end_date"`
	IsActive        *bool                   `json:"is_active"`
	Notes           *string                 `json:"notes" binding:"omitempty,max=500"`
	AlertThresholds []AlertThresholdRequest `json:"alert_thresholds" binding:"omitempty,dive"`
}

func thresholdsFromRequest(reqs []AlertThresholdRequest) []models.AlertThreshold {
	if reqs == nil {
		return nil
	}
	thresholds := make([]models.AlertThreshold, 0, len(reqs))
	for _, r := range reqs {
		enabled := true
		if r.IsEnabled != nil {
			enabled = *r.IsEnabled
		}
		thresholds = append(thresholds, models.AlertThreshold{
			Percentage: r.Percentage,
			IsEnabled:  enabled,
		})
	}
	return thresholds
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Create a spending budget for a category and date window
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} MessageResponse "Budget created"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Active budget already exists for category"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	budget, err := h.budgetService.CreateBudget(userID, services.BudgetInput{
		Name:            req.Name,
		Category:        req.Category,
		Amount:          req.Amount,
		Period:          models.BudgetPeriod(req.Period),
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Notes:           req.Notes,
		AlertThresholds: thresholdsFromRequest(req.AlertThresholds),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Budget created successfully", gin.H{"budget": derive.NewBudgetView(budget, time.Now())})
}

// GetBudgets handles listing budgets with pagination.
// @Summary     List budgets
// @Description List the authenticated user's budgets with derived status fields
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       page     query int    false "Page number (default 1)"
// @Param       limit    query int    false "Items per page (default 10, max 100)"
// @Param       isActive query bool   false "Filter by active flag"
// @Success     200 {object} MessageResponse "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
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

	isActive, err := parseBoolQuery(c, "isActive")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.budgetService.GetUserBudgets(userID, page, isActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondPage(c, "budgets", result)
}

// GetBudget handles retrieving a specific budget.
// @Summary     Get budget by ID
// @Description Get a specific budget with its alert thresholds
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} MessageResponse "Budget details"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "", gin.H{"budget": derive.NewBudgetView(budget, time.Now())})
}

// UpdateBudget handles updating an existing budget.
// @Summary     Update budget
// @Description Update an existing budget; replacing alert thresholds wholesale
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Updated fields"
// @Success     200 {object} MessageResponse "Updated budget"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Active budget already exists for category"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	input := services.BudgetUpdate{
		Name:            req.Name,
		Category:        req.Category,
		Amount:          req.Amount,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IsActive:        req.IsActive,
		Notes:           req.Notes,
		AlertThresholds: thresholdsFromRequest(req.AlertThresholds),
	}
	if req.Period != nil {
		p := models.BudgetPeriod(*req.Period)
		input.Period = &p
	}

	budget, err := h.budgetService.UpdateBudget(userID, budgetID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Budget updated successfully", gin.H{"budget": derive.NewBudgetView(budget, time.Now())})
}

// DeleteBudget handles deleting a budget.
// @Summary     Delete budget
// @Description Delete a budget and its alert thresholds
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Budget deleted successfully"})
}

// GetBudgetPerformance handles the budget vs actual spending report.
// @Summary     Budget performance
// @Description Compare a budget's limit against matching expense transactions
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} MessageResponse "Performance report"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/performance [get]
func (h *BudgetHandler) GetBudgetPerformance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	performance, err := h.budgetService.GetBudgetPerformance(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "", gin.H{"performance": performance})
}
