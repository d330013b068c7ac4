package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/derive"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// GoalHandler handles savings goal requests.
type GoalHandler struct {
	goalService services.GoalServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// MilestoneRequest defines one intermediate checkpoint on a goal.
type MilestoneRequest struct {
	Name         string  `json:"name" binding:"required,max=100"`
	TargetAmount float64 `json:"target_amount" binding:"required,gt=0"`
}

// CreateGoalRequest represents the request payload for creating a goal.
type CreateGoalRequest struct {
	Name          string             `json:"name" binding:"required,max=100"`
	Type          string             `json:"type" binding:"omitempty,goal_type"`
	TargetAmount  float64            `json:"target_amount" binding:"required,gt=0"`
	CurrentAmount float64            `json:"current_amount" binding:"omitempty,gte=0"`
	TargetDate    time.Time          `json:"target_date" binding:"required"`
	StartDate     *time.Time         `json:"start_date"`
	Priority      string             `json:"priority" binding:"omitempty,goal_priority"`
	Milestones    []MilestoneRequest `json:"milestones" binding:"omitempty,dive"`
}

// UpdateGoalRequest represents the request payload for updating a goal.
type UpdateGoalRequest struct {
	Name          *string    `json:"name" binding:"omitempty,max=100"`
	Type          *string    `json:"type" binding:"omitempty,goal_type"`
	TargetAmount  *float64   `json:"target_amount" binding:"omitempty,gt=0"`
	CurrentAmount *float64   `json:"current_amount" binding:"omitempty,gte=0"`
	TargetDate    *time.Time `json:"target_date"`
	Priority      *string    `json:"priority" binding:"omitempty,goal_priority"`
	IsActive      *bool      `json:"is_active"`
}

// ContributeRequest represents the request payload for contributing to a goal.
type ContributeRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description" binding:"omitempty,max=200"`
	Source      string  `json:"source" binding:"omitempty,contribution_source"`
}

// MilestoneUpdateRequest toggles a milestone's completion state.
type MilestoneUpdateRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// CreateGoal handles the creation of a new savings goal.
// @Summary     Create a goal
// @Description Create a savings goal with optional milestones
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} MessageResponse "Goal created"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	input := services.GoalInput{
		Name:          req.Name,
		Type:          models.GoalType(req.Type),
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		TargetDate:    req.TargetDate,
		Priority:      models.GoalPriority(req.Priority),
	}
	if req.StartDate != nil {
		input.StartDate = *req.StartDate
	}
	for _, m := range req.Milestones {
		input.Milestones = append(input.Milestones, models.Milestone{
			Name:         m.Name,
			TargetAmount: m.TargetAmount,
		})
	}

	goal, err := h.goalService.CreateGoal(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Goal created successfully", gin.H{"goal": derive.NewGoalView(goal, time.Now())})
}

// GetGoals handles listing goals with filters and pagination.
// @Summary     List goals
// @Description List the authenticated user's goals with derived progress fields
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       page        query int    false "Page number (default 1)"
// @Param       limit       query int    false "Items per page (default 10, max 100)"
// @Param       type        query string false "Filter by goal type"
// @Param       isActive    query bool   false "Filter by active flag"
// @Param       isCompleted query bool   false "Filter by completed flag"
// @Success     200 {object} MessageResponse "Paginated goals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /goals [get]
func (h *GoalHandler) GetGoals(c *gin.Context) {
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

	var filter services.GoalFilter
	if v := c.Query("type"); v != "" {
		t := models.GoalType(v)
		if !t.Valid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid goal type"))
			return
		}
		filter.Type = &t
	}
	if filter.IsActive, err = parseBoolQuery(c, "isActive"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.IsCompleted, err = parseBoolQuery(c, "isCompleted"); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.goalService.GetUserGoals(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondPage(c, "goals", result)
}

// GetGoal handles retrieving a specific goal.
// @Summary     Get goal by ID
// @Description Get a specific goal with milestones and contributions
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Goal ID"
// @Success     200 {object} MessageResponse "Goal details"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [get]
func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetGoalByID(userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "", gin.H{"goal": derive.NewGoalView(goal, time.Now())})
}

// UpdateGoal handles updating an existing goal.
// @Summary     Update goal
// @Description Update an existing goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Goal ID"
// @Param       request body UpdateGoalRequest true "Updated fields"
// @Success     200 {object} MessageResponse "Updated goal"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	input := services.GoalUpdate{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		TargetDate:    req.TargetDate,
		IsActive:      req.IsActive,
	}
	if req.Type != nil {
		t := models.GoalType(*req.Type)
		input.Type = &t
	}
	if req.Priority != nil {
		p := models.GoalPriority(*req.Priority)
		input.Priority = &p
	}

	goal, err := h.goalService.UpdateGoal(userID, goalID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Goal updated successfully", gin.H{"goal": derive.NewGoalView(goal, time.Now())})
}

// DeleteGoal handles deleting a goal.
// @Summary     Delete goal
// @Description Delete a goal with its milestones and contributions
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Goal ID"
// @Success     200 {object} MessageResponse "Goal deleted"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Goal deleted successfully"})
}

// Contribute handles adding money to a goal.
// @Summary     Contribute to goal
// @Description Add a contribution to a goal; marks the goal completed when funded
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Goal ID"
// @Param       request body ContributeRequest true "Contribution details"
// @Success     200 {object} MessageResponse "Updated goal"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id}/contribute [post]
func (h *GoalHandler) Contribute(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	source := models.ContributionSource(req.Source)
	if source == "" {
		source = models.ContributionSourceManual
	}

	goal, err := h.goalService.Contribute(userID, goalID, req.Amount, req.Description, source)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Contribution added successfully", gin.H{"goal": derive.NewGoalView(goal, time.Now())})
}

// UpdateMilestone handles toggling a milestone's completion state.
// @Summary     Update milestone
// @Description Mark a goal milestone as completed or not, by zero-based index
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                    true "Goal ID"
// @Param       index   path int                    true "Milestone index"
// @Param       request body MilestoneUpdateRequest true "Completion state"
// @Success     200 {object} MessageResponse "Updated goal"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal or milestone not found"
// @Router      /goals/{id}/milestones/{index} [put]
func (h *GoalHandler) UpdateMilestone(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	index, err := parsePathID(c, "index")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid milestone index"))
		return
	}

	var req MilestoneUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	goal, err := h.goalService.SetMilestoneCompleted(userID, goalID, int(index), *req.Completed)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Milestone updated successfully", gin.H{"goal": derive.NewGoalView(goal, time.Now())})
}

// GetGoalStats handles the goals overview summary.
// @Summary     Goal statistics
// @Description Aggregate counts and overall progress across all goals
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Statistics"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /goals/stats [get]
func (h *GoalHandler) GetGoalStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.goalService.GetGoalStats(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "", gin.H{"stats": stats})
}
