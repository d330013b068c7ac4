package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/derive"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// goalService handles goal-related business logic.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal creates a new goal for the user. The target date must be in the
// future and the target amount positive. A goal created already at or past
// its target is immediately marked completed.
func (s *goalService) CreateGoal(userID uint, input GoalInput) (*models.Goal, error) {
	now := time.Now()

	if input.TargetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidationFailed, "target amount must be greater than zero")
	}
	if input.CurrentAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidationFailed, "current amount cannot be negative")
	}
	if !input.TargetDate.After(now) {
		return nil, apperrors.ErrGoalTargetDate
	}

	if input.Type == "" {
		input.Type = models.GoalTypeSavings
	}
	if input.Priority == "" {
		input.Priority = models.GoalPriorityMedium
	}
	if input.StartDate.IsZero() {
		input.StartDate = now
	}

	goal := &models.Goal{
		UserID:        userID,
		Name:          input.Name,
		Type:          input.Type,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: input.CurrentAmount,
		TargetDate:    input.TargetDate,
		StartDate:     input.StartDate,
		IsActive:      true,
		Priority:      input.Priority,
		Milestones:    input.Milestones,
	}
	applyCompletion(goal, now)

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// GetUserGoals returns a paginated, filtered list of the user's goals with
// derived fields evaluated at read time. Goals order by priority, most
// urgent first, then by nearest target date.
func (s *goalService) GetUserGoals(userID uint, page pagination.PageRequest, filter GoalFilter) (*pagination.PageResponse[derive.GoalView], error) {
	page.Defaults()

	base := s.db.Model(&models.Goal{}).Where("user_id = ?", userID)
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.IsActive != nil {
		base = base.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IsCompleted != nil {
		base = base.Where("is_completed = ?", *filter.IsCompleted)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.Goal
	if err := base.Preload("Milestones").Preload("Contributions").
		Scopes(pagination.Paginate(page)).
		Order("CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END, target_date ASC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	views := make([]derive.GoalView, 0, len(goals))
	for i := range goals {
		views = append(views, derive.NewGoalView(&goals[i], now))
	}

	result := pagination.NewPageResponse(views, page.Page, page.Limit, totalItems)
	return &result, nil
}

// GetGoalByID returns a goal if it belongs to the user. A goal owned by
// someone else is reported as not found.
func (s *goalService) GetGoalByID(userID, goalID uint) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Preload("Milestones").Preload("Contributions").
		Where("id = ? AND user_id = ?", goalID, userID).
		First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal merges the update into an existing goal and re-applies the
// completion invariant: any update that leaves the current amount at or past
// the target marks the goal completed, exactly once.
func (s *goalService) UpdateGoal(userID, goalID uint, input GoalUpdate) (*models.Goal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	if input.TargetAmount != nil && *input.TargetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidationFailed, "target amount must be greater than zero")
	}
	if input.CurrentAmount != nil && *input.CurrentAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidationFailed, "current amount cannot be negative")
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Type != nil {
		updates["type"] = *input.Type
	}
	if input.TargetAmount != nil {
		updates["target_amount"] = *input.TargetAmount
	}
	if input.CurrentAmount != nil {
		updates["current_amount"] = *input.CurrentAmount
	}
	if input.TargetDate != nil {
		updates["target_date"] = *input.TargetDate
	}
	if input.Priority != nil {
		updates["priority"] = *input.Priority
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(goal).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return completeIfFunded(tx, goal.ID, time.Now())
	})
	if err != nil {
		return nil, err
	}

	return s.GetGoalByID(userID, goalID)
}

// DeleteGoal hard-deletes a goal and its milestones and contributions.
func (s *goalService) DeleteGoal(userID, goalID uint) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goal_id = ?", goal.ID).Delete(&models.Milestone{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("goal_id = ?", goal.ID).Delete(&models.Contribution{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Unscoped().Delete(goal).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	return err
}

// Contribute appends a contribution and increases the goal's current amount
// in one database transaction. The increment is a single SQL expression, not
// a read-modify-write, so concurrent contributions to the same goal never
// lose updates; the completion flag is set by a conditional UPDATE in the
// same transaction.
func (s *goalService) Contribute(userID, goalID uint, amount float64, description string, source models.ContributionSource) (*models.Goal, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidationFailed, "contribution amount must be greater than zero")
	}
	if source == "" {
		source = models.ContributionSourceManual
	}

	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		contribution := &models.Contribution{
			GoalID:      goal.ID,
			Amount:      amount,
			Date:        now,
			Description: description,
			Source:      source,
		}
		if err := tx.Create(contribution).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Model(&models.Goal{}).
			Where("id = ?", goal.ID).
			UpdateColumn("current_amount", gorm.Expr("current_amount + ?", amount)).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return completeIfFunded(tx, goal.ID, now)
	})
	if err != nil {
		return nil, err
	}

	return s.GetGoalByID(userID, goalID)
}

// SetMilestoneCompleted marks the goal's milestone at the given zero-based
// index completed or not. CompletedAt is set when completing and cleared
// when reopening.
func (s *goalService) SetMilestoneCompleted(userID, goalID uint, index int, completed bool) (*models.Goal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(goal.Milestones) {
		return nil, apperrors.ErrMilestoneNotFound
	}

	milestone := &goal.Milestones[index]
	milestone.IsCompleted = completed
	if completed {
		now := time.Now()
		milestone.CompletedAt = &now
	} else {
		milestone.CompletedAt = nil
	}

	if err := s.db.Model(&models.Milestone{}).
		Where("id = ?", milestone.ID).
		Updates(map[string]interface{}{
			"is_completed": milestone.IsCompleted,
			"completed_at": milestone.CompletedAt,
		}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// GetGoalStats summarizes all the user's goals. Overdue counts goals whose
// derived status at the current time is overdue.
func (s *goalService) GetGoalStats(userID uint) (*GoalStats, error) {
	var goals []models.Goal
	if err := s.db.Where("user_id = ?", userID).Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	stats := &GoalStats{Total: int64(len(goals))}
	for i := range goals {
		g := &goals[i]
		if g.IsActive && !g.IsCompleted {
			stats.Active++
		}
		if g.IsCompleted {
			stats.Completed++
		}
		if derive.Status(g, now) == derive.GoalStatusOverdue {
			stats.Overdue++
		}
		stats.TotalTarget += g.TargetAmount
		stats.TotalCurrent += g.CurrentAmount
	}
	if stats.TotalTarget > 0 {
		stats.OverallProgress = stats.TotalCurrent / stats.TotalTarget * 100
	}

	return stats, nil
}

// applyCompletion enforces the completion invariant on an in-memory goal
// before it is first persisted. CompletedAt is only ever set once.
func applyCompletion(goal *models.Goal, now time.Time) {
	if goal.CurrentAmount >= goal.TargetAmount && !goal.IsCompleted {
		goal.IsCompleted = true
		goal.CompletedAt = &now
	}
}

// completeIfFunded marks a stored goal completed when its current amount has
// reached its target. The WHERE clause keeps the operation idempotent: a
// goal already completed is never touched, so CompletedAt survives re-saves.
func completeIfFunded(tx *gorm.DB, goalID uint, now time.Time) error {
	err := tx.Model(&models.Goal{}).
		Where("id = ? AND current_amount >= target_amount AND is_completed = ?", goalID, false).
		Updates(map[string]interface{}{
			"is_completed": true,
			"completed_at": now,
		}).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
