// Package derive computes read-only views from persisted entity fields.
// Every function is pure: it takes an entity snapshot plus an explicit
// current time and performs no I/O, so results are fully deterministic and
// nothing here is ever written back to the store.
package derive

import (
	"math"
	"time"

	"fintrack/internal/models"
)

// GoalStatus labels where a goal stands relative to its target.
type GoalStatus string

const (
	GoalStatusCompleted    GoalStatus = "completed"
	GoalStatusAchieved     GoalStatus = "achieved"
	GoalStatusOverdue      GoalStatus = "overdue"
	GoalStatusAlmostThere  GoalStatus = "almost_there"
	GoalStatusGoodProgress GoalStatus = "good_progress"
	GoalStatusJustStarted  GoalStatus = "just_started"
)

// TimeRemaining buckets the days left before a deadline.
type TimeRemaining struct {
	Days   int    `json:"days"`
	Status string `json:"status"`
}

// GoalProgress reports how far a goal has come. The percentage is capped at
// 100 for display; callers needing the raw overage must compare amounts.
type GoalProgress struct {
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`
	Target     float64 `json:"target"`
	Remaining  float64 `json:"remaining"`
}

// Progress computes a goal's progress toward its target amount.
func Progress(g *models.Goal) GoalProgress {
	var pct float64
	if g.TargetAmount > 0 {
		pct = math.Min(g.CurrentAmount/g.TargetAmount*100, 100)
	}
	return GoalProgress{
		Percentage: pct,
		Amount:     g.CurrentAmount,
		Target:     g.TargetAmount,
		Remaining:  math.Max(g.TargetAmount-g.CurrentAmount, 0),
	}
}

// Status derives a goal's status at the given time. Precedence is fixed:
// completed > achieved > overdue > percentage buckets, so an overdue goal at
// 95% reads as overdue, never almost_there.
func Status(g *models.Goal, now time.Time) GoalStatus {
	if g.IsCompleted {
		return GoalStatusCompleted
	}
	if g.CurrentAmount >= g.TargetAmount {
		return GoalStatusAchieved
	}
	if now.After(g.TargetDate) {
		return GoalStatusOverdue
	}
	switch pct := Progress(g).Percentage; {
	case pct >= 90:
		return GoalStatusAlmostThere
	case pct >= 50:
		return GoalStatusGoodProgress
	default:
		return GoalStatusJustStarted
	}
}

// GoalTimeRemaining buckets the days left until the goal's target date.
func GoalTimeRemaining(g *models.Goal, now time.Time) TimeRemaining {
	days := daysUntil(g.TargetDate, now)
	switch {
	case days < 0:
		return TimeRemaining{Days: 0, Status: "overdue"}
	case days == 0:
		return TimeRemaining{Days: 0, Status: "due_today"}
	case days <= 7:
		return TimeRemaining{Days: days, Status: "due_soon"}
	case days <= 30:
		return TimeRemaining{Days: days, Status: "due_this_month"}
	default:
		return TimeRemaining{Days: days, Status: "plenty_of_time"}
	}
}

// SuggestedMonthlyContribution returns how much to put aside each month to
// reach the target on time, using 30-day months. Returns 0 once the target
// date has passed.
func SuggestedMonthlyContribution(g *models.Goal, now time.Time) float64 {
	months := int(math.Ceil(g.TargetDate.Sub(now).Hours() / 24 / 30))
	if months <= 0 {
		return 0
	}
	remaining := g.TargetAmount - g.CurrentAmount
	if remaining <= 0 {
		return 0
	}
	return math.Ceil(remaining / float64(months))
}

// GoalView is a goal plus its derived fields, shaped for API responses.
type GoalView struct {
	*models.Goal
	Progress                     GoalProgress  `json:"progress"`
	Status                       GoalStatus    `json:"status"`
	TimeRemaining                TimeRemaining `json:"time_remaining"`
	SuggestedMonthlyContribution float64       `json:"suggested_monthly_contribution"`
}

// NewGoalView evaluates all goal derivations at the given time.
func NewGoalView(g *models.Goal, now time.Time) GoalView {
	return GoalView{
		Goal:                         g,
		Progress:                     Progress(g),
		Status:                       Status(g, now),
		TimeRemaining:                GoalTimeRemaining(g, now),
		SuggestedMonthlyContribution: SuggestedMonthlyContribution(g, now),
	}
}

// daysUntil returns the whole days from now until the deadline, rounding any
// partial day up. A deadline less than a day in the past still rounds to 0,
// so it buckets as due today rather than overdue.
func daysUntil(deadline, now time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}
