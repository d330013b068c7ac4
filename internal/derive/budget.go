package derive

import (
	"time"

	"fintrack/internal/models"
)

// BudgetStatus labels where a budget's window sits relative to now.
type BudgetStatus string

const (
	BudgetStatusUpcoming BudgetStatus = "upcoming"
	BudgetStatusActive   BudgetStatus = "active"
	BudgetStatusExpired  BudgetStatus = "expired"
)

// StatusOf derives a budget's status at the given time.
func StatusOf(b *models.Budget, now time.Time) BudgetStatus {
	if now.Before(b.StartDate) {
		return BudgetStatusUpcoming
	}
	if now.After(b.EndDate) {
		return BudgetStatusExpired
	}
	return BudgetStatusActive
}

// BudgetTimeRemaining buckets the days left until the budget's end date.
func BudgetTimeRemaining(b *models.Budget, now time.Time) TimeRemaining {
	days := daysUntil(b.EndDate, now)
	switch {
	case days < 0:
		return TimeRemaining{Days: 0, Status: "expired"}
	case days == 0:
		return TimeRemaining{Days: 0, Status: "ends_today"}
	case days <= 7:
		return TimeRemaining{Days: days, Status: "ending_soon"}
	default:
		return TimeRemaining{Days: days, Status: "active"}
	}
}

// BudgetView is a budget plus its derived fields, shaped for API responses.
// Spend-dependent figures live in BudgetPerformance, not here: this view is
// computable from the budget row alone.
type BudgetView struct {
	*models.Budget
	Status        BudgetStatus  `json:"status"`
	TimeRemaining TimeRemaining `json:"time_remaining"`
}

// NewBudgetView evaluates all budget derivations at the given time.
func NewBudgetView(b *models.Budget, now time.Time) BudgetView {
	return BudgetView{
		Budget:        b,
		Status:        StatusOf(b, now),
		TimeRemaining: BudgetTimeRemaining(b, now),
	}
}
