package models

import "time"

// GoalType classifies what a goal is saving toward.
type GoalType string

const (
	GoalTypeSavings       GoalType = "savings"
	GoalTypeDebtPayment   GoalType = "debt_payment"
	GoalTypeInvestment    GoalType = "investment"
	GoalTypePurchase      GoalType = "purchase"
	GoalTypeEmergencyFund GoalType = "emergency_fund"
	GoalTypeOther         GoalType = "other"
)

// Valid reports whether t is one of the known goal types.
func (t GoalType) Valid() bool {
	switch t {
	case GoalTypeSavings, GoalTypeDebtPayment, GoalTypeInvestment,
		GoalTypePurchase, GoalTypeEmergencyFund, GoalTypeOther:
		return true
	}
	return false
}

// GoalPriority orders goals by importance.
type GoalPriority string

const (
	GoalPriorityLow    GoalPriority = "low"
	GoalPriorityMedium GoalPriority = "medium"
	GoalPriorityHigh   GoalPriority = "high"
	GoalPriorityUrgent GoalPriority = "urgent"
)

// ContributionSource records where a contribution came from.
type ContributionSource string

const (
	ContributionSourceManual    ContributionSource = "manual"
	ContributionSourceAutomatic ContributionSource = "automatic"
	ContributionSourceTransfer  ContributionSource = "transfer"
)

// Milestone is an intermediate checkpoint on the way to a goal's target.
type Milestone struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	GoalID       uint       `gorm:"not null;index" json:"-"`
	Name         string     `gorm:"not null" json:"name"`
	TargetAmount float64    `gorm:"not null" json:"target_amount"`
	IsCompleted  bool       `gorm:"default:false" json:"is_completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// Contribution is a single payment toward a goal. Rows are appended by the
// contribute operation in the same database transaction that increments the
// goal's current amount.
type Contribution struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	GoalID      uint               `gorm:"not null;index" json:"-"`
	Amount      float64            `gorm:"not null" json:"amount"`
	Date        time.Time          `gorm:"not null" json:"date"`
	Description string             `json:"description,omitempty"`
	Source      ContributionSource `gorm:"default:manual" json:"source"`
}

// Goal represents a savings target. Once CurrentAmount reaches TargetAmount
// the goal is marked completed; CompletedAt is set exactly once.
type Goal struct {
	Base
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	Name          string         `gorm:"not null" json:"name"`
	Type          GoalType       `gorm:"not null;default:savings" json:"type"`
	TargetAmount  float64        `gorm:"not null" json:"target_amount"`
	CurrentAmount float64        `gorm:"default:0" json:"current_amount"`
	TargetDate    time.Time      `gorm:"not null" json:"target_date"`
	StartDate     time.Time      `gorm:"not null" json:"start_date"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	IsCompleted   bool           `gorm:"default:false;index" json:"is_completed"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
	Priority      GoalPriority   `gorm:"default:medium" json:"priority"`
	Milestones    []Milestone    `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE" json:"milestones,omitempty"`
	Contributions []Contribution `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE" json:"contributions,omitempty"`
}
