package models

import "time"

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

const (
	BudgetPeriodWeekly    BudgetPeriod = "weekly"
	BudgetPeriodMonthly   BudgetPeriod = "monthly"
	BudgetPeriodQuarterly BudgetPeriod = "quarterly"
	BudgetPeriodYearly    BudgetPeriod = "yearly"
)

// AlertThreshold is a spend percentage at which the owner wants to be
// notified. Thresholds are stored per budget and checked when expenses land
// in the budget's category.
type AlertThreshold struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	BudgetID   uint    `gorm:"not null;index" json:"-"`
	Percentage float64 `gorm:"not null" json:"percentage"`
	IsEnabled  bool    `gorm:"default:true" json:"is_enabled"`
}

// Budget represents a spending limit for a category over a date window.
// EndDate must be strictly after StartDate; the check runs on create and on
// every update.
type Budget struct {
	Base
	UserID          uint             `gorm:"not null;index" json:"user_id"`
	Name            string           `gorm:"not null" json:"name"`
	Category        string           `gorm:"not null;index" json:"category"`
	Amount          float64          `gorm:"not null" json:"amount"`
	Period          BudgetPeriod     `gorm:"not null;default:monthly" json:"period"`
	StartDate       time.Time        `gorm:"not null" json:"start_date"`
	EndDate         time.Time        `gorm:"not null" json:"end_date"`
	IsActive        bool             `gorm:"default:true" json:"is_active"`
	Notes           string           `json:"notes,omitempty"`
	AlertThresholds []AlertThreshold `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"alert_thresholds,omitempty"`
}
