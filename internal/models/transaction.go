package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// PaymentMethod represents how a transaction was paid.
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodCreditCard    PaymentMethod = "credit_card"
	PaymentMethodDebitCard     PaymentMethod = "debit_card"
	PaymentMethodBankTransfer  PaymentMethod = "bank_transfer"
	PaymentMethodDigitalWallet PaymentMethod = "digital_wallet"
	PaymentMethodCheck         PaymentMethod = "check"
	PaymentMethodOther         PaymentMethod = "other"
)

// RecurringFrequency is the repeat cadence of a recurring transaction.
type RecurringFrequency string

const (
	RecurringDaily   RecurringFrequency = "daily"
	RecurringWeekly  RecurringFrequency = "weekly"
	RecurringMonthly RecurringFrequency = "monthly"
	RecurringYearly  RecurringFrequency = "yearly"
)

// RecurringPattern describes how a recurring transaction repeats.
// NextDueDate is recorded at creation; nothing in the system advances it.
type RecurringPattern struct {
	Frequency   RecurringFrequency `json:"frequency,omitempty"`
	Interval    int                `json:"interval,omitempty"`
	EndDate     *time.Time         `json:"end_date,omitempty"`
	NextDueDate *time.Time         `json:"next_due_date,omitempty"`
}

// Transaction represents a single income or expense record. UserID is set at
// creation and never changed by any update path.
type Transaction struct {
	Base
	UserID        uint             `gorm:"not null;index" json:"user_id"`
	Type          TransactionType  `gorm:"not null;index" json:"type"`
	Amount        float64          `gorm:"not null" json:"amount"`
	Description   string           `gorm:"not null" json:"description"`
	Category      string           `gorm:"not null;index" json:"category"`
	Subcategory   string           `json:"subcategory,omitempty"`
	Date          time.Time        `gorm:"not null;index" json:"date"`
	PaymentMethod PaymentMethod    `gorm:"default:cash" json:"payment_method"`
	Tags          []string         `gorm:"serializer:json" json:"tags,omitempty"`
	IsRecurring   bool             `gorm:"default:false" json:"is_recurring"`
	Recurring     RecurringPattern `gorm:"embedded;embeddedPrefix:recurring_" json:"recurring_pattern,omitempty"`
	IsVerified    bool             `gorm:"default:false" json:"is_verified"`
}
