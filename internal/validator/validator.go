// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validCurrencies are the currencies selectable in user preferences.
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CAD": true, "AUD": true, "INR": true,
}

// validDateFormats are the date formats selectable in user preferences.
var validDateFormats = map[string]bool{
	"MM/DD/YYYY": true, "DD/MM/YYYY": true, "YYYY-MM-DD": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("payment_method", validatePaymentMethod)
		_ = v.RegisterValidation("recurring_frequency", validateRecurringFrequency)
		_ = v.RegisterValidation("budget_period", validateBudgetPeriod)
		_ = v.RegisterValidation("goal_type", validateGoalType)
		_ = v.RegisterValidation("goal_priority", validateGoalPriority)
		_ = v.RegisterValidation("contribution_source", validateContributionSource)
		_ = v.RegisterValidation("currency_pref", validateCurrencyPref)
		_ = v.RegisterValidation("date_format_pref", validateDateFormatPref)
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "cash", "credit_card", "debit_card", "bank_transfer", "digital_wallet", "check", "other":
		return true
	}
	return false
}

func validateRecurringFrequency(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "daily", "weekly", "monthly", "yearly":
		return true
	}
	return false
}

func validateBudgetPeriod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "weekly", "monthly", "quarterly", "yearly":
		return true
	}
	return false
}

func validateGoalType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "savings", "debt_payment", "investment", "purchase", "emergency_fund", "other":
		return true
	}
	return false
}

func validateGoalPriority(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "low", "medium", "high", "urgent":
		return true
	}
	return false
}

func validateContributionSource(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "manual", "automatic", "transfer":
		return true
	}
	return false
}

func validateCurrencyPref(fl validator.FieldLevel) bool {
	return validCurrencies[fl.Field().String()]
}

func validateDateFormatPref(fl validator.FieldLevel) bool {
	return validDateFormats[fl.Field().String()]
}
