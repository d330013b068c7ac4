package models

import "time"

// Preferences holds per-user display preferences.
type Preferences struct {
	Currency   string `gorm:"default:USD" json:"currency"`
	DateFormat string `gorm:"default:MM/DD/YYYY" json:"date_format"`
}

// User represents the user model in the database. Users are never hard
// deleted: "delete account" flips IsActive to false so owned records keep a
// valid owner.
type User struct {
	Base
	Name        string      `gorm:"not null" json:"name"`
	Email       string      `gorm:"uniqueIndex;not null" json:"email"`
	Password    string      `gorm:"not null" json:"-"`
	IsActive    bool        `gorm:"default:true" json:"is_active"`
	Preferences Preferences `gorm:"embedded;embeddedPrefix:pref_" json:"preferences"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
}
