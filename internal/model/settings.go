package model

import "time"

// Settings is the single configuration row. There is exactly one after
// initialization; reads that find none create the defaults instead of
// failing.
type Settings struct {
	ID uint `gorm:"primaryKey" json:"-"`

	// LeadDays is how many days before expiry a product counts as
	// "expiring soon" and when its reminder is targeted.
	LeadDays int `gorm:"default:3" json:"lead_days" validate:"min=0"`

	// Alert time of day for reminders, local time.
	AlertHour   int `gorm:"default:9" json:"alert_hour" validate:"min=0,max=23"`
	AlertMinute int `gorm:"default:0" json:"alert_minute" validate:"min=0,max=59"`

	UpdatedAt time.Time `json:"updated_at"`
}

// SettingsID pins the singleton row.
const SettingsID uint = 1

// DefaultSettings matches the original app behavior: warn 3 days ahead
// at 09:00.
func DefaultSettings() Settings {
	return Settings{ID: SettingsID, LeadDays: 3, AlertHour: 9, AlertMinute: 0}
}
