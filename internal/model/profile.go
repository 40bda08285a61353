package model

import "time"

// Profile holds the per-user settings shown on the settings screen.
// One row per user, upserted on save.
type Profile struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	CompanyName string    `json:"company_name"`
	Phone       string    `json:"phone"`
	UpdatedAt   time.Time `json:"updated_at"`
}
