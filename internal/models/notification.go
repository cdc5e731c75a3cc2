package models

import "time"

// Notification kinds. Toasts stay on dashboards; the others also go to
// external channels.
const (
	KindToast   = "toast"
	KindDealWon = "deal_won"
	KindOverdue = "overdue_digest"
)

const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelError   = "error"
)

// Notification is a user-facing message fanned out to dashboards and
// external channels.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Level     string    `json:"level"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}
