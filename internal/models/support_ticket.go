package models

import "time"

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in-progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

type TicketPriority string

const (
	PriorityLow      TicketPriority = "low"
	PriorityMedium   TicketPriority = "medium"
	PriorityHigh     TicketPriority = "high"
	PriorityCritical TicketPriority = "critical"
)

// Priorities lists ticket priorities from lowest to highest.
var Priorities = []TicketPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

func (p TicketPriority) Valid() bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

type SupportTicket struct {
	ID          int64          `json:"id"`
	Subject     string         `json:"subject"`
	Customer    string         `json:"customer"`
	Company     string         `json:"company"`
	Status      TicketStatus   `json:"status"`
	Priority    TicketPriority `json:"priority"`
	Description string         `json:"description"`
	AssignedTo  string         `json:"assigned_to"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type TicketFilter struct {
	Search   string
	Status   TicketStatus
	Priority TicketPriority
}
