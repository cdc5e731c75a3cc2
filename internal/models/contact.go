package models

import "time"

type ContactType string

const (
	ContactTypeClient ContactType = "client"
	ContactTypeLead   ContactType = "lead"
	ContactTypeVendor ContactType = "vendor"
)

type ContactStatus string

const (
	ContactActive   ContactStatus = "active"
	ContactInactive ContactStatus = "inactive"
)

// Contact is a person or organisation in the address book.
type Contact struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Company   string        `json:"company"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Type      ContactType   `json:"type"`
	Location  string        `json:"location"`
	Status    ContactStatus `json:"status"`
	Favorite  bool          `json:"favorite"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type ContactFilter struct {
	Search string
	Type   ContactType
	Status ContactStatus
}
