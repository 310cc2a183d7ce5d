package models

import (
	"time"
)

// Report statuses produced by this system. Externally-introduced status
// values are stored as-is.
const (
	StatusActive   = "active"
	StatusResolved = "resolved"
)

// Priority values; anything else is coerced to PriorityMedium on create.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Placeholder assignment values for reports no responder could take.
const (
	Unassigned = "Unassigned"
	NoContact  = "N/A"
	NoDistance = "Not available"
)

// Reporter identifies the citizen who submitted a report.
type Reporter struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Info  string `json:"info,omitempty"`
}

// Report is a single emergency report with its assignment outcome.
// Assignment fields are stamped once at creation and never revised.
type Report struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Description     string    `json:"description"`
	Reporter        Reporter  `json:"reporter"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Priority        string    `json:"priority"`
	AssignedTo      string    `json:"assigned_to"`
	AssignedContact string    `json:"assigned_contact"`
	Distance        string    `json:"distance"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}
