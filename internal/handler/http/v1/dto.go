package v1

import (
	"time"

	"github.com/google/uuid"
)

// ReporterDTO identifies the citizen submitting a report
// @Description Reporter identity attached to a report
type ReporterDTO struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Info  string `json:"info,omitempty"`
}

// LocationDTO is a coordinate pair in degrees
// @Description Coordinate pair in degrees
type LocationDTO struct {
	Lat float64 `json:"lat" validate:"required,latitude"`
	Lon float64 `json:"lon" validate:"required,longitude"`
}

// CreateReportRequest DTO for submitting an emergency report
// @Description DTO for submitting an emergency report
type CreateReportRequest struct {
	Type        string      `json:"type" validate:"required"`
	Description string      `json:"description" validate:"required"`
	Reporter    ReporterDTO `json:"reporter" validate:"required"`
	Location    LocationDTO `json:"location" validate:"required"`
	Priority    string      `json:"priority,omitempty"`
}

// UpdateReportStatusRequest DTO for the status transition of a report
// @Description DTO for the status transition of a report
type UpdateReportStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ReportResponse DTO with full report details
// @Description DTO with full report details
type ReportResponse struct {
	ID              string      `json:"id"`
	Type            string      `json:"type"`
	Description     string      `json:"description"`
	Reporter        ReporterDTO `json:"reporter"`
	Location        LocationDTO `json:"location"`
	Priority        string      `json:"priority"`
	AssignedTo      string      `json:"assignedTo"`
	AssignedContact string      `json:"assignedContact"`
	Distance        string      `json:"distance"`
	Status          string      `json:"status"`
	Date            string      `json:"date"`
	Time            string      `json:"time"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// ResponderDTO is the public view of an assigned responder
// @Description Public view of an assigned responder
type ResponderDTO struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// CreateReportResponse DTO for the outcome of a report submission
// @Description DTO for the outcome of a report submission
type CreateReportResponse struct {
	Outcome   string          `json:"outcome"`
	Message   string          `json:"message,omitempty"`
	Responder *ResponderDTO   `json:"responder,omitempty"`
	Report    *ReportResponse `json:"report"`
}

// SignupRequest DTO for account registration
// @Description DTO for account registration
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest DTO for credential check
// @Description DTO for credential check
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse DTO with account details, password hash excluded
// @Description DTO with account details
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	LastLogin time.Time `json:"lastLogin"`
	CreatedAt time.Time `json:"createdAt"`
}

// StatsResponse DTO with the dashboard counters
// @Description DTO with the dashboard counters
type StatsResponse struct {
	RegisteredUsers    int `json:"registeredUsers"`
	TotalReports       int `json:"totalReports"`
	ActiveAlerts       int `json:"activeAlerts"`
	ResolvedCases      int `json:"resolvedCases"`
	OngoingEmergencies int `json:"ongoingEmergencies"`
}
