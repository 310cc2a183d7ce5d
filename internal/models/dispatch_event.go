package models

import (
	"time"
)

// DispatchEvent is one audit record of a successful responder assignment.
// Events are append-only: written once to the dispatch log, never updated.
type DispatchEvent struct {
	Time             time.Time `json:"time"`
	ResponderName    string    `json:"responder_name"`
	ResponderContact string    `json:"responder_contact"`
	ReportID         string    `json:"report_id"`
	EmergencyType    string    `json:"emergency_type"`
}
