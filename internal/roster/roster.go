package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shenikar/emergency_response_system/internal/geo"
	"github.com/shenikar/emergency_response_system/internal/models"
)

// Match pairs a roster responder with the distance computed for one query.
// The distance lives here, not on the responder, so concurrent lookups
// never touch shared roster state.
type Match struct {
	Responder  *models.Responder
	DistanceKM float64
}

// Roster is the read-only responder catalogue, loaded once at startup.
type Roster struct {
	responders []models.Responder
}

// New builds a roster from an already-decoded responder list.
func New(responders []models.Responder) *Roster {
	return &Roster{responders: responders}
}

// Load reads the responder list from a JSON file. On any read or decode
// error it returns an empty roster together with the error: the caller is
// expected to log the failure and keep serving without dispatch coverage.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return New(nil), fmt.Errorf("failed to read responders file: %w", err)
	}

	var responders []models.Responder
	if err := json.Unmarshal(data, &responders); err != nil {
		return New(nil), fmt.Errorf("failed to parse responders file: %w", err)
	}

	return New(responders), nil
}

// Len returns the number of responders in the roster.
func (r *Roster) Len() int {
	return len(r.responders)
}

// FindNearest returns the closest responder able to handle the given
// emergency type, or nil when no roster entry supports it. Type matching
// is case-insensitive. Equal distances resolve to roster order, so the
// result is deterministic for a fixed roster file.
func (r *Roster) FindNearest(emergencyType string, lat, lon float64) *Match {
	var best *Match
	for i := range r.responders {
		resp := &r.responders[i]
		if !handlesType(resp, emergencyType) {
			continue
		}

		dist := geo.Distance(lat, lon, resp.Location.Lat, resp.Location.Lon)
		if best == nil || dist < best.DistanceKM {
			best = &Match{Responder: resp, DistanceKM: dist}
		}
	}
	return best
}

func handlesType(resp *models.Responder, emergencyType string) bool {
	for _, t := range resp.Types {
		if strings.EqualFold(t, emergencyType) {
			return true
		}
	}
	return false
}
