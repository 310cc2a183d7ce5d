package models

// GeoPoint is a pair of WGS84 coordinates in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Responder is a roster entry: an organization able to handle one or more
// emergency types from a fixed location. Entries are loaded once at startup
// and never mutated afterwards.
type Responder struct {
	Name     string   `json:"name"`
	Contact  string   `json:"contact"`
	Types    []string `json:"types"`
	Location GeoPoint `json:"location"`
}
