package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoster() *Roster {
	return New([]models.Responder{
		{
			Name:     "Alpha Fire Station",
			Contact:  "+1-555-0101",
			Types:    []string{"fire"},
			Location: models.GeoPoint{Lat: 10, Lon: 10},
		},
		{
			Name:     "Beta Fire Station",
			Contact:  "+1-555-0102",
			Types:    []string{"Fire", "accident"},
			Location: models.GeoPoint{Lat: 10, Lon: 10.1},
		},
		{
			Name:     "City Hospital",
			Contact:  "+1-555-0103",
			Types:    []string{"medical"},
			Location: models.GeoPoint{Lat: 10.5, Lon: 10.5},
		},
	})
}

func TestFindNearest_PicksClosest(t *testing.T) {
	r := testRoster()

	match := r.FindNearest("fire", 10, 10)

	require.NotNil(t, match)
	assert.Equal(t, "Alpha Fire Station", match.Responder.Name)
	assert.InDelta(t, 0, match.DistanceKM, 1e-9)
}

func TestFindNearest_CaseInsensitiveType(t *testing.T) {
	r := testRoster()

	// Beta declares "Fire" with a capital letter and is the only
	// responder for "accident"
	match := r.FindNearest("FIRE", 10, 10.1)
	require.NotNil(t, match)
	assert.Equal(t, "Beta Fire Station", match.Responder.Name)

	match = r.FindNearest("Accident", 10, 10)
	require.NotNil(t, match)
	assert.Equal(t, "Beta Fire Station", match.Responder.Name)
}

func TestFindNearest_NoCapableResponder(t *testing.T) {
	r := testRoster()

	assert.Nil(t, r.FindNearest("flood", 10, 10))
}

func TestFindNearest_EmptyRoster(t *testing.T) {
	r := New(nil)

	assert.Nil(t, r.FindNearest("fire", 10, 10))
}

func TestFindNearest_TieResolvesToRosterOrder(t *testing.T) {
	r := New([]models.Responder{
		{Name: "First", Types: []string{"fire"}, Location: models.GeoPoint{Lat: 10, Lon: 10}},
		{Name: "Second", Types: []string{"fire"}, Location: models.GeoPoint{Lat: 10, Lon: 10}},
	})

	match := r.FindNearest("fire", 12, 12)

	require.NotNil(t, match)
	assert.Equal(t, "First", match.Responder.Name)
}

func TestFindNearest_DoesNotMutateRoster(t *testing.T) {
	responders := []models.Responder{
		{Name: "Alpha", Types: []string{"fire"}, Location: models.GeoPoint{Lat: 10, Lon: 10}},
	}
	r := New(responders)

	first := r.FindNearest("fire", 20, 20)
	second := r.FindNearest("fire", 10, 10)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Greater(t, first.DistanceKM, second.DistanceKM)
	assert.Equal(t, models.GeoPoint{Lat: 10, Lon: 10}, responders[0].Location)
}

func TestLoad_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responders.json")
	content := `[
		{"name": "Alpha", "contact": "+1-555-0101", "types": ["fire"], "location": {"lat": 10, "lon": 10}},
		{"name": "Beta", "contact": "+1-555-0102", "types": ["medical"], "location": {"lat": 11, "lon": 11}}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	match := r.FindNearest("medical", 11, 11)
	require.NotNil(t, match)
	assert.Equal(t, "Beta", match.Responder.Name)
}

func TestLoad_MissingFileDegradesToEmptyRoster(t *testing.T) {
	r, err := Load(filepath.Join(t.TempDir(), "nope.json"))

	require.Error(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.FindNearest("fire", 10, 10))
}

func TestLoad_MalformedFileDegradesToEmptyRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responders.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "a list"`), 0o644))

	r, err := Load(path)

	require.Error(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 0, r.Len())
}
