package models

import (
	"encoding/json"

	"nwsclient/measurement"
)

// State tracks how much of a station has been loaded from the API.
type State int

const (
	// StateUnfetched is a station known only by its identifier.
	StateUnfetched State = iota
	// StatePartial is a station decoded from a listing page.
	StatePartial
	// StateFull is a station loaded from its own detail endpoint.
	StateFull
)

func (s State) String() string {
	switch s {
	case StateUnfetched:
		return "unfetched"
	case StatePartial:
		return "partial"
	case StateFull:
		return "full"
	default:
		return "unknown"
	}
}

// StationFields are the attributes of a station other than its identifier.
// Empty strings and nil pointers mean the field was not reported.
type StationFields struct {
	Geometry        *Geometry
	Elevation       *measurement.Value
	Name            string
	TimeZone        string
	Forecast        string
	County          string
	FireWeatherZone string
}

// Station is an NWS observation station, a snapshot of remote state at
// fetch time.
type Station struct {
	StationFields

	id    string
	state State
}

// NewStation returns an unfetched station.
func NewStation(id string) *Station {
	return &Station{id: id}
}

// ID returns the station identifier, e.g. "KSEA".
func (s *Station) ID() string {
	return s.id
}

func (s *Station) State() State {
	return s.state
}

// Update replaces every field with f. The state never moves backwards, so a
// listing snapshot applied after a detail fetch keeps the station full.
func (s *Station) Update(f StationFields, state State) {
	s.StationFields = f
	if state > s.state {
		s.state = state
	}
}

func (s *Station) String() string {
	return "Station(" + s.id + ")"
}

type stationJSON struct {
	ID              string             `json:"id"`
	State           string             `json:"state"`
	Name            string             `json:"name,omitempty"`
	Geometry        *Geometry          `json:"geometry,omitempty"`
	Elevation       *measurement.Field `json:"elevation,omitempty"`
	TimeZone        string             `json:"timeZone,omitempty"`
	Forecast        string             `json:"forecast,omitempty"`
	County          string             `json:"county,omitempty"`
	FireWeatherZone string             `json:"fireWeatherZone,omitempty"`
}

func (s *Station) MarshalJSON() ([]byte, error) {
	out := stationJSON{
		ID:              s.id,
		State:           s.state.String(),
		Name:            s.Name,
		Geometry:        s.Geometry,
		TimeZone:        s.TimeZone,
		Forecast:        s.Forecast,
		County:          s.County,
		FireWeatherZone: s.FireWeatherZone,
	}
	if s.Elevation != nil {
		f := measurement.FieldOf(*s.Elevation)
		out.Elevation = &f
	}
	return json.Marshal(out)
}
