package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Geometry is a GeoJSON point. Coordinates are [longitude, latitude].
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// NewPoint returns a Point geometry.
func NewPoint(lon, lat float64) *Geometry {
	return &Geometry{Type: "Point", Coordinates: []float64{lon, lat}}
}

func (g *Geometry) Longitude() float64 {
	if len(g.Coordinates) < 1 {
		return 0
	}
	return g.Coordinates[0]
}

func (g *Geometry) Latitude() float64 {
	if len(g.Coordinates) < 2 {
		return 0
	}
	return g.Coordinates[1]
}

// ParseWKT parses the well-known-text form used by the JSON-LD encoding,
// e.g. "POINT(-122.31 47.44)".
func ParseWKT(s string) (*Geometry, error) {
	s = strings.TrimSpace(s)
	upper := strings.ToUpper(s)
	if !strings.HasPrefix(upper, "POINT") {
		return nil, fmt.Errorf("unsupported WKT geometry %q", s)
	}

	body := strings.TrimSpace(s[len("POINT"):])
	if !strings.HasPrefix(body, "(") || !strings.HasSuffix(body, ")") {
		return nil, fmt.Errorf("malformed WKT point %q", s)
	}

	parts := strings.Fields(body[1 : len(body)-1])
	if len(parts) != 2 {
		return nil, fmt.Errorf("WKT point %q: want 2 coordinates, got %d", s, len(parts))
	}

	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, fmt.Errorf("WKT point %q: longitude: %w", s, err)
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, fmt.Errorf("WKT point %q: latitude: %w", s, err)
	}
	return NewPoint(lon, lat), nil
}

// WKT renders the geometry as well-known text.
func (g *Geometry) WKT() string {
	return fmt.Sprintf("POINT(%s %s)",
		strconv.FormatFloat(g.Longitude(), 'f', -1, 64),
		strconv.FormatFloat(g.Latitude(), 'f', -1, 64))
}

// UnmarshalJSON accepts both a WKT string and a GeoJSON object.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseWKT(s)
		if err != nil {
			return err
		}
		*g = *parsed
		return nil
	}

	type plain Geometry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("geometry: %w", err)
	}
	if p.Type != "Point" {
		return fmt.Errorf("unsupported geometry type %q", p.Type)
	}
	if len(p.Coordinates) < 2 {
		return fmt.Errorf("point geometry: want 2 coordinates, got %d", len(p.Coordinates))
	}
	*g = Geometry(p)
	return nil
}
