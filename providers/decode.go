package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"nwsclient/measurement"
	"nwsclient/models"
)

// stationRecord holds the keys shared by JSON-LD graph entries, detail
// bodies and geo-JSON feature properties. Every key is optional except the
// identifier.
type stationRecord struct {
	StationIdentifier string
	Geometry          *models.Geometry
	Elevation         *measurement.Field
	Name              string
	TimeZone          string
	Forecast          string
	County            string
	FireWeatherZone   string
}

var errNotObject = errors.New("record is not an object")

func (r *stationRecord) fields() models.StationFields {
	f := models.StationFields{
		Geometry:        r.Geometry,
		Name:            r.Name,
		TimeZone:        r.TimeZone,
		Forecast:        r.Forecast,
		County:          r.County,
		FireWeatherZone: r.FireWeatherZone,
	}
	if r.Elevation != nil {
		if v, ok := r.Elevation.ToValue(); ok {
			f.Elevation = &v
		}
	}
	return f
}

// decodeRecord requires a JSON object with a non-empty string
// stationIdentifier. Every other key is decoded on its own and left unset
// when it is absent or has an unexpected shape.
func decodeRecord(raw json.RawMessage) (*stationRecord, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, errNotObject
	}
	if keys == nil {
		return nil, errNotObject
	}

	rec := &stationRecord{}
	if err := json.Unmarshal(keys["stationIdentifier"], &rec.StationIdentifier); err != nil || rec.StationIdentifier == "" {
		return nil, ErrMissingIdentifier
	}

	rec.Geometry = softGeometry(keys["geometry"])
	softDecode(keys["elevation"], &rec.Elevation)
	softDecode(keys["name"], &rec.Name)
	softDecode(keys["timeZone"], &rec.TimeZone)
	softDecode(keys["forecast"], &rec.Forecast)
	softDecode(keys["county"], &rec.County)
	softDecode(keys["fireWeatherZone"], &rec.FireWeatherZone)
	return rec, nil
}

// softDecode unmarshals raw into a fresh T and stores it in dst only on
// success, so a mistyped key never leaves a partial value behind.
func softDecode[T any](raw json.RawMessage, dst *T) {
	if len(raw) == 0 {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}

func softGeometry(raw json.RawMessage) *models.Geometry {
	var g *models.Geometry
	softDecode(raw, &g)
	return g
}

type pagination struct {
	Next string `json:"next"`
}

// cursor extracts the cursor parameter from a pagination link.
func (p *pagination) cursor() (string, error) {
	if p == nil || p.Next == "" {
		return "", nil
	}
	u, err := url.Parse(p.Next)
	if err != nil {
		return "", fmt.Errorf("pagination link %q: %w", p.Next, err)
	}
	return u.Query().Get("cursor"), nil
}

type graphBody struct {
	Graph      *[]json.RawMessage `json:"@graph"`
	Pagination *pagination        `json:"pagination"`
}

// DecodeStationGraph decodes a JSON-LD listing body. Stations keep the order
// of the @graph array. A record that is not an object or lacks a string
// stationIdentifier fails the whole batch with a *DecodeError carrying its
// index. Any other key that is missing or mistyped leaves its field unset.
func DecodeStationGraph(body []byte) (*StationPage, error) {
	var doc graphBody
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &DecodeError{Index: -1, Err: err}
	}
	if doc.Graph == nil {
		return nil, &DecodeError{Index: -1, Err: errors.New("missing @graph")}
	}

	page := &StationPage{Stations: make([]*models.Station, 0, len(*doc.Graph))}
	for i, raw := range *doc.Graph {
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, &DecodeError{Index: i, Err: err}
		}
		st := models.NewStation(rec.StationIdentifier)
		st.Update(rec.fields(), models.StatePartial)
		page.Stations = append(page.Stations, st)
	}

	cursor, err := doc.Pagination.cursor()
	if err != nil {
		return nil, &DecodeError{Index: -1, Err: err}
	}
	page.NextCursor = cursor
	return page, nil
}

type featureCollection struct {
	Features   *[]json.RawMessage `json:"features"`
	Pagination *pagination        `json:"pagination"`
}

type feature struct {
	Geometry   json.RawMessage `json:"geometry"`
	Properties json.RawMessage `json:"properties"`
}

// DecodeStationFeatures decodes a geo-JSON FeatureCollection, the body
// returned by ListStationsRaw. It follows the same policy as
// DecodeStationGraph.
func DecodeStationFeatures(body []byte) (*StationPage, error) {
	var doc featureCollection
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &DecodeError{Index: -1, Err: err}
	}
	if doc.Features == nil {
		return nil, &DecodeError{Index: -1, Err: errors.New("missing features")}
	}

	page := &StationPage{Stations: make([]*models.Station, 0, len(*doc.Features))}
	for i, raw := range *doc.Features {
		var feat feature
		if err := json.Unmarshal(raw, &feat); err != nil {
			return nil, &DecodeError{Index: i, Err: errNotObject}
		}
		if len(feat.Properties) == 0 {
			return nil, &DecodeError{Index: i, Err: errors.New("missing properties")}
		}
		rec, err := decodeRecord(feat.Properties)
		if err != nil {
			return nil, &DecodeError{Index: i, Err: err}
		}
		if g := softGeometry(feat.Geometry); g != nil {
			rec.Geometry = g
		}
		st := models.NewStation(rec.StationIdentifier)
		st.Update(rec.fields(), models.StatePartial)
		page.Stations = append(page.Stations, st)
	}

	cursor, err := doc.Pagination.cursor()
	if err != nil {
		return nil, &DecodeError{Index: -1, Err: err}
	}
	page.NextCursor = cursor
	return page, nil
}

// decodeStationDetail decodes a single-station JSON-LD body.
func decodeStationDetail(body []byte) (*stationRecord, error) {
	rec, err := decodeRecord(body)
	if err != nil {
		return nil, &DecodeError{Index: -1, Err: err}
	}
	return rec, nil
}
