package providers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"nwsclient/models"
)

const DefaultLimit = 500

// ListOptions filters a station listing. Zero values are omitted from the
// request, except Limit which defaults to DefaultLimit.
type ListOptions struct {
	// States are two-letter state or marine region codes; each is sent as
	// its own state parameter.
	States []string
	// Cursor continues a previous listing.
	Cursor string
	Limit  int
}

func (o ListOptions) params() url.Values {
	params := url.Values{}
	for _, s := range o.States {
		if s != "" {
			params.Add("state", s)
		}
	}
	if o.Cursor != "" {
		params.Set("cursor", o.Cursor)
	}
	limit := o.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	params.Set("limit", strconv.Itoa(limit))
	return params
}

// StationPage is one page of a listing in upstream order.
type StationPage struct {
	Stations   []*models.Station
	// NextCursor is empty when the API reported no further page.
	NextCursor string
}

// ListStations fetches one page of stations as JSON-LD and decodes it.
func (c *Client) ListStations(ctx context.Context, opts ListOptions) (*StationPage, error) {
	resp, err := c.Query(ctx, "/stations", MediaTypeLD, opts.params())
	if err != nil {
		return nil, err
	}
	return DecodeStationGraph(resp.Body)
}

// ListStationsRaw fetches one page of stations as geo-JSON and returns the
// body untouched. DecodeStationFeatures can turn it into stations.
func (c *Client) ListStationsRaw(ctx context.Context, opts ListOptions) ([]byte, error) {
	resp, err := c.Query(ctx, "/stations", MediaTypeGeo, opts.params())
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// WalkStations calls fn for every station, following pagination cursors
// until a page comes back empty, has no cursor or repeats one already seen.
// An error from fn stops the walk and is returned as is.
func (c *Client) WalkStations(ctx context.Context, opts ListOptions, fn func(*models.Station) error) error {
	seen := make(map[string]bool)
	if opts.Cursor != "" {
		seen[opts.Cursor] = true
	}

	for {
		page, err := c.ListStations(ctx, opts)
		if err != nil {
			return err
		}
		for _, st := range page.Stations {
			if err := fn(st); err != nil {
				return err
			}
		}

		if len(page.Stations) == 0 || page.NextCursor == "" || seen[page.NextCursor] {
			return nil
		}
		seen[page.NextCursor] = true
		opts.Cursor = page.NextCursor
	}
}

// StationDetail fetches a single station. A 404 is reported as a
// *NotFoundError.
func (c *Client) StationDetail(ctx context.Context, id string) (*models.Station, error) {
	st := models.NewStation(id)
	if err := c.Refresh(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Refresh loads the detail endpoint for st and overwrites all of its fields.
// A station without an identifier fails with a *DecodeError wrapping
// ErrMissingIdentifier before any request is made.
func (c *Client) Refresh(ctx context.Context, st *models.Station) error {
	if st.ID() == "" {
		return &DecodeError{Index: -1, Err: ErrMissingIdentifier}
	}

	resp, err := c.Query(ctx, "/stations/"+url.PathEscape(st.ID()), MediaTypeLD, nil)
	if err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) && upstream.StatusCode == http.StatusNotFound {
			return &NotFoundError{Resource: "station " + st.ID(), Upstream: upstream}
		}
		return err
	}

	rec, err := decodeStationDetail(resp.Body)
	if err != nil {
		return err
	}
	st.Update(rec.fields(), models.StateFull)
	return nil
}
