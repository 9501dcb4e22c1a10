package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"nwsclient/models"
	"nwsclient/providers"
)

type stubService struct {
	gotOpts providers.ListOptions
	gotID   string
	page    *providers.StationPage
	station *models.Station
	err     error
}

func (s *stubService) ListStations(ctx context.Context, opts providers.ListOptions) (*providers.StationPage, error) {
	s.gotOpts = opts
	if s.err != nil {
		return nil, s.err
	}
	return s.page, nil
}

func (s *stubService) StationDetail(ctx context.Context, id string) (*models.Station, error) {
	s.gotID = id
	if s.err != nil {
		return nil, s.err
	}
	return s.station, nil
}

func newTestServer(t *testing.T, svc StationService) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(New(svc, logger, 5*time.Second))
	t.Cleanup(ts.Close)
	return ts
}

func mustGetJSON[T any](t *testing.T, url string, out *T) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &stubService{})

	var body map[string]string
	resp := mustGetJSON(t, ts.URL+"/api/health", &body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusOK)
	}
	if body["status"] != "ok" {
		t.Errorf("body.status=%q want=%q", body["status"], "ok")
	}
	if resp.Header.Get(requestIDHeader) == "" {
		t.Error("response has no X-Request-ID")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts := newTestServer(t, &stubService{})

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/health", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set(requestIDHeader, "abc-123")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get(requestIDHeader); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want %q", got, "abc-123")
	}
}

func TestListStations(t *testing.T) {
	sea := models.NewStation("KSEA")
	sea.Update(models.StationFields{Name: "Seattle"}, models.StatePartial)
	svc := &stubService{page: &providers.StationPage{
		Stations:   []*models.Station{sea, models.NewStation("KPDX")},
		NextCursor: "c2",
	}}
	ts := newTestServer(t, svc)

	var body struct {
		Stations []map[string]any `json:"stations"`
		Next     string           `json:"next_cursor"`
	}
	resp := mustGetJSON(t, ts.URL+"/api/stations?state=wa,or&state=ID&cursor=c1&limit=2", &body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusOK)
	}
	if len(body.Stations) != 2 || body.Stations[0]["id"] != "KSEA" || body.Stations[0]["name"] != "Seattle" {
		t.Errorf("stations = %v", body.Stations)
	}
	if body.Next != "c2" {
		t.Errorf("next_cursor = %q, want c2", body.Next)
	}

	want := providers.ListOptions{States: []string{"WA", "OR", "ID"}, Cursor: "c1", Limit: 2}
	if !reflect.DeepEqual(svc.gotOpts, want) {
		t.Errorf("opts = %+v, want %+v", svc.gotOpts, want)
	}
}

func TestListStations_BadLimit(t *testing.T) {
	ts := newTestServer(t, &stubService{})

	var body models.ErrorResponse
	resp := mustGetJSON(t, ts.URL+"/api/stations?limit=lots", &body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status=%d want=%d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestStationDetail(t *testing.T) {
	st := models.NewStation("KBOI")
	st.Update(models.StationFields{TimeZone: "America/Boise"}, models.StateFull)
	svc := &stubService{station: st}
	ts := newTestServer(t, svc)

	var body map[string]any
	resp := mustGetJSON(t, ts.URL+"/api/stations/kboi", &body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusOK)
	}
	if svc.gotID != "KBOI" {
		t.Errorf("id = %q, want KBOI", svc.gotID)
	}
	if body["state"] != "full" || body["timeZone"] != "America/Boise" {
		t.Errorf("body = %v", body)
	}
}

func TestErrorMapping(t *testing.T) {
	upstream := &providers.UpstreamError{StatusCode: http.StatusServiceUnavailable, URL: "x"}
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: &providers.NotFoundError{Resource: "station KXXX", Upstream: &providers.UpstreamError{StatusCode: 404}}, want: http.StatusNotFound},
		{name: "upstream", err: upstream, want: http.StatusBadGateway},
		{name: "transport", err: &providers.TransportError{URL: "x", Err: context.DeadlineExceeded}, want: http.StatusGatewayTimeout},
		{name: "decode", err: &providers.DecodeError{Index: -1, Err: errors.New("missing @graph")}, want: http.StatusBadGateway},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, &stubService{err: tt.err})

			var body models.ErrorResponse
			resp := mustGetJSON(t, ts.URL+"/api/stations/KXXX", &body)
			if resp.StatusCode != tt.want {
				t.Errorf("status=%d want=%d", resp.StatusCode, tt.want)
			}
			if body.Error == "" || body.Details == "" {
				t.Errorf("body = %+v, want error and details", body)
			}
		})
	}
}

func TestEndToEndWithClient(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "(e2e, e2e@example.com)" {
			http.Error(w, "missing user agent", http.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/stations/KSEA":
			w.Header().Set("Content-Type", providers.MediaTypeLD)
			_, _ = io.WriteString(w, `{"stationIdentifier":"KSEA","name":"Seattle","elevation":{"unitCode":"wmoUnit:m","value":130}}`)
		default:
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"title":"Not Found","status":404}`)
		}
	}))
	t.Cleanup(upstream.Close)

	client, err := providers.NewClient(providers.Config{
		ClientName:   "e2e",
		ContactEmail: "e2e@example.com",
		BaseURL:      upstream.URL,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	ts := newTestServer(t, client)

	var body map[string]any
	resp := mustGetJSON(t, ts.URL+"/api/stations/KSEA", &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusOK)
	}
	elev, _ := body["elevation"].(map[string]any)
	if body["name"] != "Seattle" || elev["value"] != 130.0 {
		t.Errorf("body = %v", body)
	}

	var missing models.ErrorResponse
	resp = mustGetJSON(t, ts.URL+"/api/stations/KXXX", &missing)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status=%d want=%d", resp.StatusCode, http.StatusNotFound)
	}
}
