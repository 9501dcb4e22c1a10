package providers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

// stubDoer records requests and answers them with a canned response.
type stubDoer struct {
	mu       sync.Mutex
	requests []*http.Request
	status   int
	body     string
	err      error
}

func (d *stubDoer) Do(req *http.Request) (*http.Response, error) {
	d.mu.Lock()
	d.requests = append(d.requests, req)
	d.mu.Unlock()

	if d.err != nil {
		return nil, d.err
	}
	status := d.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/ld+json"}},
		Body:       io.NopCloser(strings.NewReader(d.body)),
	}, nil
}

func (d *stubDoer) calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.requests)
}

func (d *stubDoer) last(t *testing.T) *http.Request {
	t.Helper()

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.requests) == 0 {
		t.Fatal("no request recorded")
	}
	return d.requests[len(d.requests)-1]
}

func newTestClient(t *testing.T, d Doer) *Client {
	t.Helper()

	c, err := NewClient(Config{ClientName: "nwsclient-test", ContactEmail: "ops@example.com"}, WithHTTPClient(d))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestNewClient_RequiresIdentification(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "empty email", cfg: Config{ClientName: "app", ContactEmail: ""}},
		{name: "empty client", cfg: Config{ClientName: "", ContactEmail: "me@example.com"}},
		{name: "whitespace email", cfg: Config{ClientName: "app", ContactEmail: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &stubDoer{}
			c, err := NewClient(tt.cfg, WithHTTPClient(d))
			if err == nil {
				t.Fatal("NewClient() error = nil, want ConfigError")
			}
			if c != nil {
				t.Errorf("NewClient() client = %v, want nil", c)
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("error = %v, want ErrConfiguration", err)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("error = %T, want *ConfigError", err)
			}
			if d.calls() != 0 {
				t.Errorf("transport calls = %d, want 0", d.calls())
			}
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(Config{ClientName: "app", ContactEmail: "me@example.com"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
	if c.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.timeout, DefaultTimeout)
	}
	if c.UserAgent() != "(app, me@example.com)" {
		t.Errorf("UserAgent() = %q", c.UserAgent())
	}
}

func TestQuery_Headers(t *testing.T) {
	d := &stubDoer{body: `{}`}
	c := newTestClient(t, d)

	resp, err := c.Query(context.Background(), "/stations/KSEA", "", nil)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK || string(resp.Body) != `{}` {
		t.Errorf("Query() = %d %q", resp.StatusCode, resp.Body)
	}

	req := d.last(t)
	if req.Method != http.MethodGet {
		t.Errorf("method = %s, want GET", req.Method)
	}
	if got := req.URL.String(); got != "https://api.weather.gov/stations/KSEA" {
		t.Errorf("url = %s", got)
	}
	if got := req.Header.Get("User-Agent"); got != "(nwsclient-test, ops@example.com)" {
		t.Errorf("User-Agent = %q", got)
	}
	if got := req.Header.Get("Accept"); got != MediaTypeLD {
		t.Errorf("Accept = %q, want %q", got, MediaTypeLD)
	}
	if _, ok := req.Context().Deadline(); !ok {
		t.Error("request context has no deadline, want the configured timeout")
	}
}

func TestQuery_UpstreamError(t *testing.T) {
	d := &stubDoer{
		status: http.StatusServiceUnavailable,
		body:   `{"title":"Service Unavailable","detail":"try later","status":503}`,
	}
	c := newTestClient(t, d)

	_, err := c.Query(context.Background(), "/stations", MediaTypeLD, url.Values{"limit": {"1"}})
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("error = %v, want *UpstreamError", err)
	}
	if upstream.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", upstream.StatusCode)
	}
	if upstream.Detail != "try later" {
		t.Errorf("Detail = %q, want %q", upstream.Detail, "try later")
	}
	if d.calls() != 1 {
		t.Errorf("transport calls = %d, want exactly 1 (no retry)", d.calls())
	}
}

func TestQuery_TransportError(t *testing.T) {
	netErr := errors.New("connection reset by peer")
	c := newTestClient(t, &stubDoer{err: netErr})

	_, err := c.Query(context.Background(), "/stations", "", nil)
	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
	if !errors.Is(err, netErr) {
		t.Errorf("error does not wrap the transport failure: %v", err)
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		t.Error("transport failure also matched *UpstreamError")
	}
}

func TestQuery_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(ts.Close)
	t.Cleanup(func() { close(release) })

	c, err := NewClient(Config{
		ClientName:   "app",
		ContactEmail: "me@example.com",
		BaseURL:      ts.URL,
		Timeout:      50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = c.Query(context.Background(), "/stations", "", nil)
	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}
