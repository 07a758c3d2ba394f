//go:build integration

package integration

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Sternrassler/gh-repo-browser/internal/testutil"
	"github.com/Sternrassler/gh-repo-browser/pkg/client"
	"github.com/Sternrassler/gh-repo-browser/pkg/view"
	"github.com/prometheus/client_golang/prometheus"
)

// testTransport wraps the mock server to redirect requests.
type testTransport struct {
	mockServer *testutil.MockGitHub
}

func (t *testTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Redirect to mock server
	req.URL.Scheme = "http"
	if req.URL.Host == "" || req.URL.Host == "api.github.com" {
		mockURL := t.mockServer.URL()
		req.URL.Host = mockURL[7:] // Remove "http://"
	}
	return http.DefaultTransport.RoundTrip(req)
}

// newClient creates a client with the default GitHub base URL whose traffic
// is redirected to mock.
func newClient(t *testing.T, mock *testutil.MockGitHub) *client.Client {
	t.Helper()

	c, err := client.New(client.DefaultConfig("TestApp/1.0.0 (integration@test.com)"))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	c.SetHTTPClient(&http.Client{
		Transport: &testTransport{mockServer: mock},
		Timeout:   30 * time.Second,
	})
	return c
}

// step applies ev and, when a fetch is requested, runs it to completion.
func step(t *testing.T, c *client.Client, s view.State, ev view.Event) view.State {
	t.Helper()

	s, req := view.Reduce(s, ev)
	if req == nil {
		return s
	}
	s, _ = view.Reduce(s, view.Run(context.Background(), c, *req))
	return s
}

// TestFullBrowseFlow pages forward to the short last page and back again.
func TestFullBrowseFlow(t *testing.T) {
	mock := testutil.NewMockGitHub(client.DefaultOrg, 24)
	defer mock.Close()

	c := newClient(t, mock)
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	s, req := view.Start(view.New())
	s, _ = view.Reduce(s, view.Run(context.Background(), c, req))

	screen := view.Present(s, now)
	if screen.Mode != view.ModeList || len(screen.Rows) != 10 || !screen.NextEnabled || screen.PrevEnabled {
		t.Fatalf("page 1 screen = %+v", screen)
	}

	s = step(t, c, s, view.NextPage{})
	s = step(t, c, s, view.NextPage{})

	screen = view.Present(s, now)
	if screen.Page != 3 || len(screen.Rows) != 4 {
		t.Fatalf("page 3: page = %d, rows = %d, want 3 and 4", screen.Page, len(screen.Rows))
	}
	if screen.NextEnabled {
		t.Error("next should be disabled on the short last page")
	}
	if screen.Status != "Page 3, showing 4 Github repositories" {
		t.Errorf("Status = %q", screen.Status)
	}

	// Next on the last page must not reach GitHub.
	before := mock.GetRequestCount()
	s = step(t, c, s, view.NextPage{})
	if mock.GetRequestCount() != before {
		t.Error("next on the last page made a request")
	}

	s = step(t, c, s, view.PrevPage{})
	if s.Page != 2 || len(s.Items) != 10 {
		t.Errorf("after prev: page = %d, items = %d, want 2 and 10", s.Page, len(s.Items))
	}

	if got := mock.GetRequestedPages(); len(got) != 4 || got[0] != 1 || got[1] != 2 || got[2] != 3 || got[3] != 2 {
		t.Errorf("requested pages = %v, want [1 2 3 2]", got)
	}

	header := mock.GetLastRequestHeader()
	if header.Get("User-Agent") != "TestApp/1.0.0 (integration@test.com)" {
		t.Errorf("User-Agent = %q", header.Get("User-Agent"))
	}
	if header.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID should be set")
	}
}

// TestStaleResponseDiscarded reproduces a slow page overtaken by a newer one.
func TestStaleResponseDiscarded(t *testing.T) {
	mock := testutil.NewMockGitHub(client.DefaultOrg, 24)
	defer mock.Close()

	c := newClient(t, mock)

	s, req := view.Start(view.New())
	s, _ = view.Reduce(s, view.Run(context.Background(), c, req))

	// Page 2 is slow and returns a different body than the real page 2.
	mock.SetPageResponse(2, testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       `[{"id": 1, "name": "late", "html_url": "https://github.com/github/late", "updated_at": "2025-06-01T12:00:00Z"}]`,
		Delay:      200 * time.Millisecond,
	})

	s, page2 := view.Reduce(s, view.NextPage{})
	slow := make(chan view.Event, 1)
	go func() {
		slow <- view.Run(context.Background(), c, *page2)
	}()

	s, page1 := view.Reduce(s, view.PrevPage{})
	s, _ = view.Reduce(s, view.Run(context.Background(), c, *page1))

	select {
	case ev := <-slow:
		s, _ = view.Reduce(s, ev)
	case <-time.After(5 * time.Second):
		t.Fatal("slow page 2 never resolved")
	}

	if s.Page != 1 {
		t.Errorf("Page = %d, want 1", s.Page)
	}
	if len(s.Items) != 10 || s.Items[0].Name != "repo-001" {
		t.Errorf("items = %d, first = %q, page 1 was overwritten", len(s.Items), s.Items[0].Name)
	}
	if !s.HasNextPage {
		t.Error("late one-item page must not disable next")
	}
}

// TestFailureThenRetry tests that a failed page can be retried once GitHub recovers.
func TestFailureThenRetry(t *testing.T) {
	mock := testutil.NewMockGitHub(client.DefaultOrg, 24)
	defer mock.Close()

	c := newClient(t, mock)
	mock.SetPageResponse(1, testutil.NewServerErrorResponse())

	s, req := view.Start(view.New())
	s, _ = view.Reduce(s, view.Run(context.Background(), c, req))

	if !errors.Is(s.Err, client.ErrFetchFailed) {
		t.Fatalf("Err = %v, want ErrFetchFailed", s.Err)
	}
	var fetchErr *client.FetchError
	if !errors.As(s.Err, &fetchErr) || fetchErr.Class != client.ErrorClassServer {
		t.Errorf("Err = %#v, want server-class FetchError", s.Err)
	}
	if view.Present(s, time.Now()).Error != client.FetchFailedMessage {
		t.Error("error panel should show the single user-facing message")
	}

	mock.ClearPageResponse(1)
	s = step(t, c, s, view.Retry{})

	if s.Err != nil || len(s.Items) != 10 {
		t.Errorf("after retry: err = %v, items = %d", s.Err, len(s.Items))
	}
}

// TestNoAutomaticRetry tests that failures are surfaced after a single attempt.
func TestNoAutomaticRetry(t *testing.T) {
	tests := []struct {
		name string
		resp testutil.MockResponse
	}{
		{name: "5xx", resp: testutil.NewServerErrorResponse()},
		{name: "4xx", resp: testutil.NewForbiddenResponse()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockGitHub(client.DefaultOrg, 24)
			defer mock.Close()

			c := newClient(t, mock)
			mock.SetPageResponse(1, tt.resp)

			if _, err := c.FetchPage(context.Background(), 1); err == nil {
				t.Fatal("expected error")
			}
			if mock.GetRequestCount() != 1 {
				t.Errorf("GitHub requests = %d, want 1 (no retries)", mock.GetRequestCount())
			}
		})
	}
}

// TestMetricsIncremented tests that metrics are correctly incremented.
func TestMetricsIncremented(t *testing.T) {
	mock := testutil.NewMockGitHub(client.DefaultOrg, 5)
	defer mock.Close()

	c := newClient(t, mock)

	before := counterValue(t, "repo_requests_total", "status", "200")
	if _, err := c.FetchPage(context.Background(), 1); err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	after := counterValue(t, "repo_requests_total", "status", "200")

	if after-before != 1 {
		t.Errorf("repo_requests_total{status=200} grew by %v, want 1", after-before)
	}
}

// counterValue reads one labelled counter from the default registry.
func counterValue(t *testing.T, name, label, value string) float64 {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
