// Package testutil provides testing utilities for the repository browser.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockRepo is the JSON shape of one repository served by MockGitHub.
type MockRepo struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	HTMLURL         string  `json:"html_url"`
	StargazersCount int     `json:"stargazers_count"`
	ForksCount      int     `json:"forks_count"`
	Language        *string `json:"language"`
	UpdatedAt       string  `json:"updated_at"`
}

// MockResponse overrides the response for one page.
type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// MockGitHub serves /orgs/{org}/repos from an in-memory, name-sorted
// collection, paging it the way the real API does.
type MockGitHub struct {
	server *httptest.Server
	mu     sync.RWMutex
	org    string
	repos  []MockRepo
	pages  map[int]MockResponse

	// Tracking
	RequestCount      int
	RequestedPages    []int
	LastRequestHeader http.Header
	LastQuery         map[string]string
}

// NewMockGitHub creates a mock API for org holding total repositories.
func NewMockGitHub(org string, total int) *MockGitHub {
	mock := &MockGitHub{
		org:   org,
		repos: MakeRepos(total),
		pages: make(map[int]MockResponse),
	}
	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

// URL returns the mock server URL.
func (m *MockGitHub) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockGitHub) Close() {
	m.server.Close()
}

// Reset clears all tracking counters and page overrides.
func (m *MockGitHub) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.RequestedPages = nil
	m.LastRequestHeader = nil
	m.LastQuery = nil
	m.pages = make(map[int]MockResponse)
}

// SetPageResponse overrides the response for a page.
func (m *MockGitHub) SetPageResponse(page int, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[page] = resp
}

// ClearPageResponse removes a page override.
func (m *MockGitHub) ClearPageResponse(page int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pages, page)
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockGitHub) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetRequestedPages returns the page numbers requested so far, in order.
func (m *MockGitHub) GetRequestedPages() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int(nil), m.RequestedPages...)
}

// GetLastQuery returns the query parameters of the latest request.
func (m *MockGitHub) GetLastQuery() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastQuery
}

// GetLastRequestHeader returns the headers of the latest request.
func (m *MockGitHub) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader
}

func (m *MockGitHub) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"current_user_url": "https://api.github.com/user"}`))
		return
	}

	if r.URL.Path != fmt.Sprintf("/orgs/%s/repos", m.org) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
		return
	}

	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(q.Get("per_page"))
	if err != nil || perPage < 1 {
		perPage = 30
	}

	m.mu.Lock()
	m.RequestCount++
	m.RequestedPages = append(m.RequestedPages, page)
	m.LastRequestHeader = r.Header.Clone()
	m.LastQuery = map[string]string{
		"sort":     q.Get("sort"),
		"per_page": q.Get("per_page"),
		"page":     q.Get("page"),
	}
	override, overridden := m.pages[page]
	m.mu.Unlock()

	if overridden {
		if override.Delay > 0 {
			time.Sleep(override.Delay)
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(override.StatusCode)
		if override.Body != "" {
			w.Write([]byte(override.Body))
		}
		return
	}

	start := (page - 1) * perPage
	end := start + perPage
	m.mu.RLock()
	if start > len(m.repos) {
		start = len(m.repos)
	}
	if end > len(m.repos) {
		end = len(m.repos)
	}
	body, err := json.Marshal(m.repos[start:end])
	m.mu.RUnlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// MakeRepos builds n name-sorted repositories. Every third one has no
// description and every fourth one no language.
func MakeRepos(n int) []MockRepo {
	languages := []string{"Go", "Ruby", "TypeScript"}
	updated := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	repos := make([]MockRepo, n)
	for i := range repos {
		name := fmt.Sprintf("repo-%03d", i+1)
		repo := MockRepo{
			ID:              int64(1000 + i),
			Name:            name,
			HTMLURL:         "https://github.com/github/" + name,
			StargazersCount: (i + 1) * 1000,
			ForksCount:      i + 1,
			UpdatedAt:       updated.Add(-time.Duration(i) * 24 * time.Hour).Format(time.RFC3339),
		}
		if i%3 != 0 {
			desc := "Description of " + name
			repo.Description = &desc
		}
		if i%4 != 0 {
			lang := languages[i%len(languages)]
			repo.Language = &lang
		}
		repos[i] = repo
	}
	return repos
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"message": "Server Error"}`,
	}
}

// NewForbiddenResponse creates a 403 response like GitHub's secondary limits.
func NewForbiddenResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusForbidden,
		Body:       `{"message": "API rate limit exceeded"}`,
	}
}

// NewMalformedResponse creates a 200 response whose body is not a repository list.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"message": "not a list"}`,
	}
}
