// Package client provides the HTTP client for the GitHub organization
// repositories endpoint, with error classification and request metrics.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/gh-repo-browser/pkg/pagination"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for upstream requests.
var (
	repoRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "repo_requests_total",
		Help: "Total repository page requests by status",
	}, []string{"status"})

	repoRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "repo_request_duration_seconds",
		Help:    "Repository page request duration in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	repoFetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "repo_fetch_errors_total",
		Help: "Total failed repository page fetches by error class",
	}, []string{"class"})
)

const (
	// DefaultBaseURL is the public GitHub REST API.
	DefaultBaseURL = "https://api.github.com"

	// DefaultOrg is the organization whose repositories are listed.
	DefaultOrg = "github"

	// DefaultSort is the stable sort key sent with every page request.
	DefaultSort = "name"

	// DefaultTimeout bounds a single page request.
	DefaultTimeout = 30 * time.Second
)

// Client fetches pages of an organization's repositories.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the REST API (overridable for tests)
	BaseURL string

	// Org is the organization login in /orgs/{org}/repos
	Org string

	// Sort key, fixed for a stable page order
	Sort string

	// User-Agent header (GitHub rejects requests without one)
	UserAgent string

	// Timeout per request
	Timeout time.Duration
}

// DefaultConfig returns the configuration for the public GitHub API.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Org:       DefaultOrg,
		Sort:      DefaultSort,
		UserAgent: userAgent,
		Timeout:   DefaultTimeout,
	}
}

// New creates a new repository client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Org == "" {
		return nil, fmt.Errorf("org is required")
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https (got %q)", cfg.BaseURL)
	}

	if cfg.Sort == "" {
		cfg.Sort = DefaultSort
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: base,
		config:  cfg,
		logger:  log.With().Str("component", "repo-client").Logger(),
	}, nil
}

// PageURL returns the collection URL for a 1-based page number.
func (c *Client) PageURL(page int) string {
	u := *c.baseURL
	u.Path = u.Path + "/orgs/" + url.PathEscape(c.config.Org) + "/repos"

	q := url.Values{}
	q.Set("sort", c.config.Sort)
	q.Set("per_page", strconv.Itoa(pagination.PageSize))
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	return u.String()
}

// FetchPage requests one page of repositories. Any failure, whether network,
// non-2xx status or undecodable body, is returned as a *FetchError that
// matches ErrFetchFailed.
func (c *Client) FetchPage(ctx context.Context, page int) ([]Repository, error) {
	if page < 1 {
		err := c.fail(page, 0, ErrorClassClient, fmt.Errorf("invalid page %d: must be >= 1", page))
		c.logger.Warn().Err(err).Int("page", page).Msg("Rejected invalid page")
		return nil, err
	}

	requestID := uuid.NewString()
	logger := c.logger.With().
		Int("page", page).
		Str("request_id", requestID).
		Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.PageURL(page), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-Request-ID", requestID)

	startTime := time.Now()
	defer func() {
		repoRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	logger.Debug().Str("url", req.URL.String()).Msg("Fetching repository page")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error().Err(err).Msg("HTTP request failed")
		repoRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, c.fail(page, 0, ErrorClassNetwork, err)
	}
	defer resp.Body.Close()

	repoRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

		class := classifyStatus(resp.StatusCode)
		logger.Warn().
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Repository page request error")
		return nil, c.fail(page, resp.StatusCode, class, fmt.Errorf("unexpected status %s", resp.Status))
	}

	var repos []Repository
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		logger.Warn().Err(err).Msg("Failed to decode repository page")
		return nil, c.fail(page, resp.StatusCode, ErrorClassDecode, fmt.Errorf("decode response: %w", err))
	}
	if repos == nil {
		repos = []Repository{}
	}

	logger.Debug().
		Int("count", len(repos)).
		Dur("duration", time.Since(startTime)).
		Msg("Fetched repository page")

	return repos, nil
}

// Ping checks that the API root answers with a 2xx status.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String()+"/", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping upstream: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ping upstream: unexpected status %s", resp.Status)
	}
	return nil
}

// Org returns the configured organization login.
func (c *Client) Org() string {
	return c.config.Org
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

func (c *Client) fail(page, status int, class ErrorClass, err error) *FetchError {
	repoFetchErrorsTotal.WithLabelValues(string(class)).Inc()
	return &FetchError{
		Page:       page,
		StatusCode: status,
		Class:      class,
		Err:        err,
	}
}

// classifyStatus maps a non-2xx status code to an error class.
// Unfollowed 1xx/3xx responses count as client errors.
func classifyStatus(status int) ErrorClass {
	if status >= 500 {
		return ErrorClassServer
	}
	return ErrorClassClient
}
