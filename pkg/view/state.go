// Package view holds the repository browser's view state, the reducer that
// moves it between loading, error and list, and the pure mapping from state
// to a renderable Screen.
//
// All state changes go through Reduce. Every fetch the reducer asks for is
// tagged with the page it was issued for and a sequence number; results whose
// tag no longer matches the state are discarded, so a slow response for an
// abandoned page can never overwrite a newer one.
package view

import (
	"context"

	"github.com/Sternrassler/gh-repo-browser/pkg/client"
	"github.com/Sternrassler/gh-repo-browser/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	viewTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "repo_view_transitions_total",
		Help: "Total view events handled by the reducer, by event",
	}, []string{"event"})

	viewStaleResultsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "repo_view_stale_results_total",
		Help: "Fetch results discarded because a newer request superseded them",
	})
)

// Fetcher fetches a single page of repositories.
type Fetcher interface {
	FetchPage(ctx context.Context, page int) ([]client.Repository, error)
}

// Request identifies one fetch issued by the reducer.
type Request struct {
	Page int
	Seq  uint64
}

// State is everything needed to render the current page.
type State struct {
	Page    int
	Loading bool
	Err     error
	Items   []client.Repository

	// HasNextPage is the heuristic result of the last successful fetch.
	HasNextPage bool

	// Seq tags the request the state is waiting for.
	Seq uint64
}

// New returns the mount-time state: page 1, loading, no items.
func New() State {
	return NewAt(pagination.FirstPage)
}

// NewAt returns a loading state positioned on page. Pages below the first
// are clamped to it.
func NewAt(page int) State {
	if !pagination.Valid(page) {
		page = pagination.FirstPage
	}
	return State{
		Page:        page,
		Loading:     true,
		HasNextPage: true,
	}
}

// Start issues the initial request for s.Page.
func Start(s State) (State, Request) {
	return s.begin(s.Page)
}

// Event is an input to Reduce.
type Event interface {
	eventName() string
}

// NextPage advances one page when the last fetch indicated more.
type NextPage struct{}

// PrevPage goes back one page, floored at page 1.
type PrevPage struct{}

// Retry re-issues the request for the current page after a failure.
type Retry struct{}

// Fetched carries the items returned for Request.
type Fetched struct {
	Request Request
	Items   []client.Repository
}

// FetchFailed carries the failure for Request.
type FetchFailed struct {
	Request Request
	Err     error
}

func (NextPage) eventName() string    { return "next_page" }
func (PrevPage) eventName() string    { return "prev_page" }
func (Retry) eventName() string       { return "retry" }
func (Fetched) eventName() string     { return "fetched" }
func (FetchFailed) eventName() string { return "fetch_failed" }

// Reduce applies ev to s. When the transition needs a fetch, the returned
// request is non-nil and the caller must run it and feed the outcome back
// as Fetched or FetchFailed.
func Reduce(s State, ev Event) (State, *Request) {
	viewTransitionsTotal.WithLabelValues(ev.eventName()).Inc()

	switch ev := ev.(type) {
	case NextPage:
		if !s.HasNextPage {
			return s, nil
		}
		next, req := s.begin(pagination.Next(s.Page))
		return next, &req

	case PrevPage:
		prev := pagination.Prev(s.Page)
		if prev == s.Page {
			return s, nil
		}
		next, req := s.begin(prev)
		return next, &req

	case Retry:
		if s.Err == nil {
			return s, nil
		}
		next, req := s.begin(s.Page)
		return next, &req

	case Fetched:
		if !s.Awaiting(ev.Request) {
			viewStaleResultsTotal.Inc()
			return s, nil
		}
		s.Loading = false
		s.Err = nil
		s.Items = ev.Items
		s.HasNextPage = pagination.HasNextPage(len(ev.Items))
		return s, nil

	case FetchFailed:
		if !s.Awaiting(ev.Request) {
			viewStaleResultsTotal.Inc()
			return s, nil
		}
		s.Loading = false
		s.Err = ev.Err
		if s.Err == nil {
			s.Err = client.ErrFetchFailed
		}
		s.Items = nil
		return s, nil
	}

	return s, nil
}

// Awaiting reports whether req is the request s is currently waiting for.
func (s State) Awaiting(req Request) bool {
	return s.Loading && req.Page == s.Page && req.Seq == s.Seq
}

// Settle turns a fetch outcome into the matching event.
func Settle(req Request, items []client.Repository, err error) Event {
	if err != nil {
		return FetchFailed{Request: req, Err: err}
	}
	return Fetched{Request: req, Items: items}
}

// Run performs req with f and returns the settling event.
func Run(ctx context.Context, f Fetcher, req Request) Event {
	items, err := f.FetchPage(ctx, req.Page)
	return Settle(req, items, err)
}

// begin replaces the state with a fresh fetch of page.
func (s State) begin(page int) (State, Request) {
	s.Page = page
	s.Loading = true
	s.Err = nil
	s.Items = nil
	s.Seq++
	return s, Request{Page: page, Seq: s.Seq}
}
