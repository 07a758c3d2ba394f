package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Sternrassler/gh-repo-browser/pkg/client"
	"github.com/Sternrassler/gh-repo-browser/pkg/view"
	"github.com/gorilla/feeds"
	"github.com/rs/zerolog/hlog"
)

// Feed formats served by /api/repos/feed.
const (
	FeedAtom = "atom"
	FeedRSS  = "rss"
	FeedJSON = "json"
)

var feedContentTypes = map[string]string{
	FeedAtom: "application/atom+xml; charset=utf-8",
	FeedRSS:  "application/rss+xml; charset=utf-8",
	FeedJSON: "application/feed+json; charset=utf-8",
}

// parsePage reads the page query parameter. A missing value means the first
// page.
func parsePage(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("invalid page %q: must be a positive integer", raw)
	}
	return page, nil
}

// loadPage drives a fresh view through a single fetch of page.
func (s *Server) loadPage(r *http.Request, page int) view.State {
	state, req := view.Start(view.NewAt(page))
	state, _ = view.Reduce(state, view.Run(r.Context(), s.upstream, req))

	if state.Err != nil {
		hlog.FromRequest(r).Error().
			Err(state.Err).
			Int("page", page).
			Msg("Repository page fetch failed")
	}
	return state
}

func (s *Server) handleGetRepos(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	state := s.loadPage(r, page)
	screen := view.Present(state, s.nowFn())

	if state.Err != nil {
		respondJSON(w, http.StatusBadGateway, screen)
		return
	}
	respondJSON(w, http.StatusOK, screen)
}

func (s *Server) handleGetFeed(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = FeedAtom
	}
	contentType, ok := feedContentTypes[format]
	if !ok {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unsupported feed format %q", format))
		return
	}

	state := s.loadPage(r, page)
	if state.Err != nil {
		respondError(w, http.StatusBadGateway, client.Message(state.Err))
		return
	}

	feed := s.buildFeed(state, s.nowFn())

	var body string
	switch format {
	case FeedRSS:
		body, err = feed.ToRss()
	case FeedJSON:
		body, err = feed.ToJSON()
	default:
		body, err = feed.ToAtom()
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("format", format).Msg("Feed encoding failed")
		respondError(w, http.StatusInternalServerError, "failed to encode feed")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// buildFeed renders a settled page as a feed, one item per repository.
func (s *Server) buildFeed(state view.State, now time.Time) *feeds.Feed {
	org := s.upstream.Org()
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s: %s, page %d", view.Heading, org, state.Page),
		Link:        &feeds.Link{Href: "https://github.com/" + org},
		Description: fmt.Sprintf("Repositories of %s sorted by name", org),
		Author:      &feeds.Author{Name: org},
		Created:     now,
	}

	for _, repo := range state.Items {
		row := view.PresentRow(repo, now)
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          row.URL,
			Title:       row.Name,
			Link:        &feeds.Link{Href: row.URL},
			Description: row.Description,
			Content:     fmt.Sprintf("%s. %s stars, %s forks. %s.", row.Description, row.StarsLabel, row.ForksLabel, row.Updated),
			Created:     row.UpdatedAt,
			Updated:     row.UpdatedAt,
		})
	}
	return feed
}
