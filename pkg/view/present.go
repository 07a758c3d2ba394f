package view

import (
	"fmt"
	"time"

	"github.com/Sternrassler/gh-repo-browser/pkg/client"
	"github.com/Sternrassler/gh-repo-browser/pkg/pagination"
)

const (
	// Heading titles the listing.
	Heading = "Github Repositories"

	// NoDescription replaces a missing repository description.
	NoDescription = "No description"
)

// Mode selects which of the mutually exclusive panels is shown.
type Mode string

const (
	ModeLoading Mode = "loading"
	ModeError   Mode = "error"
	ModeList    Mode = "list"
)

// Row is one rendered repository.
type Row struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	URL           string    `json:"url"`
	Language      string    `json:"language,omitempty"`
	LanguageColor string    `json:"language_color,omitempty"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	StarsLabel    string    `json:"stars_label"`
	ForksLabel    string    `json:"forks_label"`
	Updated       string    `json:"updated"`
	UpdatedAt     time.Time `json:"updated_at"`
	Label         string    `json:"label"`
}

// Screen is the complete render of a State at one instant.
type Screen struct {
	Heading     string `json:"heading"`
	Mode        Mode   `json:"mode"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	CanRetry    bool   `json:"can_retry"`
	Rows        []Row  `json:"items"`
	Page        int    `json:"page"`
	PageLabel   string `json:"page_label"`
	PrevEnabled bool   `json:"prev_enabled"`
	NextEnabled bool   `json:"next_enabled"`
}

// Present maps s to a Screen. Relative timestamps are computed against now,
// so the same state renders differently as time passes.
func Present(s State, now time.Time) Screen {
	screen := Screen{
		Heading:     Heading,
		Rows:        []Row{},
		Page:        s.Page,
		PageLabel:   fmt.Sprintf("Page %d", s.Page),
		PrevEnabled: pagination.HasPrevPage(s.Page),
		NextEnabled: s.HasNextPage,
	}

	switch {
	case s.Loading:
		screen.Mode = ModeLoading
		screen.Status = "Loading repositories..."
	case s.Err != nil:
		screen.Mode = ModeError
		screen.Error = client.Message(s.Err)
		screen.Status = "Error: " + screen.Error
		screen.CanRetry = true
	default:
		screen.Mode = ModeList
		screen.Status = fmt.Sprintf("Page %d, showing %d Github repositories", s.Page, len(s.Items))
		for _, repo := range s.Items {
			screen.Rows = append(screen.Rows, PresentRow(repo, now))
		}
	}

	return screen
}

// PresentRow renders a single repository.
func PresentRow(repo client.Repository, now time.Time) Row {
	description := repo.DescriptionOr(NoDescription)
	row := Row{
		ID:          repo.ID,
		Name:        repo.Name,
		Description: description,
		URL:         repo.HTMLURL,
		Language:    repo.LanguageName(),
		Stars:       repo.StargazersCount,
		Forks:       repo.ForksCount,
		StarsLabel:  FormatCount(repo.StargazersCount),
		ForksLabel:  FormatCount(repo.ForksCount),
		Updated:     "Updated " + RelativeTime(repo.UpdatedAt, now),
		UpdatedAt:   repo.UpdatedAt,
		Label:       repo.Name + ": " + description,
	}
	if row.Language != "" {
		row.LanguageColor = LanguageColor(row.Language)
	}
	return row
}
