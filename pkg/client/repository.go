package client

import "time"

// Repository is one entry of the /orgs/{org}/repos listing. Only the fields
// the browser displays are decoded.
type Repository struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	HTMLURL         string    `json:"html_url"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	Language        *string   `json:"language"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DescriptionOr returns the description, or fallback when it is null or empty.
func (r Repository) DescriptionOr(fallback string) string {
	if r.Description == nil || *r.Description == "" {
		return fallback
	}
	return *r.Description
}

// LanguageName returns the primary language, or "" when unknown.
func (r Repository) LanguageName() string {
	if r.Language == nil {
		return ""
	}
	return *r.Language
}
