package view

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLanguageColor is used for languages missing from the colour table.
const DefaultLanguageColor = "#6b7280"

// languageColors follows GitHub's linguist colours.
var languageColors = map[string]string{
	"TypeScript": "#3178c6",
	"JavaScript": "#f1e05a",
	"Python":     "#3572A5",
	"Ruby":       "#701516",
	"Go":         "#00ADD8",
	"Rust":       "#dea584",
	"Java":       "#b07219",
	"Shell":      "#89e051",
	"HTML":       "#e34c26",
	"CSS":        "#563d7c",
}

var countPrinter = message.NewPrinter(language.English)

// LanguageColor returns the hex colour for a language name.
func LanguageColor(name string) string {
	if c, ok := languageColors[name]; ok {
		return c
	}
	return DefaultLanguageColor
}

// FormatCount renders n with thousands separators ("12,345").
func FormatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}

const day = 24 * time.Hour

// RelativeTime describes t relative to now in whole elapsed days: today,
// yesterday, N days ago, N months ago (30-day months) or N years ago
// (365-day years). Timestamps in the future read as today.
func RelativeTime(t, now time.Time) string {
	elapsed := now.Sub(t)
	if elapsed < 0 {
		return "today"
	}

	days := int(elapsed / day)
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 30:
		return fmt.Sprintf("%d days ago", days)
	case days < 365:
		return fmt.Sprintf("%d months ago", days/30)
	default:
		return fmt.Sprintf("%d years ago", days/365)
	}
}
