// Package render projects in-memory collections (helplines, favorites,
// reviews) into HTML fragments. Every function is pure: it reads only its
// arguments and returns markup. Escaping is explicit through EscapeHTML, which
// text/template exposes to the templates as "esc".
package render

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/pkordes/helpline-directory/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("render").Option("missingkey=zero").Funcs(template.FuncMap{
	"esc":    EscapeHTML,
	"mapURL": MapURL,
	"stars":  Stars,
	"badge":  RatingBadge,
	"orNA": func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	},
	"oneDecimal": func(f float64) string { return fmt.Sprintf("%.1f", f) },
}).ParseFS(templateFS, "templates/*.tmpl"))

// execute renders the named template. Templates are compiled into the binary
// and only receive the view types below, so a failure is a programming error.
func execute(name string, data any) string {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		panic(fmt.Sprintf("render: execute %s: %v", name, err))
	}
	return b.String()
}

// BadgeState is the lifecycle of a card's rating badge.
type BadgeState int

const (
	// BadgeLoading is shown until the helpline's reviews have been fetched.
	BadgeLoading BadgeState = iota
	// BadgeUnavailable is shown when fetching the reviews failed.
	BadgeUnavailable
	// BadgeReady carries a computed summary.
	BadgeReady
)

// Badge is the rating badge of one helpline card.
type Badge struct {
	State   BadgeState
	Summary domain.RatingSummary
}

// ReadyBadge summarizes reviews into a ready badge.
func ReadyBadge(reviews []domain.Review) Badge {
	return Badge{State: BadgeReady, Summary: domain.Summarize(reviews)}
}

type cardView struct {
	domain.Helpline
	Favorited bool
	Badge     Badge
}

// HelplineCards renders the main list. favorites decides each card's
// favorite-button state; badges supplies rating badges by id (missing ids
// render as loading).
func HelplineCards(helplines []domain.Helpline, favorites domain.FavoriteSet, badges map[int]Badge) string {
	if len(helplines) == 0 {
		return execute("no-results", "No helplines found. Try a different search!")
	}
	cards := make([]cardView, len(helplines))
	for i, h := range helplines {
		cards[i] = cardView{Helpline: h, Favorited: favorites.Contains(h.ID), Badge: badges[h.ID]}
	}
	return execute("helpline-cards", cards)
}

// HelplinesUnavailable replaces the main list when the directory could not be loaded.
func HelplinesUnavailable(baseURL string) string {
	return execute("no-results", "⚠️ Failed to load helplines. Make sure the directory service at "+EscapeHTML(baseURL)+" is reachable.")
}

// FavoriteCards renders the favorites list from stored snapshots.
func FavoriteCards(entries []domain.FavoriteEntry) string {
	if len(entries) == 0 {
		return execute("no-results", "No favorites yet. Add some helplines to your favorites!")
	}
	return execute("favorite-cards", entries)
}

// RatingBadge renders the inner markup of a card's rating container.
// A ready badge with no reviews shows a placeholder instead of a mean.
func RatingBadge(b Badge) string {
	switch b.State {
	case BadgeUnavailable:
		return `<div class="rating-display">Rating unavailable</div>`
	case BadgeReady:
		if b.Summary.Count == 0 {
			return `<div class="rating-display">No ratings yet</div>`
		}
		return fmt.Sprintf("<strong>%s</strong> %.1f/5 (%d reviews)",
			Stars(b.Summary.Filled()), b.Summary.Rounded(), b.Summary.Count)
	}
	return "Loading rating..."
}

// ReviewsView is the review list of the open modal.
type ReviewsView struct {
	Failed  bool
	Reviews []domain.Review
}

type reviewsData struct {
	Summary domain.RatingSummary
	Reviews []domain.Review
}

// Reviews renders the rating summary and review cards of one helpline.
func Reviews(v ReviewsView) string {
	switch {
	case v.Failed:
		return execute("no-results", "Error loading reviews")
	case len(v.Reviews) == 0:
		return execute("no-results", "No reviews yet. Be the first to review!")
	}
	return execute("reviews", reviewsData{Summary: domain.Summarize(v.Reviews), Reviews: v.Reviews})
}

// ModalView is the review modal. A closed modal renders empty.
type ModalView struct {
	Open          bool
	HelplineName  string
	Reviews       ReviewsView
	DisplayRating int
	Status        Status
}

type modalData struct {
	HelplineName string
	ReviewsHTML  string
	StarsHTML    string
	StatusHTML   string
}

// ReviewModal renders the modal content: title, reviews, rating widget and form.
// The nested reviewsContainer, starRating and reviewMessage elements are
// regions of their own and are re-rendered independently.
func ReviewModal(v ModalView) string {
	if !v.Open {
		return ""
	}
	return execute("review-modal", modalData{
		HelplineName: v.HelplineName,
		ReviewsHTML:  Reviews(v.Reviews),
		StarsHTML:    StarWidget(v.DisplayRating),
		StatusHTML:   StatusMessage(v.Status),
	})
}

type starView struct {
	Rating int
	Active bool
}

// StarWidget renders the five clickable stars of the review form; stars with
// a rating at or below display are active.
func StarWidget(display int) string {
	stars := make([]starView, domain.MaxRating)
	for i := range stars {
		stars[i] = starView{Rating: i + 1, Active: i+1 <= display}
	}
	return execute("star-widget", stars)
}

// StatusKind selects the styling of a status message.
type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusSuccess
	StatusError
)

// Status is a transient form message.
type Status struct {
	Kind StatusKind
	Text string
}

// Class returns the CSS class list of the message element.
func (s Status) Class() string {
	switch s.Kind {
	case StatusSuccess:
		return "form-message success"
	case StatusError:
		return "form-message error"
	}
	return "form-message"
}

// StatusMessage renders a status message element.
func StatusMessage(s Status) string {
	return execute("status", s)
}

// DarkModeLabel is the text of the dark-mode toggle button.
func DarkModeLabel(on bool) string {
	if on {
		return "☀️ Light Mode"
	}
	return "🌙 Dark Mode"
}
