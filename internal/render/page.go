package render

import (
	"sort"
	"strconv"

	"github.com/pkordes/helpline-directory/internal/domain"
)

// Region ids name the page elements whose inner markup an update replaces.
const (
	RegionHelplines     = "helplinesList"
	RegionFavorites     = "favoritesList"
	RegionModal         = "reviewModal"
	RegionReviews       = "reviewsContainer"
	RegionStars         = "starRating"
	RegionReviewMessage = "reviewMessage"
	RegionFormMessage   = "formMessage"
	RegionDarkToggle    = "darkModeToggle"

	// RegionTheme is not an element: its value is the body class list.
	RegionTheme = "theme"
)

// RatingRegion is the id of a card's rating badge container.
func RatingRegion(helplineID int) string {
	return "rating-" + strconv.Itoa(helplineID)
}

// ThemeClass is the body class for the dark-mode preference.
func ThemeClass(dark bool) string {
	if dark {
		return "dark-mode"
	}
	return ""
}

// Categories returns the distinct categories of helplines, sorted, for the
// category filter.
func Categories(helplines []domain.Helpline) []string {
	seen := make(map[string]bool)
	var out []string
	for _, h := range helplines {
		if h.Category == "" || seen[h.Category] {
			continue
		}
		seen[h.Category] = true
		out = append(out, h.Category)
	}
	sort.Strings(out)
	return out
}

// PageView is everything the full document needs. Regions holds the
// already-rendered markup of every region, keyed by region id.
type PageView struct {
	Filter     domain.Filter
	Categories []string
	Regions    map[string]string
}

type categoryOption struct {
	Value    string
	Selected bool
}

type pageData struct {
	City       string
	Categories []categoryOption
	R          map[string]string
}

// Page renders the full HTML document.
func Page(v PageView) string {
	opts := make([]categoryOption, len(v.Categories))
	for i, c := range v.Categories {
		opts[i] = categoryOption{Value: c, Selected: c == v.Filter.Category}
	}
	return execute("page", pageData{City: v.Filter.City, Categories: opts, R: v.Regions})
}
