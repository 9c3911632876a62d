package app

import "github.com/pkordes/helpline-directory/internal/domain"

// Intent is a discrete user action (or a delayed follow-up of one) consumed
// by the Synchronizer. Input capture produces intents; only the Synchronizer
// performs their side effects.
type Intent interface {
	isIntent()
}

// PageLoaded starts a fresh page: state is reset, the directory and the
// dark-mode preference are loaded.
type PageLoaded struct{}

// FilterRequested narrows the main list.
type FilterRequested struct {
	City     string
	Category string
}

// FilterReset clears both filters.
type FilterReset struct{}

// FavoriteToggled adds or removes a helpline from the favorites.
type FavoriteToggled struct {
	ID int
}

// ReviewModalOpened makes ID the current review subject.
type ReviewModalOpened struct {
	ID int
}

// ReviewModalClosed clears the review subject and resets the rating widget.
// Clicking outside the modal produces the same intent.
type ReviewModalClosed struct{}

// RatingSelected records the rating picked in the star widget.
type RatingSelected struct {
	Rating int
}

// RatingHovered previews a rating while the pointer is over a star.
type RatingHovered struct {
	Rating int
}

// RatingHoverEnded reverts the star widget to the selected rating.
type RatingHoverEnded struct{}

// ReviewSubmitted posts a review for the current subject. A zero Rating
// means "use the rating selected in the widget".
type ReviewSubmitted struct {
	UserName string
	Rating   int
	Comment  string
}

// HelplineSubmitted posts a new helpline to the directory.
type HelplineSubmitted struct {
	Helpline domain.NewHelpline
}

// DarkModeToggled flips the persisted dark-mode preference.
type DarkModeToggled struct{}

// HelplineStatusExpired clears the add-helpline message; Reload also
// refreshes the directory after a successful add.
type HelplineStatusExpired struct {
	Reload bool
}

// ReviewStatusExpired clears the review message; Refresh also reloads the
// reviews and rating badge of helpline ID after a successful submit.
type ReviewStatusExpired struct {
	ID      int
	Refresh bool
}

func (PageLoaded) isIntent()            {}
func (FilterRequested) isIntent()       {}
func (FilterReset) isIntent()           {}
func (FavoriteToggled) isIntent()       {}
func (ReviewModalOpened) isIntent()     {}
func (ReviewModalClosed) isIntent()     {}
func (RatingSelected) isIntent()        {}
func (RatingHovered) isIntent()         {}
func (RatingHoverEnded) isIntent()      {}
func (ReviewSubmitted) isIntent()       {}
func (HelplineSubmitted) isIntent()     {}
func (DarkModeToggled) isIntent()       {}
func (HelplineStatusExpired) isIntent() {}
func (ReviewStatusExpired) isIntent()   {}
