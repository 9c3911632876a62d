// Package domain contains the core data types for the helpline directory client.
// This package has zero external dependencies and is imported by every other
// internal package (repo, remote, service, render, app, handler).
package domain

// Helpline is a directory entry describing a contactable support service.
// IDs are assigned by the remote directory; the client never edits a Helpline.
type Helpline struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Location string `json:"location,omitempty"`
	Contact  string `json:"contact"`
	Category string `json:"category"`
}

// MapQuery is the text used to search for the helpline on a map:
// the location when known, otherwise the city.
func (h Helpline) MapQuery() string {
	if h.Location != "" {
		return h.Location
	}
	return h.City
}

// NewHelpline is the body of the add-helpline workflow.
type NewHelpline struct {
	Name     string `json:"name" validate:"required"`
	City     string `json:"city" validate:"required"`
	Category string `json:"category" validate:"required"`
	Contact  string `json:"contact" validate:"required"`
	Location string `json:"location"`
}
