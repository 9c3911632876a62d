package domain

import "math"

// MinRating and MaxRating bound a review's star rating.
const (
	MinRating = 1
	MaxRating = 5
)

// AnonymousUser is the reviewer name used when none is given.
const AnonymousUser = "Anonymous"

// Review is a user-submitted rating plus comment for a helpline.
// Reviews are created by users and never edited or deleted client-side.
type Review struct {
	HelplineID int    `json:"helplineId"`
	UserName   string `json:"userName"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	Date       string `json:"date"`
}

// NewReview is the body of the submit-review workflow.
type NewReview struct {
	HelplineID int    `json:"helplineId" validate:"gt=0"`
	UserName   string `json:"userName"`
	Rating     int    `json:"rating" validate:"min=1,max=5"`
	Comment    string `json:"comment"`
}

// RatingSummary aggregates the reviews of one helpline.
// Average is only meaningful when Count > 0.
type RatingSummary struct {
	Count   int
	Average float64
}

// Summarize computes the arithmetic mean of all ratings.
// An empty slice yields the zero summary; no division happens.
func Summarize(reviews []Review) RatingSummary {
	if len(reviews) == 0 {
		return RatingSummary{}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return RatingSummary{
		Count:   len(reviews),
		Average: float64(sum) / float64(len(reviews)),
	}
}

// Rounded returns the average rounded to one decimal place, the value shown to users.
func (s RatingSummary) Rounded() float64 {
	return math.Round(s.Average*10) / 10
}

// Filled returns the number of filled stars for the summary: the displayed
// (one-decimal) average rounded half-up to an integer, clamped to [0, MaxRating].
func (s RatingSummary) Filled() int {
	if s.Count == 0 {
		return 0
	}
	return ClampStars(int(math.Floor(s.Rounded() + 0.5)))
}

// ClampStars bounds n to the [0, MaxRating] range of a star glyph sequence.
func ClampStars(n int) int {
	switch {
	case n < 0:
		return 0
	case n > MaxRating:
		return MaxRating
	}
	return n
}
