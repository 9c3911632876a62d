package render

import (
	"strings"

	"github.com/pkordes/helpline-directory/internal/domain"
)

const (
	filledStar = "★"
	emptyStar  = "☆"
)

// Stars returns a five-glyph sequence with filled filled stars.
// filled is clamped to [0, 5].
func Stars(filled int) string {
	filled = domain.ClampStars(filled)
	return strings.Repeat(filledStar, filled) + strings.Repeat(emptyStar, domain.MaxRating-filled)
}
