package workflow

import (
	"sort"

	"journal-portal-api/models"
)

// SortReviews returns the reviews ordered chronologically by reviewed_at.
// The input slice is not modified.
func SortReviews(reviews []models.JournalReview) []models.JournalReview {
	out := make([]models.JournalReview, len(reviews))
	copy(out, reviews)
	sort.SliceStable(out, func(i, k int) bool {
		return out[i].ReviewedAt.Before(out[k].ReviewedAt)
	})
	return out
}

// LatestVerdict returns the most recent review for display, or nil when the
// journal has none.
func LatestVerdict(reviews []models.JournalReview) *models.JournalReview {
	if len(reviews) == 0 {
		return nil
	}
	ordered := SortReviews(reviews)
	return &ordered[len(ordered)-1]
}
