package workflow

import (
	"testing"
	"time"

	"journal-portal-api/models"
)

func TestSortReviewsChronological(t *testing.T) {
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	reviews := []models.JournalReview{
		{ReviewID: 3, ReviewStatus: models.ReviewStatusApproved, ReviewedAt: base.Add(48 * time.Hour)},
		{ReviewID: 1, ReviewStatus: models.ReviewStatusRejected, ReviewedAt: base},
		{ReviewID: 2, ReviewStatus: models.ReviewStatusRejected, ReviewedAt: base.Add(24 * time.Hour)},
	}

	sorted := SortReviews(reviews)

	for i, wantID := range []int{1, 2, 3} {
		if sorted[i].ReviewID != wantID {
			t.Fatalf("position %d: expected review %d, got %d", i, wantID, sorted[i].ReviewID)
		}
	}

	// Input order untouched.
	if reviews[0].ReviewID != 3 {
		t.Fatalf("input slice reordered: first is %d", reviews[0].ReviewID)
	}

	latest := LatestVerdict(reviews)
	if latest == nil || latest.ReviewID != 3 {
		t.Fatalf("expected latest review 3, got %+v", latest)
	}
	if latest.ReviewStatus != models.ReviewStatusApproved {
		t.Fatalf("expected approved latest verdict, got %s", latest.ReviewStatus)
	}
}

func TestLatestVerdictEmpty(t *testing.T) {
	if got := LatestVerdict(nil); got != nil {
		t.Fatalf("expected nil for no reviews, got %+v", got)
	}
}
