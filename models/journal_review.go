package models

import "time"

// Review verdicts stored in journal_reviews.review_status.
const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// JournalReview represents a single reviewer verdict on a journal. A journal
// accumulates one row per verdict over its lifetime.
type JournalReview struct {
	ReviewID     int       `gorm:"primaryKey;column:review_id" json:"review_id"`
	JournalID    int       `gorm:"column:journal_id" json:"journal_id"`
	ReviewerID   int       `gorm:"column:reviewer_id" json:"reviewer_id"`
	ReviewRound  int       `gorm:"column:review_round" json:"review_round"`
	ReviewStatus string    `gorm:"column:review_status" json:"review_status"`
	Comments     *string   `gorm:"column:comments" json:"comments"`
	ReviewedAt   time.Time `gorm:"column:reviewed_at" json:"reviewed_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// TableName specifies the table name for JournalReview.
func (JournalReview) TableName() string {
	return "journal_reviews"
}
