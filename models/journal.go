package models

import "time"

// Journal represents the journals table: one submitted manuscript and its
// position in the review workflow.
type Journal struct {
	JournalID         int        `gorm:"primaryKey;column:journal_id" json:"journal_id"`
	Title             string     `gorm:"column:title" json:"title"`
	Abstract          string     `gorm:"column:abstract;type:text" json:"abstract"`
	FilePath          string     `gorm:"column:file_path" json:"file_path"`
	Status            string     `gorm:"column:status" json:"status"`
	PublisherID       int        `gorm:"column:publisher_id" json:"publisher_id"`
	ReviewerID        *int       `gorm:"column:reviewer_id" json:"reviewer_id"`
	PublicationNumber *string    `gorm:"column:publication_number" json:"publication_number"`
	PublishedDate     *time.Time `gorm:"column:published_date" json:"published_date"`
	CreatedAt         time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at" json:"updated_at"`
	DeleteAt          *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Publisher *User           `gorm:"foreignKey:PublisherID" json:"publisher,omitempty"`
	Reviewer  *User           `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Reviews   []JournalReview `gorm:"foreignKey:JournalID;references:JournalID" json:"reviews,omitempty"`
}

// TableName overrides the table name for Journal
func (Journal) TableName() string {
	return "journals"
}
