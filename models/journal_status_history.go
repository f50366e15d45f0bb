package models

import "time"

// JournalStatusHistory tracks historical status changes for journals.
type JournalStatusHistory struct {
	HistoryID int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	JournalID int       `gorm:"column:journal_id" json:"journal_id"`
	OldStatus *string   `gorm:"column:old_status" json:"old_status"`
	NewStatus string    `gorm:"column:new_status" json:"new_status"`
	ChangedBy int       `gorm:"column:changed_by" json:"changed_by"`
	Reason    *string   `gorm:"column:reason" json:"reason"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table for JournalStatusHistory.
func (JournalStatusHistory) TableName() string {
	return "journal_status_history"
}
