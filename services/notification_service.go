package services

import (
	"fmt"
	"html"
	"log"
	"os"
	"time"

	"journal-portal-api/config"
	"journal-portal-api/models"

	"gorm.io/gorm"
)

// NotifyUser writes an in-app notification row and sends a best-effort email
// to the recipient. The email never blocks or fails the caller.
func NotifyUser(db *gorm.DB, userID int, title, message, kind string, journalID int) error {
	related := uint(journalID)
	notification := models.Notification{
		UserID:           uint(userID),
		Title:            title,
		Message:          message,
		Type:             kind,
		RelatedJournalID: &related,
		CreateAt:         time.Now(),
	}
	if err := db.Create(&notification).Error; err != nil {
		return err
	}

	var user models.User
	if err := db.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err == nil {
		go sendMailSafe([]string{user.Email}, title, buildEmailHTML(user.FullName(), title, message))
	}

	return nil
}

func sendMailSafe(to []string, subject, body string) {
	if err := config.SendMail(to, subject, body); err != nil {
		log.Printf("Warning: failed to send mail %q: %v", subject, err)
	}
}

func buildEmailHTML(recipientName, subject, message string) string {
	portalURL := os.Getenv("APP_BASE_URL")
	if portalURL == "" {
		portalURL = "http://localhost:3000"
	}
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 560px; margin: 0 auto;">
  <h2 style="color: #1a3c6e;">%s</h2>
  <p>Dear %s,</p>
  <p>%s</p>
  <p><a href="%s">Open the journal portal</a> to see the details.</p>
  <hr style="border: none; border-top: 1px solid #ddd;">
  <p style="color: #888; font-size: 12px;">This is an automated message from the journal portal. Please do not reply.</p>
</div>`,
		html.EscapeString(subject),
		html.EscapeString(recipientName),
		html.EscapeString(message),
		html.EscapeString(portalURL),
	)
}
