package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"journal-portal-api/config"
	"journal-portal-api/models"
	"journal-portal-api/workflow"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func uploadPath() string {
	path := os.Getenv("UPLOAD_PATH")
	if path == "" {
		path = "./uploads"
	}
	return path
}

// UploadManuscript attaches the manuscript file to a journal. Only the
// owning publisher may upload, and only before review starts. The file is an
// opaque blob; it is stored under a generated name and never inspected.
func UploadManuscript(c *gin.Context) {
	journalID, err := strconv.Atoi(c.Param("id"))
	if err != nil || journalID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal ID"})
		return
	}

	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	svc := journalService()
	journal, err := svc.GetJournal(journalID)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	if actor.Role != workflow.RolePublisher || journal.PublisherID != actor.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the submitting publisher may upload the manuscript"})
		return
	}
	switch workflow.Status(journal.Status) {
	case workflow.StatusSubmitted, workflow.StatusReceived:
		// replaceable until a reviewer is assigned
	default:
		c.JSON(http.StatusConflict, gin.H{"error": "The manuscript can no longer be replaced"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	storedName := uuid.New().String() + filepath.Ext(file.Filename)
	storedPath := filepath.Join(uploadPath(), storedName)

	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	now := time.Now()
	upload := models.FileUpload{
		OriginalName: file.Filename,
		StoredPath:   storedPath,
		FileSize:     file.Size,
		MimeType:     file.Header.Get("Content-Type"),
		UploadedBy:   actor.ID,
		UploadedAt:   now,
	}
	if err := config.DB.Create(&upload).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record upload"})
		return
	}

	if err := config.DB.Model(&models.Journal{}).
		Where("journal_id = ?", journal.JournalID).
		Updates(map[string]interface{}{
			"file_path":  storedPath,
			"updated_at": now,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Manuscript uploaded",
		"file": gin.H{
			"file_id":       upload.FileID,
			"original_name": upload.OriginalName,
			"size_mb":       fmt.Sprintf("%.2f", upload.GetFileSizeInMB()),
		},
	})
}

// DownloadManuscript serves the stored manuscript file. The assigned
// reviewer's first download moves an assigned journal to being_reviewed.
func DownloadManuscript(c *gin.Context) {
	journalID, err := strconv.Atoi(c.Param("id"))
	if err != nil || journalID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal ID"})
		return
	}

	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	svc := journalService()
	journal, err := svc.GetJournal(journalID)
	if err != nil {
		respondTransitionError(c, err)
		return
	}
	if !canView(*journal, actor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to view this journal"})
		return
	}
	if journal.FilePath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No manuscript file attached"})
		return
	}

	if workflow.Can(*journal, workflow.EventStartReview, actor) {
		if _, err := svc.ApplyTransition(*journal, workflow.EventStartReview, actor, workflow.Payload{}, requestMeta(c)); err != nil {
			respondTransitionError(c, err)
			return
		}
	}

	downloadName := fmt.Sprintf("journal-%d%s", journal.JournalID, filepath.Ext(journal.FilePath))
	c.FileAttachment(journal.FilePath, downloadName)
}
