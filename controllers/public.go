package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"journal-portal-api/workflow"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetPublishedJournals is the unauthenticated public listing of published
// journals, newest publication first.
func GetPublishedJournals(c *gin.Context) {
	journals, err := journalService().ListPublished()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch published journals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"journals": journals,
		"total":    len(journals),
	})
}

// GetPublishedJournal returns a single published journal. Journals in any
// other status are invisible here.
func GetPublishedJournal(c *gin.Context) {
	journalID, err := strconv.Atoi(c.Param("id"))
	if err != nil || journalID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal ID"})
		return
	}

	journal, err := journalService().GetJournal(journalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load journal"})
		return
	}

	if workflow.Status(journal.Status) != workflow.StatusPublished {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
		return
	}

	// Reviews are internal; the public view exposes the manuscript metadata
	// only.
	journal.Reviews = nil

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"journal": journal,
	})
}
