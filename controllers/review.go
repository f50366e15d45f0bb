package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"journal-portal-api/models"
	"journal-portal-api/workflow"

	"github.com/gin-gonic/gin"
)

// SubmitReview records the assigned reviewer's verdict. "approved" moves the
// journal to approved, "rejected" to rejected; either way a review row is
// created with the reviewer's comments.
func SubmitReview(c *gin.Context) {
	journalID, err := strconv.Atoi(c.Param("id"))
	if err != nil || journalID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal ID"})
		return
	}

	var req struct {
		Status   string `json:"status" binding:"required"`
		Comments string `json:"comments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var event workflow.Event
	switch strings.ToLower(strings.TrimSpace(req.Status)) {
	case models.ReviewStatusApproved:
		event = workflow.EventApprove
	case models.ReviewStatusRejected:
		event = workflow.EventReject
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be either 'approved' or 'rejected'"})
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

	payload := workflow.Payload{Comments: req.Comments}
	updated, err := svc.ApplyTransition(*journal, event, actor, payload, requestMeta(c))
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	message := "Review recorded, manuscript approved"
	if event == workflow.EventReject {
		message = "Review recorded, manuscript rejected"
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"journal": updated,
	})
}

// GetJournalReviews returns a journal's reviews in chronological order plus
// the latest verdict for display.
func GetJournalReviews(c *gin.Context) {
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

	reviews, err := svc.ListReviews(journalID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reviews": reviews,
		"latest":  workflow.LatestVerdict(reviews),
		"total":   len(reviews),
	})
}
