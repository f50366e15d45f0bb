package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"journal-portal-api/models"
	"journal-portal-api/workflow"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetJournals lists journals visible to the current user: publishers see
// their own submissions, reviewers their assignments, admins everything.
func GetJournals(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	journals, err := journalService().ListJournals(actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch journals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"journals": journals,
		"total":    len(journals),
	})
}

// GetJournal returns a single journal with its reviews and the transitions
// the current user may trigger. The first fetch by an admin moves a
// submitted journal to received.
func GetJournal(c *gin.Context) {
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
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load journal"})
		return
	}

	if !canView(*journal, actor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to view this journal"})
		return
	}

	// Auto-transition: a submitted journal becomes received the first time
	// an admin opens it.
	if workflow.Can(*journal, workflow.EventReceive, actor) {
		if updated, err := svc.ApplyTransition(*journal, workflow.EventReceive, actor, workflow.Payload{}, requestMeta(c)); err == nil {
			updated.Publisher = journal.Publisher
			updated.Reviewer = journal.Reviewer
			updated.Reviews = journal.Reviews
			journal = updated
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"journal":        journal,
		"allowed_events": workflow.AllowedEvents(*journal, actor),
	})
}

// CreateJournal submits a new manuscript. Route-gated to publishers; the
// workflow engine enforces the role again.
func CreateJournal(c *gin.Context) {
	var req struct {
		Title    string `json:"title" binding:"required"`
		Abstract string `json:"abstract" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	payload := workflow.Payload{
		Title:    req.Title,
		Abstract: req.Abstract,
	}

	journal, err := journalService().ApplyTransition(
		models.Journal{}, workflow.EventSubmit, actor, payload, requestMeta(c))
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Manuscript submitted",
		"journal": journal,
	})
}

// AssignReviewer moves a journal to assigned. Admin-only route; the target
// user must hold the reviewer role.
func AssignReviewer(c *gin.Context) {
	journalID, err := strconv.Atoi(c.Param("id"))
	if err != nil || journalID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal ID"})
		return
	}

	var req struct {
		ReviewerID int `json:"reviewer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
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

	payload := workflow.Payload{ReviewerID: req.ReviewerID}
	if reviewer, err := svc.GetReviewerForAssignment(req.ReviewerID); err == nil {
		payload.ReviewerRole = workflow.RoleFromID(reviewer.RoleID)
	}

	updated, err := svc.ApplyTransition(*journal, workflow.EventAssign, actor, payload, requestMeta(c))
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reviewer assigned",
		"journal": updated,
	})
}

// PublishJournal publishes an approved journal. Requires a publication
// number; on re-publish a blank number reuses the stored one.
func PublishJournal(c *gin.Context) {
	journalID, err := strconv.Atoi(c.Param("id"))
	if err != nil || journalID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal ID"})
		return
	}

	var req struct {
		PublicationNumber string `json:"publication_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
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

	payload := workflow.Payload{PublicationNumber: req.PublicationNumber}
	updated, err := svc.ApplyTransition(*journal, workflow.EventPublish, actor, payload, requestMeta(c))
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Journal published",
		"journal": updated,
	})
}

// UnpublishJournal reverts a published journal to approved. The publication
// number and date are retained for a later re-publish.
func UnpublishJournal(c *gin.Context) {
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

	updated, err := svc.ApplyTransition(*journal, workflow.EventUnpublish, actor, workflow.Payload{}, requestMeta(c))
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Journal unpublished",
		"journal": updated,
	})
}

// canView gates read access: admins see everything, publishers their own,
// reviewers their assignments.
func canView(journal models.Journal, actor workflow.Actor) bool {
	switch actor.Role {
	case workflow.RoleAdmin, workflow.RoleSuperAdmin:
		return true
	case workflow.RolePublisher:
		return journal.PublisherID == actor.ID
	case workflow.RoleReviewer:
		return journal.ReviewerID != nil && *journal.ReviewerID == actor.ID
	default:
		return false
	}
}
