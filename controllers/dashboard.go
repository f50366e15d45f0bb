package controllers

import (
	"net/http"

	"journal-portal-api/config"
	"journal-portal-api/models"
	"journal-portal-api/workflow"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats returns journal counts per status, scoped the same way
// as the listing: publishers their own, reviewers their assignments, admins
// everything.
func GetDashboardStats(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	query := config.DB.Model(&models.Journal{}).Where("delete_at IS NULL")
	switch actor.Role {
	case workflow.RolePublisher:
		query = query.Where("publisher_id = ?", actor.ID)
	case workflow.RoleReviewer:
		query = query.Where("reviewer_id = ?", actor.ID)
	case workflow.RoleAdmin, workflow.RoleSuperAdmin:
		// no filter
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	var rows []struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}
	if err := query.Select("status, COUNT(*) AS count").Group("status").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	// Every status appears in the response, zero or not, so the dashboard
	// never has to special-case missing keys.
	counts := make(map[string]int64, len(workflow.Statuses()))
	for _, status := range workflow.Statuses() {
		counts[string(status)] = 0
	}
	var total int64
	for _, row := range rows {
		counts[row.Status] = row.Count
		total += row.Count
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"by_status": counts,
		"total":     total,
	})
}
