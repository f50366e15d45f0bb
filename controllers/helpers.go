package controllers

import (
	"errors"
	"net/http"

	"journal-portal-api/config"
	"journal-portal-api/services"
	"journal-portal-api/workflow"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func journalService() *services.JournalService {
	return services.NewJournalService(config.DB)
}

// currentActor builds the workflow actor from the authenticated request
// context. The engine never reads identity from ambient state; every call
// passes the actor explicitly.
func currentActor(c *gin.Context) (workflow.Actor, bool) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		return workflow.Actor{}, false
	}
	userID, ok := userIDValue.(int)
	if !ok {
		return workflow.Actor{}, false
	}

	roleIDValue, exists := c.Get("roleID")
	if !exists {
		return workflow.Actor{}, false
	}
	roleID, ok := roleIDValue.(int)
	if !ok {
		return workflow.Actor{}, false
	}

	return workflow.Actor{ID: userID, Role: workflow.RoleFromID(roleID)}, true
}

func requestMeta(c *gin.Context) services.RequestMeta {
	return services.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
}

// respondTransitionError maps workflow and persistence failures onto HTTP
// responses.
func respondTransitionError(c *gin.Context, err error) {
	var validation *workflow.ValidationError

	switch {
	case errors.Is(err, workflow.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to perform this action"})
	case errors.Is(err, workflow.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "The journal is not in a state that allows this action"})
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": validation.Reason,
			"field": validation.Field,
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
	case errors.Is(err, services.ErrPersistence):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "The change could not be saved, please try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unexpected error"})
	}
}
