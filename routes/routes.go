package routes

import (
	"journal-portal-api/controllers"
	"journal-portal-api/middleware"
	"journal-portal-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/refresh", controllers.RefreshToken)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Journal Portal API is running",
				})
			})

			// Published listing, no login required
			public.GET("/public/journals", controllers.GetPublishedJournals)
			public.GET("/public/journals/:id", controllers.GetPublishedJournal)
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Dashboard
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)

			// Journals
			journals := protected.Group("/journals")
			{
				// Listing and detail are role-scoped inside the handlers
				journals.GET("", controllers.GetJournals)
				journals.GET("/:id", controllers.GetJournal)
				journals.GET("/:id/reviews", controllers.GetJournalReviews)

				// Only publishers submit manuscripts
				journals.POST("", middleware.RequireRole(models.RolePublisherID), controllers.CreateJournal)
				journals.POST("/:id/manuscript", middleware.RequireRole(models.RolePublisherID), controllers.UploadManuscript)
				journals.GET("/:id/manuscript", controllers.DownloadManuscript)

				// Only admins assign reviewers
				journals.POST("/:id/assign",
					middleware.RequireRole(models.RoleAdminID, models.RoleSuperAdminID),
					controllers.AssignReviewer)

				// Verdicts come from the assigned reviewer; the workflow
				// engine enforces the identity check
				journals.POST("/:id/review", middleware.RequireRole(models.RoleReviewerID), controllers.SubmitReview)

				// Publish is reviewer-gated, unpublish is open to reviewers
				// and admins
				journals.POST("/:id/publish", middleware.RequireRole(models.RoleReviewerID), controllers.PublishJournal)
				journals.POST("/:id/unpublish",
					middleware.RequireRole(models.RoleReviewerID, models.RoleAdminID, models.RoleSuperAdminID),
					controllers.UnpublishJournal)
			}

			// Reviewer directory for the assignment dropdown
			protected.GET("/reviewers",
				middleware.RequireRole(models.RoleAdminID, models.RoleSuperAdminID),
				controllers.GetReviewers)

			// Admin user management
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdminID, models.RoleSuperAdminID))
			{
				admin.GET("/users", controllers.GetUsers)
				admin.POST("/users", controllers.CreateUser)
				admin.DELETE("/users/:id", middleware.RequireRole(models.RoleSuperAdminID), controllers.DeactivateUser)
			}
		}
	}
}
