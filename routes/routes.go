package routes

import (
	"conference-api/controllers"
	"conference-api/middleware"
	"conference-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/signup", controllers.Signup)
			public.POST("/login", controllers.Login)

			// Visitor counter
			public.GET("/visitors", controllers.GetVisitorCount)
			public.POST("/visitors", controllers.IncrementVisitorCount)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Conference API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Paper submission
			protected.POST("/registrations", controllers.RegisterPaper)
			protected.GET("/registrations", middleware.RequireRole(models.RoleAdmin), controllers.GetAllRegistrations)

			// Author views
			protected.GET("/papers/status", controllers.GetPaperStatus)
			protected.GET("/papers/:paperId/final-paper", controllers.DownloadFinalPaper)

			// Reviewer worklist
			reviewer := protected.Group("/reviewer")
			reviewer.Use(middleware.RequireRole(models.RoleReviewer))
			{
				reviewer.GET("/papers", controllers.GetAssignedPapers)
				reviewer.POST("/reviews", controllers.UpdatePaperStatus)
			}

			// Admin surfaces
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				// Reviewer accounts
				admin.POST("/reviewers", controllers.CreateReviewer)
				admin.GET("/reviewers", controllers.GetReviewers)
				admin.GET("/reviewers/assignments", controllers.GetReviewersWithAssignments)
				admin.PUT("/reviewers/:id", controllers.UpdateReviewer)
				admin.DELETE("/reviewers/:id", controllers.DeleteReviewer)

				// Assignments
				admin.POST("/assignments", controllers.AssignReviewer)
				admin.GET("/assignments", controllers.GetAllAssignments)
				admin.PUT("/assignments/:paperId/:reviewerId", controllers.UpdateAssignment)
				admin.DELETE("/assignments/:paperId/:reviewerId", controllers.DeleteAssignment)
				admin.GET("/papers/unassigned", controllers.GetUnassignedPapers)
				admin.GET("/papers/available", controllers.GetPapersAvailableForAssignment)
				admin.GET("/registrations/assignments", controllers.GetRegistrationsWithAssignments)

				// Registration management
				admin.PUT("/registrations/:id/status", controllers.UpdateRegistrationStatus)
				admin.DELETE("/registrations/:id", controllers.DeleteRegistration)
				admin.PUT("/registrations/:id/reset-final-submission", controllers.ResetFinalSubmission)

				// Notifications
				admin.POST("/notifications/status-email", controllers.SendPaperStatusEmail)
				admin.POST("/notifications/aggregate", controllers.SendNotification)

				// Analytics
				admin.GET("/analytics/registrations", controllers.GetRegistrationAnalytics)
				admin.GET("/registrations/total", controllers.GetTotalRegistrations)
			}

			// Support desk
			support := protected.Group("/support")
			{
				supportAdmins := middleware.RequireRole(models.RoleAdmin, models.RoleSupportAdmin)
				support.GET("/tickets", supportAdmins, controllers.GetSupportTickets)
				support.POST("/tickets", supportAdmins, controllers.CreateSupportTicket)
				support.DELETE("/tickets/:id", supportAdmins, controllers.DeleteSupportTicket)
				support.POST("/tickets/assign", supportAdmins, controllers.AssignTechnician)
				support.GET("/technicians", supportAdmins, controllers.GetTechnicians)

				// Technicians may move their tickets through the lifecycle.
				support.PUT("/tickets/status",
					middleware.RequireRole(models.RoleAdmin, models.RoleSupportAdmin, models.RoleTechnician),
					controllers.UpdateTicketStatus)
			}
		}
	}
}
