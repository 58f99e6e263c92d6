package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Aryan9inja/edu-collab/internal/app/controllers"
	"github.com/Aryan9inja/edu-collab/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	classroomController *controllers.ClassroomController,
	noteController *controllers.NoteController,
	assistantController *controllers.AssistantController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)
		authenticated.POST("/auth/logout", authController.Logout)

		// Username directory
		users := authenticated.Group("/users")
		{
			users.POST("/username", userController.RegisterUsername)
			users.GET("/me/username", userController.GetMyUsername)
			users.GET("/usernames", userController.ResolveUsernames)
			users.GET("/:id/username", userController.GetUsername)
		}

		// Classrooms, membership and access grants
		classrooms := authenticated.Group("/classrooms")
		{
			classrooms.POST("", classroomController.Create)
			classrooms.GET("", classroomController.List)
			classrooms.GET("/:id", classroomController.GetByID)
			classrooms.PUT("/:id", classroomController.Update)
			classrooms.DELETE("/:id", classroomController.Delete)

			classrooms.POST("/:id/members", classroomController.Join)
			classrooms.DELETE("/:id/members", classroomController.Leave)
			classrooms.GET("/:id/members/search", userController.SearchMembers)

			classrooms.POST("/:id/access", classroomController.GrantAccess)
			classrooms.DELETE("/:id/access/:userId", classroomController.RevokeAccess)

			// Notes
			classrooms.POST("/:id/notes", noteController.Upload)
			classrooms.GET("/:id/notes", noteController.List)
			classrooms.DELETE("/:id/notes/:noteId", noteController.Remove)
			classrooms.GET("/:id/notes/:noteId/view", noteController.View)
			classrooms.GET("/:id/notes/:noteId/download", noteController.Download)

			// Study assistant
			classrooms.POST("/:id/assistant", assistantController.Ask)
		}
	}
}
