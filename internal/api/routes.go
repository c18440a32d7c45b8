package api

import (
	"net/http"

	"coachkit/trainer-app/internal/domain"
	"coachkit/trainer-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	trainerService service.TrainerService,
	exerciseService service.ExerciseService,
	programService service.ProgramService,
	scheduleService service.ScheduleService,
) {
	authHandler := NewAuthHandler(authService)
	trainerHandler := NewTrainerHandler(trainerService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	programHandler := NewProgramHandler(programService)
	scheduleHandler := NewScheduleHandler(scheduleService)
	clientHandler := NewClientHandler(scheduleService)

	authMiddleware := AuthMiddleware(jwtSecret)
	trainerOnly := RoleMiddleware(domain.RoleTrainer)
	clientOnly := RoleMiddleware(domain.RoleClient)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Exercise Library ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:exerciseId", exerciseHandler.GetExercise)
			exerciseGroup.GET("/:exerciseId/video", exerciseHandler.GetVideoDownloadURL)

			exerciseGroup.POST("", trainerOnly, exerciseHandler.CreateExercise)
			exerciseGroup.PUT("/:exerciseId", trainerOnly, exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:exerciseId", trainerOnly, exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/:exerciseId/video/upload-url", trainerOnly, exerciseHandler.GetVideoUploadURL)
			exerciseGroup.POST("/:exerciseId/video", trainerOnly, exerciseHandler.AttachVideo)
		}

		// --- Program Templates (trainer only) ---
		programGroup := protected.Group("/programs")
		programGroup.Use(trainerOnly)
		{
			programGroup.POST("", programHandler.CreateProgram)
			programGroup.GET("", programHandler.ListPrograms)
			programGroup.GET("/:programId", programHandler.GetProgram)
			programGroup.PUT("/:programId", programHandler.UpdateProgramMeta)
			programGroup.POST("/:programId/archive", programHandler.ArchiveProgram)
			programGroup.DELETE("/:programId", programHandler.DeleteProgram)
			programGroup.POST("/:programId/clone", programHandler.CloneProgram)

			// Structural edits. Each one reads the weeks tree, transforms
			// it, and replaces it whole under a version guard.
			programGroup.PUT("/:programId/weeks", programHandler.ReplaceWeeks)
			programGroup.POST("/:programId/weeks", programHandler.AddWeek)
			programGroup.POST("/:programId/days", programHandler.AddDay)
			programGroup.DELETE("/:programId/days/:dayNumber", programHandler.RemoveDay)
			programGroup.PUT("/:programId/rest-day", programHandler.SetRestDay)
			programGroup.POST("/:programId/frequency", programHandler.ApplyFrequency)

			programGroup.POST("/:programId/sections", programHandler.AddSection)
			sectionPath := "/:programId/weeks/:weekNumber/days/:dayNumber/sections/:sectionId"
			programGroup.DELETE(sectionPath, programHandler.RemoveSection)
			programGroup.PUT(sectionPath+"/position", programHandler.MoveSection)
			programGroup.PUT(sectionPath+"/exercises", programHandler.SetSectionExercises)
			programGroup.PUT(sectionPath+"/exercises/:exerciseIndex", programHandler.UpdateSectionExercise)
			programGroup.DELETE(sectionPath+"/exercises/:exerciseIndex", programHandler.RemoveSectionExercise)
		}

		// --- Trainer: roster and scheduling ---
		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(trainerOnly)
		{
			trainerGroup.POST("/clients", trainerHandler.AddClientByEmail)
			trainerGroup.GET("/clients", trainerHandler.GetManagedClients)
			trainerGroup.GET("/clients/:clientId", trainerHandler.GetManagedClient)
			trainerGroup.GET("/my-exercises", exerciseHandler.GetMyExercises)

			trainerGroup.POST("/assignments", scheduleHandler.AssignProgram)
			trainerGroup.DELETE("/assignments/:assignmentId", scheduleHandler.UnassignProgram)
			trainerGroup.GET("/assignments/:assignmentId/day", scheduleHandler.ResolveAssignment)
			trainerGroup.GET("/clients/:clientId/assignments", scheduleHandler.GetClientAssignments)
			trainerGroup.GET("/calendar", scheduleHandler.GetCalendar)

			trainerGroup.POST("/instances", scheduleHandler.CreateInstance)
			trainerGroup.GET("/instances/:instanceId", scheduleHandler.GetInstance)
			trainerGroup.PUT("/instances/:instanceId/status", scheduleHandler.SetInstanceStatus)
			trainerGroup.DELETE("/instances/:instanceId", scheduleHandler.DeleteInstance)
			trainerGroup.PUT("/instances/:instanceId/day-override", scheduleHandler.OverrideInstanceDay)
			trainerGroup.GET("/instances/:instanceId/day", scheduleHandler.ResolveInstance)
			trainerGroup.GET("/clients/:clientId/instances", scheduleHandler.GetClientInstances)
		}

		// --- Client: own program and progress ---
		clientGroup := protected.Group("/client")
		clientGroup.Use(clientOnly)
		{
			clientGroup.GET("/assignments", clientHandler.GetMyAssignments)
			clientGroup.GET("/program", clientHandler.GetMyActiveProgram)
			clientGroup.GET("/day", clientHandler.GetMyDay)
			clientGroup.POST("/instances/:instanceId/complete-day", clientHandler.CompleteDay)
		}
	}
}
