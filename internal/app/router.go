package app

import (
	"edutrack_backend/docs"
	"edutrack_backend/internal/config"
	"edutrack_backend/internal/middleware"
	"edutrack_backend/internal/model"
	"edutrack_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerLearnerRoutes(authGroup, c)
		a.registerTrainerRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.PUT("/user/password", c.user.ChangePassword)
	rg.PUT("/user/push-token", c.user.RegisterPushToken)
	rg.POST("/user/avatar", c.user.UploadAvatar)

	// Catalog and enrollment
	rg.GET("/formations", c.formation.List)
	rg.GET("/formations/enrolled", c.formation.ListEnrolled)
	rg.GET("/formations/:id", c.formation.Get)
	rg.POST("/formations/:id/join", c.formation.Join)
	rg.GET("/formations/:id/modules", c.content.ListModules)

	// Progress
	rg.POST("/lessons/:lessonId/complete", c.progress.CompleteLesson)
	rg.GET("/formations/:id/progress", c.progress.FormationProgress)
	rg.GET("/formations/:id/progress/live", c.progress.LiveProgress)

	// Attendance
	rg.POST("/formations/:id/attendance/validate", c.attendance.ValidateCode)
	rg.GET("/formations/:id/attendance/sessions/current", c.attendance.CurrentSession)

	// Quiz
	rg.GET("/modules/:moduleId/quiz", c.quiz.Questions)
	rg.POST("/modules/:moduleId/quiz/submit", c.quiz.Submit)
	rg.GET("/modules/:moduleId/quiz/history", c.quiz.History)

	// Certificates
	rg.GET("/certificates", c.certificate.List)
	rg.GET("/certificates/status", c.certificate.Status)
	rg.POST("/formations/:id/certificate", c.certificate.Issue)
}

func (a *App) registerTrainerRoutes(rg *gin.RouterGroup, c *controllers) {
	trainer := rg.Group("")
	trainer.Use(middleware.RoleMiddleware(model.Trainer))
	{
		trainer.GET("/trainer/formations", c.formation.ListMine)
		trainer.POST("/formations", c.formation.Create)
		trainer.PUT("/formations/:id", c.formation.Update)
		trainer.PATCH("/formations/:id/status", c.formation.SetStatus)
		trainer.GET("/formations/:id/participants", c.formation.Participants)

		// Content authoring
		trainer.POST("/formations/:id/modules", c.content.CreateModule)
		trainer.PUT("/formations/:id/modules/reorder", c.content.ReorderModules)
		trainer.PUT("/modules/:moduleId", c.content.RenameModule)
		trainer.DELETE("/modules/:moduleId", c.content.DeleteModule)
		trainer.POST("/modules/:moduleId/lessons", c.content.CreateLesson)
		trainer.PUT("/modules/:moduleId/lessons/reorder", c.content.ReorderLessons)
		trainer.POST("/lessons/:lessonId/media", c.content.UploadLessonMedia)
		trainer.DELETE("/lessons/:lessonId", c.content.DeleteLesson)
		trainer.POST("/modules/:moduleId/quiz", c.content.CreateQuestion)
		trainer.DELETE("/quiz/questions/:questionId", c.content.DeleteQuestion)

		// Attendance sessions
		trainer.POST("/formations/:id/attendance/sessions", c.attendance.IssueSession)
		trainer.GET("/attendance/sessions/:sessionId/marks", c.attendance.SessionMarks)
	}
}
