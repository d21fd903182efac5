package app

import (
	"learnhub_backend/docs"
	"learnhub_backend/internal/config"
	"learnhub_backend/internal/middleware"
	"learnhub_backend/internal/model"
	"learnhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes; optional auth so enrolled learners see full lecture
	// content in listings.
	public := router.Group("/api")
	public.Use(middleware.TryAuthMiddleware(cfg))
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.GET("/courses", c.course.ListPublished)
		public.GET("/courses/:courseId", c.course.GetDetail)
		public.GET("/courses/:courseId/sections", c.section.List)
		public.GET("/courses/:courseId/ratings", c.rating.List)
		public.GET("/sections/:sectionId/lectures", c.lecture.ListInSection)
	}

	// Learner routes.
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.Profile)
		authGroup.PATCH("/profile", c.auth.UpdateProfile)

		authGroup.POST("/courses/:courseId/enroll", c.course.Enroll)

		authGroup.POST("/courses/:courseId/ratings", c.rating.Submit)
		authGroup.PUT("/courses/:courseId/ratings", c.rating.Update)
		authGroup.DELETE("/courses/:courseId/ratings", c.rating.Delete)

		authGroup.POST("/courses/:courseId/progress", c.progress.Init)
		authGroup.PUT("/courses/:courseId/progress", c.progress.Record)
		authGroup.GET("/courses/:courseId/progress", c.progress.Get)
	}

	// Admin routes: account administration.
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		adminGroup.GET("/students", c.admin.ListStudents)
		adminGroup.GET("/instructors", c.admin.ListInstructors)
		adminGroup.PUT("/users/:userId/promote", c.admin.PromoteToInstructor)
	}

	// Instructor routes: all content mutations.
	instructorGroup := router.Group("/api")
	instructorGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Instructor))
	{
		instructorGroup.POST("/courses", c.course.Create)
		instructorGroup.GET("/courses/mine", c.course.ListMine)
		instructorGroup.PATCH("/courses/:courseId", c.course.Update)
		instructorGroup.PUT("/courses/:courseId/published", c.course.SetPublished)
		instructorGroup.DELETE("/courses/:courseId", c.course.Delete)

		instructorGroup.POST("/courses/:courseId/sections", c.section.Create)
		instructorGroup.PUT("/sections/:sectionId", c.section.Update)
		instructorGroup.DELETE("/sections/:sectionId", c.section.Delete)

		instructorGroup.POST("/sections/:sectionId/lectures", c.lecture.Add)
		instructorGroup.PATCH("/lectures/:lectureId", c.lecture.Update)
		instructorGroup.DELETE("/lectures/:lectureId", c.lecture.Delete)
	}
}
