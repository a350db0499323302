package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/examplanner/examplanner/internal/app/controllers"
	"github.com/examplanner/examplanner/internal/app/models"
	"github.com/examplanner/examplanner/internal/app/models/dto"
	"github.com/examplanner/examplanner/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	examController *controllers.ExamController,
	reportController *controllers.ReportController,
	courseController *controllers.CourseController,
	roomController *controllers.RoomController,
	periodController *controllers.PeriodController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)

		// Exam lifecycle routes
		exams := authenticated.Group("/exams")
		{
			exams.GET("/:id", examController.GetByID)

			examsLeaderProtected := exams.Group("")
			examsLeaderProtected.Use(authMiddleware.RoleRequired(models.RoleGroupLeader))
			{
				examsLeaderProtected.POST("", examController.Propose)
				examsLeaderProtected.PUT("/:id/reschedule", examController.Reschedule)
			}

			examsCoordinatorProtected := exams.Group("")
			examsCoordinatorProtected.Use(authMiddleware.RoleRequired(models.RoleCoordinator))
			{
				examsCoordinatorProtected.PUT("/:id/review", examController.Review)
			}

			examsSecretaryProtected := exams.Group("")
			examsSecretaryProtected.Use(authMiddleware.RoleRequired(models.RoleSecretary))
			{
				examsSecretaryProtected.PUT("/:id", examController.Update)
			}
		}

		// Read-side exam views, one per role
		reports := authenticated.Group("/reports")
		{
			reports.GET("/group-exams",
				authMiddleware.RoleRequired(models.RoleGroupLeader), reportController.GroupExams)
			reports.GET("/review-status",
				authMiddleware.RoleRequired(models.RoleCoordinator), reportController.ExamsByStatus)
			reports.GET("/schedule-overview",
				authMiddleware.RoleRequired(models.RoleSecretary, models.RoleAdmin), reportController.ScheduleOverview)
		}

		// Course routes
		courses := authenticated.Group("/courses")
		{
			courses.GET("", courseController.List)
			courses.GET("/:id", courseController.GetByID)
			courses.PUT("/:id/examination-method",
				authMiddleware.RoleRequired(models.RoleCoordinator, models.RoleSecretary),
				courseController.SetExaminationMethod)

			coursesSecretaryProtected := courses.Group("")
			coursesSecretaryProtected.Use(authMiddleware.RoleRequired(models.RoleSecretary))
			{
				coursesSecretaryProtected.POST("", courseController.Create)
				coursesSecretaryProtected.PUT("/:id", courseController.Update)
				coursesSecretaryProtected.DELETE("/:id", courseController.Delete)
			}
		}

		// Room routes
		rooms := authenticated.Group("/rooms")
		{
			rooms.GET("", roomController.List)
			rooms.GET("/:id", roomController.GetByID)

			roomsSecretaryProtected := rooms.Group("")
			roomsSecretaryProtected.Use(authMiddleware.RoleRequired(models.RoleSecretary))
			{
				roomsSecretaryProtected.POST("", roomController.Create)
				roomsSecretaryProtected.PUT("/:id", roomController.Update)
				roomsSecretaryProtected.DELETE("/:id", roomController.Delete)
			}
		}

		// Examination period routes
		periods := authenticated.Group("/examination-periods")
		{
			periods.GET("", periodController.List)

			periodsStaffProtected := periods.Group("")
			periodsStaffProtected.Use(authMiddleware.RoleRequired(models.RoleSecretary, models.RoleAdmin))
			{
				periodsStaffProtected.POST("", periodController.Create)
				periodsStaffProtected.PUT("/:id", periodController.Update)
				periodsStaffProtected.DELETE("/:id", periodController.Delete)
			}
		}

		// Administration routes
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleSecretary))
		{
			admin.GET("/users", adminController.ListUsers)
			admin.POST("/users", adminController.CreateUser)
			admin.POST("/reset", adminController.Reset)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewStructuredResponse(gin.H{"status": "ok"}, "Service healthy"))
	})
}
