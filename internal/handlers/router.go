package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prottasha123/Quiz-MS/internal/models"
	"github.com/prottasha123/Quiz-MS/internal/repositories"
	"github.com/prottasha123/Quiz-MS/internal/services"
)

// HandlerManager owns every handler and builds the router.
type HandlerManager struct {
	repo   repositories.Repository
	logger *slog.Logger

	user       *UserHandler
	enrollment *EnrollmentHandler
	quiz       *QuizHandler
	attempt    *AttemptHandler
	dashboard  *DashboardHandler
}

func NewHandlerManager(sm *services.ServiceManager, repo repositories.Repository, logger *slog.Logger) *HandlerManager {
	base := NewBaseHandler(sm, logger)
	return &HandlerManager{
		repo:       repo,
		logger:     logger,
		user:       NewUserHandler(base),
		enrollment: NewEnrollmentHandler(base),
		quiz:       NewQuizHandler(base),
		attempt:    NewAttemptHandler(base),
		dashboard:  NewDashboardHandler(base),
	}
}

func (m *HandlerManager) SetupRouter(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(m.logger))
	router.Use(CORSMiddleware())
	router.Use(SecurityMiddleware())

	router.GET("/health", func(c *gin.Context) {
		if err := m.repo.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/signup", m.user.SignUp)
		auth.POST("/login", m.user.Login)
	}

	authed := v1.Group("")
	authed.Use(AuthMiddleware(m.repo))
	{
		authed.GET("/me", m.user.GetProfile)
		authed.PUT("/me", m.user.UpdateProfile)
	}

	student := v1.Group("")
	student.Use(AuthMiddleware(m.repo), RequireRole(models.RoleStudent))
	{
		student.GET("/teachers", m.enrollment.ListAvailableTeachers)
		student.GET("/enrollments", m.enrollment.ListMyTeachers)
		student.POST("/enrollments", m.enrollment.Enroll)
		student.DELETE("/enrollments/:teacherID", m.enrollment.Unenroll)

		student.GET("/quizzes", m.quiz.ListVisibleQuizzes)
		student.POST("/quizzes/join", m.quiz.JoinByCode)
		student.GET("/quizzes/:quizID/take", m.attempt.TakeQuiz)
		student.POST("/quizzes/:quizID/submit", m.attempt.SubmitQuiz)

		student.GET("/results", m.attempt.MyResults)
		student.GET("/dashboard/student", m.dashboard.StudentDashboard)
	}

	teacher := v1.Group("")
	teacher.Use(AuthMiddleware(m.repo), RequireRole(models.RoleTeacher, models.RoleAdmin))
	{
		teacher.POST("/quizzes", m.quiz.CreateQuiz)
		teacher.GET("/quizzes/mine", m.quiz.ListMyQuizzes)
		teacher.GET("/quizzes/:quizID", m.quiz.GetQuizDetail)
		teacher.PATCH("/quizzes/:quizID/toggle", m.quiz.ToggleQuiz)
		teacher.DELETE("/quizzes/:quizID", m.quiz.DeleteQuiz)
		teacher.GET("/quizzes/:quizID/results", m.attempt.QuizResults)
		teacher.GET("/quizzes/:quizID/results/export", m.attempt.ExportQuizResults)

		teacher.GET("/students", m.enrollment.ListMyStudents)
		teacher.GET("/dashboard/teacher", m.dashboard.TeacherDashboard)
	}

	admin := v1.Group("/admin")
	admin.Use(AuthMiddleware(m.repo), RequireRole(models.RoleAdmin))
	{
		admin.GET("/users", m.user.ListUsers)
		admin.PATCH("/users/:userID/role", m.user.UpdateRole)
		admin.DELETE("/users/:userID", m.user.RemoveUser)
		admin.GET("/dashboard", m.dashboard.AdminDashboard)
	}

	return router
}
