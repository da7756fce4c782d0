package routes

import (
	"github.com/act/eventportal/internal/app/controllers"
	"github.com/act/eventportal/internal/app/models"
	"github.com/act/eventportal/internal/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	adminController *controllers.AdminController,
	facultyController *controllers.FacultyController,
	studentController *controllers.StudentController,
	contactController *controllers.ContactController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	api.GET("/health", healthController.Check)
	api.POST("/contact", contactController.Send)

	// --- Admin routes ---
	admin := api.Group("/admin")
	{
		admin.POST("/login", adminController.Login)
		admin.POST("/logout", adminController.Logout)
		admin.POST("/forgot-password", adminController.ForgotPassword)
		admin.POST("/reset-password", adminController.ResetPassword)
	}

	adminProtected := admin.Group("")
	adminProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		adminProtected.GET("/me", adminController.GetProfile)
		adminProtected.PUT("/me", adminController.UpdateProfile)
		adminProtected.PUT("/update", adminController.UpdateProfile)
		adminProtected.PUT("/update-password", adminController.UpdatePassword)

		adminProtected.GET("/unapproved-faculties", adminController.ListUnapprovedFaculties)
		adminProtected.GET("/faculties", adminController.ListFaculties)
		adminProtected.PUT("/approve-faculty/:id", adminController.ApproveFaculty)
		adminProtected.PUT("/reject-faculty/:id", adminController.RejectFaculty)
		adminProtected.PUT("/faculties/:id", adminController.UpdateFaculty)
		adminProtected.DELETE("/faculties/:id", adminController.DeleteFaculty)

		adminProtected.GET("/students", adminController.ListStudents)
		adminProtected.GET("/students/event-counts", adminController.ListStudentEventCounts)
		adminProtected.PUT("/students/:id", adminController.UpdateStudent)
		adminProtected.DELETE("/students/:id", adminController.DeleteStudent)

		adminProtected.GET("/events", adminController.ListEvents)
		adminProtected.POST("/create-event", adminController.CreateEvent)
		adminProtected.PUT("/events/:id", adminController.UpdateEvent)
		adminProtected.DELETE("/events/:id", adminController.DeleteEvent)
		adminProtected.GET("/events/:id/students", adminController.ListEventStudents)
		adminProtected.PUT("/events/:id/reassign/:facultyId", adminController.ReassignEvent)
	}

	// --- Faculty routes ---
	faculty := api.Group("/faculty")
	{
		faculty.POST("/register", facultyController.Register)
		faculty.POST("/login", facultyController.Login)
		faculty.POST("/logout", facultyController.Logout)
		faculty.POST("/set-password", facultyController.SetPassword)
	}

	facultyProtected := faculty.Group("")
	facultyProtected.Use(authMiddleware.RoleRequired(models.RoleFaculty))
	{
		facultyProtected.GET("/me", facultyController.GetProfile)
		facultyProtected.PUT("/update", facultyController.UpdateProfile)
		facultyProtected.PUT("/update-password", facultyController.UpdatePassword)
		facultyProtected.GET("/events", facultyController.ListEvents)
		facultyProtected.GET("/events/:id/students", facultyController.ListEventStudents)
		facultyProtected.POST("/events/:id/attendance", facultyController.MarkAttendance)
	}

	// --- Student routes ---
	students := api.Group("/students")
	{
		students.POST("/signup", studentController.Signup)
		students.POST("/login", studentController.Login)
		students.POST("/logout", studentController.Logout)
	}

	studentsProtected := students.Group("")
	studentsProtected.Use(authMiddleware.RoleRequired(models.RoleStudent))
	{
		studentsProtected.GET("/profile", studentController.GetProfile)
		studentsProtected.PUT("/profile", studentController.UpdateProfile)
		studentsProtected.PUT("/profile/password", studentController.UpdatePassword)
		studentsProtected.POST("/register-event/:id", studentController.RegisterEvent)
		studentsProtected.POST("/unregister-event/:id", studentController.UnregisterEvent)
		studentsProtected.GET("/events", studentController.ListEvents)
		studentsProtected.GET("/registered-events", studentController.ListRegisteredEvents)
		studentsProtected.GET("/events/:id/attendance", studentController.GetAttendance)
	}
}
