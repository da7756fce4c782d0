package controllers

import (
	"github.com/act/eventportal/internal/app/models"
	"github.com/act/eventportal/internal/app/models/dto"
	"github.com/act/eventportal/internal/app/services"
	"github.com/act/eventportal/internal/middleware"
	"github.com/act/eventportal/internal/pkg/session"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AdminController handles administrator operations
type AdminController struct {
	adminService services.AdminService
	sessions     *session.Manager
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService, sessions *session.Manager, logger zerolog.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		sessions:     sessions,
		logger:       logger,
	}
}

// Login authenticates an administrator and starts an admin session
// @Summary Admin login
// @Description Authenticates an administrator and sets the session cookie
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Admin credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AdminProfile} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /admin/login [post]
func (c *AdminController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	profile, err := c.adminService.Authenticate(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.logger.Warn().Str("email", req.Email).Msg("Admin login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	login(ctx, c.sessions, c.logger, models.RoleAdmin, profile.ID, profile)
}

// Logout destroys the admin session
// @Summary Admin logout
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse "Logged out"
// @Router /admin/logout [post]
func (c *AdminController) Logout(ctx *gin.Context) {
	logout(ctx, c.sessions, c.logger, "Logged out")
}

// ForgotPassword mails a password reset link when the address belongs to an admin
// @Summary Request admin password reset
// @Description Always succeeds so that admin addresses cannot be probed
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Admin email"
// @Success 200 {object} dto.APIResponse "Reset link sent if the email exists"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Router /admin/forgot-password [post]
func (c *AdminController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	if err := c.adminService.RequestPasswordReset(ctx.Request.Context(), req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "If the email exists, a reset link has been sent", nil)
}

// ResetPassword sets a new admin password from a reset token
// @Summary Reset admin password
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} dto.APIResponse "Password reset successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid or expired reset token"
// @Router /admin/reset-password [post]
func (c *AdminController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	if err := c.adminService.ResetPassword(ctx.Request.Context(), req.Token, req.NewPassword); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Password reset successfully", nil)
}

// GetProfile returns the logged-in admin
// @Summary Current admin
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AdminProfile}
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /admin/me [get]
func (c *AdminController) GetProfile(ctx *gin.Context) {
	profile, err := c.adminService.GetProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "", profile)
}

// UpdateProfile changes the admin's username and email
// @Summary Update admin profile
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.UpdateAdminRequest true "Profile"
// @Success 200 {object} dto.APIResponse{data=dto.AdminProfile}
// @Failure 400 {object} dto.ErrorResponse "Invalid request or email already exists"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /admin/me [put]
func (c *AdminController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	profile, err := c.adminService.UpdateProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Profile updated", profile)
}

// UpdatePassword changes the admin password
// @Summary Update admin password
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} dto.APIResponse "Password updated"
// @Failure 400 {object} dto.ErrorResponse "Current password incorrect"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /admin/update-password [put]
func (c *AdminController) UpdatePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	if err := c.adminService.UpdatePassword(ctx.Request.Context(), middleware.CurrentUserID(ctx), req.CurrentPassword, req.NewPassword); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Password updated", nil)
}

// ListUnapprovedFaculties lists faculty members waiting for approval
// @Summary Unapproved faculty
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.FacultyProfile}
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /admin/unapproved-faculties [get]
func (c *AdminController) ListUnapprovedFaculties(ctx *gin.Context) {
	faculties, err := c.adminService.ListUnapprovedFaculties(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "", faculties)
}

// ListFaculties lists all faculty members with their assigned event count
// @Summary All faculty
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.FacultyDTO}
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /admin/faculties [get]
func (c *AdminController) ListFaculties(ctx *gin.Context) {
	faculties, err := c.adminService.ListFaculties(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "", faculties)
}

// ApproveFaculty approves a pending faculty member and mails the set-password link
// @Summary Approve faculty
// @Tags admin
// @Produce json
// @Param id path int true "Faculty ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Faculty approved and email sent"
// @Failure 400 {object} dto.ErrorResponse "Invalid faculty ID"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /admin/approve-faculty/{id} [put]
func (c *AdminController) ApproveFaculty(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.adminService.ApproveFaculty(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Faculty approved and email sent", nil)
}

// RejectFaculty removes the faculty member, unassigns their events and mails the reason
// @Summary Reject faculty
// @Tags admin
// @Produce json
// @Param id path int true "Faculty ID" Format(int64) minimum(1)
// @Param reason query string true "Rejection reason"
// @Success 200 {object} dto.APIResponse "Faculty rejected and email sent"
// @Failure 400 {object} dto.ErrorResponse "Missing reason"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /admin/reject-faculty/{id} [put]
func (c *AdminController) RejectFaculty(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	reason, ok := requireQuery(ctx, "reason")
	if !ok {
		return
	}

	if err := c.adminService.RejectFaculty(ctx.Request.Context(), id, reason); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Faculty rejected and email sent", nil)
}

// UpdateFaculty edits a faculty record
// @Summary Update faculty
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Faculty ID" Format(int64) minimum(1)
// @Param request body dto.AdminUpdateFacultyRequest true "Faculty fields"
// @Success 200 {object} dto.APIResponse{data=dto.FacultyDTO}
// @Failure 400 {object} dto.ErrorResponse "Invalid request or email already exists"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /admin/faculties/{id} [put]
func (c *AdminController) UpdateFaculty(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.AdminUpdateFacultyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	faculty, err := c.adminService.UpdateFaculty(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Faculty updated", faculty)
}

// DeleteFaculty deletes a faculty member, reassigning owned events to the replacement
// @Summary Delete faculty
// @Tags admin
// @Produce json
// @Param id path int true "Faculty ID" Format(int64) minimum(1)
// @Param replacementFacultyId query int false "Faculty that takes over the assigned events"
// @Success 200 {object} dto.APIResponse "Faculty deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Faculty has assigned events and no replacement"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Failure 404 {object} dto.ErrorResponse "Faculty or replacement not found"
// @Router /admin/faculties/{id} [delete]
func (c *AdminController) DeleteFaculty(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	replacementID, present, ok := parseIDQuery(ctx, "replacementFacultyId")
	if !ok {
		return
	}

	var replacement *int64
	if present {
		replacement = &replacementID
	}
	if err := c.adminService.DeleteFaculty(ctx.Request.Context(), id, replacement); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Faculty deleted successfully", nil)
}

// ListStudents lists students with the names of their registered events
// @Summary All students
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentWithEventsDTO}
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /admin/students [get]
func (c *AdminController) ListStudents(ctx *gin.Context) {
	students, err := c.adminService.ListStudents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "", students)
}

// ListStudentEventCounts lists students with their number of registrations
// @Summary Student registration counts
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentEventCountDTO}
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /admin/students/event-counts [get]
func (c *AdminController) ListStudentEventCounts(ctx *gin.Context) {
	students, err := c.adminService.ListStudentEventCounts(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "", students)
}

// UpdateStudent edits a student record
// @Summary Update student
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Param request body dto.AdminUpdateStudentRequest true "Student fields"
// @Success 200 {object} dto.APIResponse{data=dto.StudentProfile}
// @Failure 400 {object} dto.ErrorResponse "Invalid request or email already exists"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{id} [put]
func (c *AdminController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.AdminUpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	student, err := c.adminService.UpdateStudent(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Student updated", student)
}

// DeleteStudent deletes a student and all of their registrations
// @Summary Delete student
// @Tags admin
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Student and registered events deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{id} [delete]
func (c *AdminController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.adminService.DeleteStudent(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Student and registered events deleted successfully", nil)
}

// ListEvents lists every event with its faculty name
// @Summary All events
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.EventSummaryDTO}
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /admin/events [get]
func (c *AdminController) ListEvents(ctx *gin.Context) {
	events, err := c.adminService.ListEvents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "", events)
}

// CreateEvent creates an event, optionally assigned to a faculty member
// @Summary Create event
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.EventInput true "Event fields"
// @Success 200 {object} dto.APIResponse{data=dto.EventSummaryDTO}
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /admin/create-event [post]
func (c *AdminController) CreateEvent(ctx *gin.Context) {
	var input dto.EventInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	event, err := c.adminService.CreateEvent(ctx.Request.Context(), input)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Event created", event)
}

// UpdateEvent applies the keys present in the body to an event
// @Summary Update event
// @Description Absent keys are left unchanged; "facultyId": null unassigns the event
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Event ID" Format(int64) minimum(1)
// @Param request body dto.EventInput true "Event fields"
// @Success 200 {object} dto.APIResponse{data=dto.EventSummaryDTO}
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Failure 404 {object} dto.ErrorResponse "Event or faculty not found"
// @Router /admin/events/{id} [put]
func (c *AdminController) UpdateEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var input dto.EventInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	event, err := c.adminService.UpdateEvent(ctx.Request.Context(), id, input)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Event updated", event)
}

// DeleteEvent deletes an event and its registrations
// @Summary Delete event
// @Tags admin
// @Produce json
// @Param id path int true "Event ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Event deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /admin/events/{id} [delete]
func (c *AdminController) DeleteEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.adminService.DeleteEvent(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Event deleted successfully", nil)
}

// ListEventStudents lists the students registered for an event
// @Summary Event attendance sheet
// @Tags admin
// @Produce json
// @Param id path int true "Event ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentAttendanceDTO}
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /admin/events/{id}/students [get]
func (c *AdminController) ListEventStudents(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	students, err := c.adminService.ListEventStudents(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "", students)
}

// ReassignEvent assigns an event to another faculty member
// @Summary Reassign event
// @Tags admin
// @Produce json
// @Param id path int true "Event ID" Format(int64) minimum(1)
// @Param facultyId path int true "New faculty ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Event reassigned successfully"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Failure 404 {object} dto.ErrorResponse "Event or faculty not found"
// @Router /admin/events/{id}/reassign/{facultyId} [put]
func (c *AdminController) ReassignEvent(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	facultyID, ok := parseIDParam(ctx, "facultyId")
	if !ok {
		return
	}

	if err := c.adminService.ReassignEvent(ctx.Request.Context(), eventID, facultyID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Event reassigned successfully", nil)
}
