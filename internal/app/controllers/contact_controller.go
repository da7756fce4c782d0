package controllers

import (
	"github.com/act/eventportal/internal/app/models/dto"
	"github.com/act/eventportal/internal/app/services"
	"github.com/act/eventportal/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ContactController forwards public contact form messages
type ContactController struct {
	notifications services.NotificationService
}

// NewContactController creates a new ContactController
func NewContactController(notifications services.NotificationService) *ContactController {
	return &ContactController{notifications: notifications}
}

// Send mails a contact inquiry to the portal office
// @Summary Contact the office
// @Tags contact
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Contact message"
// @Success 200 {object} dto.APIResponse "Message sent successfully!"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /contact [post]
func (c *ContactController) Send(ctx *gin.Context) {
	var req dto.ContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	c.notifications.ContactInquiry(ctx.Request.Context(), req.Name, req.Email, req.Message)
	respond(ctx, "Message sent successfully!", nil)
}
