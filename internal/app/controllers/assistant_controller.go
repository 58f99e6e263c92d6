package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aryan9inja/edu-collab/internal/app/models/dto"
	"github.com/Aryan9inja/edu-collab/internal/app/services"
	"github.com/Aryan9inja/edu-collab/internal/middleware"
)

// AssistantController handles the classroom study assistant
type AssistantController struct {
	assistantService services.AssistantService
}

// NewAssistantController creates a new AssistantController
func NewAssistantController(assistantService services.AssistantService) *AssistantController {
	return &AssistantController{
		assistantService: assistantService,
	}
}

// Ask handles assistant completion requests
// @Summary Ask the assistant
// @Description Forwards the conversation to the configured language model and returns its reply. Classroom members only.
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Param request body dto.AssistantRequest true "Conversation messages"
// @Success 200 {object} dto.APIResponse{data=dto.AssistantResponse} "Assistant reply"
// @Failure 400 {object} dto.ErrorResponse "Malformed messages"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a member"
// @Failure 404 {object} dto.ErrorResponse "Classroom not found"
// @Failure 500 {object} dto.ErrorResponse "Assistant not configured"
// @Failure 502 {object} dto.ErrorResponse "Upstream model failure"
// @Router /classrooms/{id}/assistant [post]
func (c *AssistantController) Ask(ctx *gin.Context) {
	userID, ok := requestor(ctx)
	if !ok {
		return
	}
	classroomID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AssistantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	response, err := c.assistantService.Ask(ctx, classroomID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
