package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Aryan9inja/edu-collab/internal/app/models/dto"
	"github.com/Aryan9inja/edu-collab/internal/app/services"
	"github.com/Aryan9inja/edu-collab/internal/middleware"
	"github.com/Aryan9inja/edu-collab/internal/pkg/apperrors"
)

// ClassroomController handles classroom and membership operations
type ClassroomController struct {
	classroomService services.ClassroomService
}

// NewClassroomController creates a new ClassroomController
func NewClassroomController(classroomService services.ClassroomService) *ClassroomController {
	return &ClassroomController{
		classroomService: classroomService,
	}
}

// parseIDParam reads an int64 path parameter, writing a 400 on failure
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter").
			WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// requestor pulls the authenticated user's ID, writing a 401 on failure
func requestor(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return 0, false
	}
	return userID, true
}

// Create handles classroom creation
// @Summary Create a classroom
// @Description Creates a classroom with the caller as admin. The admin is a member with edit access from the start.
// @Tags classrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateClassroomRequest true "Classroom details"
// @Success 201 {object} dto.APIResponse{data=dto.ClassroomResponse} "Classroom created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms [post]
func (c *ClassroomController) Create(ctx *gin.Context) {
	userID, ok := requestor(ctx)
	if !ok {
		return
	}

	var req dto.CreateClassroomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	response, err := c.classroomService.Create(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// List handles listing the caller's classrooms
// @Summary List classrooms
// @Description Lists every classroom the caller administers or has joined
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ClassroomListResponse} "Classrooms retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms [get]
func (c *ClassroomController) List(ctx *gin.Context) {
	userID, ok := requestor(ctx)
	if !ok {
		return
	}

	response, err := c.classroomService.ListForUser(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetByID handles retrieving a single classroom
// @Summary Get classroom by ID
// @Description Retrieves a classroom. Member and grantee lists are only populated for members.
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClassroomResponse} "Classroom retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid classroom ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Classroom not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms/{id} [get]
func (c *ClassroomController) GetByID(ctx *gin.Context) {
	userID, ok := requestor(ctx)
	if !ok {
		return
	}
	classroomID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.classroomService.GetByID(ctx, classroomID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// Update handles renaming a classroom
// @Summary Rename a classroom
// @Description Renames a classroom. Admin only; last write wins.
// @Tags classrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Param request body dto.UpdateClassroomRequest true "New name"
// @Success 200 {object} dto.APIResponse{data=dto.ClassroomResponse} "Classroom renamed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the admin"
// @Failure 404 {object} dto.ErrorResponse "Classroom not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms/{id} [put]
func (c *ClassroomController) Update(ctx *gin.Context) {
	userID, ok := requestor(ctx)
	if !ok {
		return
	}
	classroomID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateClassroomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	response, err := c.classroomService.Rename(ctx, classroomID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// Delete handles classroom deletion
// @Summary Delete a classroom
// @Description Deletes a classroom with its memberships, grants and notes. Admin only.
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Classroom deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid classroom ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the admin"
// @Failure 404 {object} dto.ErrorResponse "Classroom not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms/{id} [delete]
func (c *ClassroomController) Delete(ctx *gin.Context) {
	userID, ok := requestor(ctx)
	if !ok {
		return
	}
	classroomID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.classroomService.Delete(ctx, classroomID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Classroom deleted"}))
}

// Join handles joining a classroom
// @Summary Join a classroom
// @Description Adds the caller to the classroom's members. Joining twice is a no-op. Joining never grants edit access.
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Joined classroom"
// @Failure 400 {object} dto.ErrorResponse "Invalid classroom ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Classroom not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms/{id}/members [post]
func (c *ClassroomController) Join(ctx *gin.Context) {
	userID, ok := requestor(ctx)
	if !ok {
		return
	}
	classroomID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.classroomService.Join(ctx, classroomID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Joined classroom"}))
}

// Leave handles leaving a classroom
// @Summary Leave a classroom
// @Description Removes the caller from members and grantees. The admin cannot leave.
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Left classroom"
// @Failure 400 {object} dto.ErrorResponse "Invalid classroom ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "The admin cannot leave their classroom"
// @Failure 404 {object} dto.ErrorResponse "Classroom not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms/{id}/members [delete]
func (c *ClassroomController) Leave(ctx *gin.Context) {
	userID, ok := requestor(ctx)
	if !ok {
		return
	}
	classroomID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.classroomService.Leave(ctx, classroomID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Left classroom"}))
}

// GrantAccess handles granting edit access to a member
// @Summary Grant edit access
// @Description Grants edit access to a classroom member. Callers must have edit access themselves. Granting twice is a no-op.
// @Tags classrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Param request body dto.GrantAccessRequest true "Target user"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Access granted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or target is not a member"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller has no edit access"
// @Failure 404 {object} dto.ErrorResponse "Classroom not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms/{id}/access [post]
func (c *ClassroomController) GrantAccess(ctx *gin.Context) {
	userID, ok := requestor(ctx)
	if !ok {
		return
	}
	classroomID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.GrantAccessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.classroomService.GrantAccess(ctx, classroomID, req.UserID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Access granted"}))
}

// RevokeAccess handles revoking a member's edit access
// @Summary Revoke edit access
// @Description Revokes a grantee's edit access. Admin only; the admin's own access can never be revoked.
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Param userId path int true "Target user ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Access revoked"
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the admin or target is the admin"
// @Failure 404 {object} dto.ErrorResponse "Classroom not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms/{id}/access/{userId} [delete]
func (c *ClassroomController) RevokeAccess(ctx *gin.Context) {
	userID, ok := requestor(ctx)
	if !ok {
		return
	}
	classroomID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}

	if err := c.classroomService.RevokeAccess(ctx, classroomID, targetID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Access revoked"}))
}
