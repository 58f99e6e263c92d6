package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Aryan9inja/edu-collab/internal/app/models/dto"
	"github.com/Aryan9inja/edu-collab/internal/app/services"
	"github.com/Aryan9inja/edu-collab/internal/middleware"
)

// UserController handles the username directory
type UserController struct {
	usernameService services.UsernameService
}

// NewUserController creates a new UserController
func NewUserController(usernameService services.UsernameService) *UserController {
	return &UserController{
		usernameService: usernameService,
	}
}

// RegisterUsername handles claiming a handle
// @Summary Register a username
// @Description Claims a unique handle for the caller. Handles are 3-20 characters of letters, numbers, underscores and hyphens, unique ignoring case, and immutable once claimed.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RegisterUsernameRequest true "Desired username"
// @Success 201 {object} dto.APIResponse{data=dto.UsernameResponse} "Username registered"
// @Failure 400 {object} dto.ErrorResponse "Username fails validation"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 409 {object} dto.ErrorResponse "Username taken or caller already has one"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/username [post]
func (c *UserController) RegisterUsername(ctx *gin.Context) {
	userID, ok := requestor(ctx)
	if !ok {
		return
	}

	var req dto.RegisterUsernameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	response, err := c.usernameService.Register(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// GetMyUsername handles resolving the caller's own handle
// @Summary Get my username
// @Description Returns the caller's registered handle
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UsernameResponse} "Username retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "No username registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/me/username [get]
func (c *UserController) GetMyUsername(ctx *gin.Context) {
	userID, ok := requestor(ctx)
	if !ok {
		return
	}

	response, err := c.usernameService.Resolve(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetUsername handles resolving another user's handle
// @Summary Get a user's username
// @Description Returns the handle registered by the given user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UsernameResponse} "Username retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "No username registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id}/username [get]
func (c *UserController) GetUsername(ctx *gin.Context) {
	if _, ok := requestor(ctx); !ok {
		return
	}
	targetID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.usernameService.Resolve(ctx, targetID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// ResolveUsernames handles batch handle resolution
// @Summary Resolve usernames in bulk
// @Description Resolves handles for a comma-separated list of user IDs. Users without a handle are absent from the result.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param ids query string true "Comma-separated user IDs" example(1,2,3)
// @Success 200 {object} dto.APIResponse{data=dto.ResolveUsernamesResponse} "Usernames resolved"
// @Failure 400 {object} dto.ErrorResponse "Invalid ids parameter"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/usernames [get]
func (c *UserController) ResolveUsernames(ctx *gin.Context) {
	if _, ok := requestor(ctx); !ok {
		return
	}

	idsParam := strings.TrimSpace(ctx.Query("ids"))
	if idsParam == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Missing ids parameter").
			WithDetails("Provide a comma-separated list of user IDs")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	parts := strings.Split(idsParam, ",")
	userIDs := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id < 1 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ids parameter").
				WithDetails("Every id must be a positive number")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		userIDs = append(userIDs, id)
	}

	response, err := c.usernameService.ResolveMany(ctx, userIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// SearchMembers handles searching a classroom's member directory
// @Summary Search classroom members
// @Description Finds classroom members whose handle contains the query, case-insensitive, capped at 10 results. Members only.
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Param query query string true "Search text"
// @Success 200 {object} dto.APIResponse{data=dto.UsernameSearchResponse} "Matching members"
// @Failure 400 {object} dto.ErrorResponse "Invalid classroom ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a member"
// @Failure 404 {object} dto.ErrorResponse "Classroom not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms/{id}/members/search [get]
func (c *UserController) SearchMembers(ctx *gin.Context) {
	userID, ok := requestor(ctx)
	if !ok {
		return
	}
	classroomID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.usernameService.Search(ctx, classroomID, userID, ctx.Query("query"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
