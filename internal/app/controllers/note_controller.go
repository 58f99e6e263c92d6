package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aryan9inja/edu-collab/internal/app/models/dto"
	"github.com/Aryan9inja/edu-collab/internal/app/services"
	"github.com/Aryan9inja/edu-collab/internal/middleware"
)

// NoteController handles classroom note uploads and downloads
type NoteController struct {
	noteService services.NoteService
}

// NewNoteController creates a new NoteController
func NewNoteController(noteService services.NoteService) *NoteController {
	return &NoteController{
		noteService: noteService,
	}
}

// Upload handles attaching a note file to a classroom
// @Summary Upload a note
// @Description Stores a file and links it into the classroom's notes. Requires edit access.
// @Tags notes
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Param file formData file true "Note file"
// @Success 201 {object} dto.APIResponse{data=dto.NoteResponse} "Note uploaded"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid file"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller has no edit access"
// @Failure 404 {object} dto.ErrorResponse "Classroom not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms/{id}/notes [post]
func (c *NoteController) Upload(ctx *gin.Context) {
	userID, ok := requestor(ctx)
	if !ok {
		return
	}
	classroomID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "A file is required").
			WithDetails("Attach the note as multipart form field 'file'")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	response, err := c.noteService.Upload(ctx, classroomID, userID, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// List handles listing a classroom's notes
// @Summary List notes
// @Description Returns the classroom's notes in upload order. Members only.
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Success 200 {object} dto.APIResponse{data=dto.NoteListResponse} "Notes retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid classroom ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a member"
// @Failure 404 {object} dto.ErrorResponse "Classroom not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms/{id}/notes [get]
func (c *NoteController) List(ctx *gin.Context) {
	userID, ok := requestor(ctx)
	if !ok {
		return
	}
	classroomID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.noteService.List(ctx, classroomID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// Remove handles deleting a note
// @Summary Remove a note
// @Description Unlinks a note from the classroom and deletes its file. Requires edit access.
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Param noteId path int true "Note ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Note removed"
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller has no edit access"
// @Failure 404 {object} dto.ErrorResponse "Classroom or note not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms/{id}/notes/{noteId} [delete]
func (c *NoteController) Remove(ctx *gin.Context) {
	userID, ok := requestor(ctx)
	if !ok {
		return
	}
	classroomID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	noteID, ok := parseIDParam(ctx, "noteId")
	if !ok {
		return
	}

	if err := c.noteService.Remove(ctx, classroomID, noteID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Note removed"}))
}

// View handles resolving a note's inline URL
// @Summary Get note view URL
// @Description Redirects to the note's inline URL. Members only.
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Param noteId path int true "Note ID"
// @Success 307 "Redirect to the file URL"
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a member"
// @Failure 404 {object} dto.ErrorResponse "Classroom or note not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms/{id}/notes/{noteId}/view [get]
func (c *NoteController) View(ctx *gin.Context) {
	userID, ok := requestor(ctx)
	if !ok {
		return
	}
	classroomID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	noteID, ok := parseIDParam(ctx, "noteId")
	if !ok {
		return
	}

	url, err := c.noteService.GetViewURL(ctx, classroomID, noteID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Redirect(http.StatusTemporaryRedirect, url)
}

// Download handles resolving a note's download URL
// @Summary Get note download URL
// @Description Redirects to the note's URL with attachment disposition. Members only.
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Param noteId path int true "Note ID"
// @Success 307 "Redirect to the file URL"
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a member"
// @Failure 404 {object} dto.ErrorResponse "Classroom or note not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms/{id}/notes/{noteId}/download [get]
func (c *NoteController) Download(ctx *gin.Context) {
	userID, ok := requestor(ctx)
	if !ok {
		return
	}
	classroomID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	noteID, ok := parseIDParam(ctx, "noteId")
	if !ok {
		return
	}

	url, err := c.noteService.GetDownloadURL(ctx, classroomID, noteID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Redirect(http.StatusTemporaryRedirect, url)
}
