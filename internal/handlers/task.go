package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	dom "github.com/josh-kartchner/traction/internal/domain"
	"github.com/josh-kartchner/traction/internal/dto"
	"github.com/josh-kartchner/traction/internal/service"
)

type TaskHandler struct {
	svc TaskService
}

func NewTaskHandler(svc TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

func taskInput(req dto.CreateTaskRequest) service.TaskInput {
	return service.TaskInput{
		SectionID:   req.SectionID,
		Title:       req.Title,
		Description: req.Description,
		Status:      dom.Status(req.Status),
		DueDate:     req.DueDate.Ptr(),
		SortOrder:   req.SortOrder,
	}
}

// Create godoc
// @Summary      Create a task in a section
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateTaskRequest  true  "Task"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.svc.Create(c.Request.Context(), taskInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskToResponse(t))
}

// CreateInProject godoc
// @Summary      Create a task in a project
// @Description  Without sectionId the task goes to the project's first section.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string                 true  "Project ID"
// @Param        body  body      dto.CreateTaskRequest  true  "Task"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /projects/{id}/tasks [post]
func (h *TaskHandler) CreateInProject(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.svc.CreateInProject(c.Request.Context(), projectID, taskInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskToResponse(t))
}

// Get godoc
// @Summary      Get a task
// @Description  Includes comments and attachments, newest first.
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := taskToResponse(t)
	if resp.Comments == nil {
		resp.Comments = []dto.CommentResponse{}
	}
	if resp.Attachments == nil {
		resp.Attachments = []dto.AttachmentResponse{}
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a task
// @Description  Partial update. Setting sectionId moves the task to that section; dueDate null clears it.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string                 true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Partial update"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	patch := service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     service.DatePatch{Set: req.DueDate.Set, Value: req.DueDate.Ptr()},
		SectionID:   req.SectionID,
		SortOrder:   req.SortOrder,
		CompletedAt: req.CompletedAt,
	}
	if req.Status != nil {
		st := dom.Status(*req.Status)
		patch.Status = &st
	}
	t, err := h.svc.Update(c.Request.Context(), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Complete godoc
// @Summary      Mark a task completed
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /tasks/{id}/complete [post]
func (h *TaskHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.Complete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Security     CookieAuth
// @Param        id   path  string  true  "Task ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search godoc
// @Summary      Search tasks
// @Description  Case-insensitive match on title or description within active projects.
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        q    query     string  true  "Search text"
// @Success      200  {object}  dto.ListTasksResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /tasks/search [get]
func (h *TaskHandler) Search(c *gin.Context) {
	list, err := h.svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTasksResponse{Items: viewsToResponses(list)})
}

// AddComment godoc
// @Summary      Comment on a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string                    true  "Task ID"
// @Param        body  body      dto.CreateCommentRequest  true  "Comment"
// @Success      201   {object}  dto.CommentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /tasks/{id}/comments [post]
func (h *TaskHandler) AddComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	cm, err := h.svc.AddComment(c.Request.Context(), id, req.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commentToResponse(cm))
}

// AddAttachment godoc
// @Summary      Attach a file to a task
// @Description  Records metadata of a file already uploaded to storage. Files above 10MB are rejected.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string                       true  "Task ID"
// @Param        body  body      dto.CreateAttachmentRequest  true  "Attachment"
// @Success      201   {object}  dto.AttachmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /tasks/{id}/attachments [post]
func (h *TaskHandler) AddAttachment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateAttachmentRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.svc.AddAttachment(c.Request.Context(), id, service.AttachmentInput{
		FileName: req.FileName,
		FileURL:  req.FileURL,
		FileSize: req.FileSize,
		MimeType: req.MimeType,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attachmentToResponse(a))
}

// DeleteAttachment godoc
// @Summary      Delete an attachment
// @Tags         tasks
// @Security     CookieAuth
// @Param        id   path  string  true  "Attachment ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /attachments/{id} [delete]
func (h *TaskHandler) DeleteAttachment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteAttachment(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
