package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/josh-kartchner/traction/internal/dto"
	"github.com/josh-kartchner/traction/internal/service"
)

type ProjectHandler struct {
	svc ProjectService
}

func NewProjectHandler(svc ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// List godoc
// @Summary      List active projects
// @Description  Non-archived projects in sort order, each with its count of open tasks.
// @Tags         projects
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListProjectsResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListProjectsResponse{Items: projectsToResponses(list)})
}

// Create godoc
// @Summary      Create a project
// @Description  Appends the project and seeds the To Do, In Progress and Done sections.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateProjectRequest  true  "Project"
// @Success      201   {object}  dto.ProjectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.svc.Create(c.Request.Context(), service.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, projectToResponse(p))
}

// Get godoc
// @Summary      Get a project
// @Description  The project with its sections and their tasks, each in sort order.
// @Tags         projects
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projectToResponse(p))
}

// Update godoc
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string                    true  "Project ID"
// @Param        body  body      dto.UpdateProjectRequest  true  "Partial update"
// @Success      200   {object}  dto.ProjectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /projects/{id} [patch]
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.svc.Update(c.Request.Context(), id, service.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		SortOrder:   req.SortOrder,
		IsArchived:  req.IsArchived,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projectToResponse(p))
}
